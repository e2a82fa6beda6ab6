package bootstrap

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"pdf-chatbot-be/internal/config"
	"pdf-chatbot-be/internal/controller"
	"pdf-chatbot-be/internal/pkg/logger"
	"pdf-chatbot-be/internal/repository/memory"
	"pdf-chatbot-be/internal/service"
	"pdf-chatbot-be/internal/websocket"
	"pdf-chatbot-be/pkg/chatbot"
	"pdf-chatbot-be/pkg/extractor"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// WebSockets
	WebSocketHub *websocket.Hub

	// Shared facades
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus (in-process; the websocket hub is its only consumer today)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Adapters
	pdfExtractor := extractor.NewPDFExtractor()

	var chatbotOpts []chatbot.Option
	if cfg.Ai.GeminiBaseURL != "" {
		chatbotOpts = append(chatbotOpts, chatbot.WithBaseURL(cfg.Ai.GeminiBaseURL))
	}
	chatbotOpts = append(chatbotOpts,
		chatbot.WithTimeout(time.Duration(cfg.Ai.AnswerTimeoutSeconds)*time.Second))
	geminiChatbot := chatbot.NewGeminiChatbot(cfg.Keys.GoogleGemini, cfg.Ai.GeminiModel, chatbotOpts...)

	// 4. In-memory session storage
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)

	// 5. Services
	chatService := service.NewChatService(sessionRepo, pdfExtractor, geminiChatbot, pubSub, sysLogger)

	// 6. WebSocket hub (started by main)
	wsHub := websocket.NewHub(pubSub, sysLogger)

	// 7. Controllers
	chatController := controller.NewChatController(chatService)

	return &Container{
		ChatController: chatController,
		WebSocketHub:   wsHub,
		Logger:         sysLogger,
	}
}
