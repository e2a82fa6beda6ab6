package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdf-chatbot-be/internal/constant"
	"pdf-chatbot-be/internal/dto"
	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/internal/pkg/logger"
	"pdf-chatbot-be/internal/pkg/serverutils"
	"pdf-chatbot-be/internal/repository/memory"
	"pdf-chatbot-be/internal/session"
	"pdf-chatbot-be/pkg/chatbot"
	"pdf-chatbot-be/pkg/extractor"
	"pdf-chatbot-be/pkg/store"
)

// IChatService defines the chat service interface
type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionSnapshotResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	UploadDocument(ctx context.Context, sessionId uuid.UUID, fileName, mimeType string, fileBytes []byte) (*dto.UploadDocumentResponse, error)
	RemoveDocument(ctx context.Context, sessionId uuid.UUID) (*dto.SessionSnapshotResponse, error)
	SendChat(ctx context.Context, sessionId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

// chatService wires per-session controllers to the shared adapters.
type chatService struct {
	sessionRepo *memory.SessionRepository
	extractor   extractor.Extractor
	answerer    chatbot.Answerer
	publisher   message.Publisher
	logger      logger.ILogger
}

func NewChatService(
	sessionRepo *memory.SessionRepository,
	ext extractor.Extractor,
	answerer chatbot.Answerer,
	publisher message.Publisher,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		extractor:   ext,
		answerer:    answerer,
		publisher:   publisher,
		logger:      sysLogger,
	}
}

func (s *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	controller := session.NewController(s.extractor, s.answerer, s.publisher)
	s.sessionRepo.Save(controller)

	snap := controller.Snapshot()
	s.logger.Info("ChatService", "Session created", map[string]interface{}{
		"session_id": snap.ID,
	})

	return &dto.CreateSessionResponse{
		Id:       snap.ID,
		Messages: messagesToDto(snap.Messages),
	}, nil
}

func (s *chatService) GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionSnapshotResponse, error) {
	controller, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Session not found")
	}
	return snapshotToDto(controller.Snapshot()), nil
}

func (s *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	controller, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Session not found")
	}
	return messagesToDto(controller.Snapshot().Messages), nil
}

func (s *chatService) UploadDocument(ctx context.Context, sessionId uuid.UUID, fileName, mimeType string, fileBytes []byte) (*dto.UploadDocumentResponse, error) {
	controller, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Session not found")
	}

	err := controller.UploadDocument(ctx, fileName, mimeType, fileBytes)
	if err != nil {
		s.logger.Warn("ChatService", "Upload rejected", map[string]interface{}{
			"session_id": sessionId,
			"file_name":  fileName,
			"error":      err.Error(),
		})
		return nil, mapSessionError(err)
	}

	snap := controller.Snapshot()
	s.logger.Info("ChatService", "Document attached", map[string]interface{}{
		"session_id": sessionId,
		"file_name":  fileName,
		"pages":      countPageMarkers(snap),
	})

	var confirmation *dto.ChatMessageResponse
	if n := len(snap.Messages); n > 0 {
		confirmation = messageToDto(snap.Messages[n-1])
	}

	return &dto.UploadDocumentResponse{
		FileName:     snap.FileName,
		PageMarkers:  countPageMarkers(snap),
		Confirmation: confirmation,
		Session:      snapshotToDto(snap),
	}, nil
}

func (s *chatService) RemoveDocument(ctx context.Context, sessionId uuid.UUID) (*dto.SessionSnapshotResponse, error) {
	controller, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Session not found")
	}

	controller.RemoveDocument()
	s.logger.Info("ChatService", "Document removed", map[string]interface{}{
		"session_id": sessionId,
	})
	return snapshotToDto(controller.Snapshot()), nil
}

func (s *chatService) SendChat(ctx context.Context, sessionId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	controller, found := s.sessionRepo.Get(sessionId)
	if !found {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Session not found")
	}

	// Blank input is a no-op for the controller; don't echo old messages
	// back as if a turn had run.
	if strings.TrimSpace(request.Chat) == "" {
		return &dto.SendChatResponse{ChatSessionId: sessionId}, nil
	}

	_, err := controller.SendMessage(ctx, request.Chat)
	if err != nil {
		return nil, mapSessionError(err)
	}

	// The last two messages are the turn we just ran: the trimmed user
	// question and the assistant reply (answer text or fallback string).
	snap := controller.Snapshot()
	resp := &dto.SendChatResponse{ChatSessionId: sessionId}
	if n := len(snap.Messages); n >= 2 {
		resp.Sent = messageToDto(snap.Messages[n-2])
		resp.Reply = messageToDto(snap.Messages[n-1])
	}
	return resp, nil
}

// mapSessionError translates controller sentinels into HTTP-level errors.
func mapSessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidFileType):
		return serverutils.NewApiError(fiber.StatusUnprocessableEntity, constant.ErrMsgInvalidFileType)
	case errors.Is(err, session.ErrExtractionFailed):
		return serverutils.NewApiError(fiber.StatusUnprocessableEntity, constant.ErrMsgExtractionFailed)
	case errors.Is(err, session.ErrMissingDocument):
		return serverutils.NewApiError(fiber.StatusUnprocessableEntity, constant.ErrMsgDocumentRequired)
	case errors.Is(err, session.ErrBusy):
		return serverutils.NewApiError(fiber.StatusConflict, constant.ErrMsgSessionBusy)
	default:
		return err
	}
}

func snapshotToDto(snap store.Session) *dto.SessionSnapshotResponse {
	return &dto.SessionSnapshotResponse{
		Id:               snap.ID,
		FileName:         snap.FileName,
		HasDocument:      snap.HasDocument(),
		IsExtracting:     snap.IsExtracting,
		IsAwaitingAnswer: snap.IsAwaitingAnswer,
		LastError:        snap.LastError,
		Messages:         messagesToDto(snap.Messages),
	}
}

func messagesToDto(messages []entity.ChatMessage) []*dto.ChatMessageResponse {
	out := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageToDto(m))
	}
	return out
}

func messageToDto(m entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        m.Id,
		Role:      m.Role,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func countPageMarkers(snap store.Session) int {
	return strings.Count(snap.ContextText, "\nPage ")
}
