package main

import (
	"context"
	"log"

	"pdf-chatbot-be/internal/bootstrap"
	"pdf-chatbot-be/internal/config"
	"pdf-chatbot-be/internal/server"
	"pdf-chatbot-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 3. Start WebSocket Hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go container.WebSocketHub.Run(ctx)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
