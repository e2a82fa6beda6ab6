package websocket

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"pdf-chatbot-be/internal/pkg/logger"
	"pdf-chatbot-be/pkg/events"
)

// Hub fans session state-change events out to the websocket clients
// subscribed to each session. Events arrive over the in-process message bus,
// so the session layer never knows sockets exist.
type Hub struct {
	// Registered clients map: SessionID -> list of clients (multi-tab)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Bus subscription feeding the hub
	subscriber message.Subscriber

	logger logger.ILogger
}

func NewHub(subscriber message.Subscriber, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		subscriber: subscriber,
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.subscriber != nil {
		go h.consumeEvents(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) consumeEvents(ctx context.Context) {
	messages, err := h.subscriber.Subscribe(ctx, events.TopicSessionState)
	if err != nil {
		h.logger.Error("Hub", "Failed to subscribe to session events", map[string]interface{}{"error": err.Error()})
		return
	}

	for msg := range messages {
		evt, err := events.UnmarshalSessionEvent(msg.Payload)
		if err != nil {
			h.logger.Warn("Hub", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}
		h.broadcast(evt.SessionID, msg.Payload)
		msg.Ack()
	}
}

// broadcast pushes the raw event payload to every client of one session.
// Slow clients get skipped rather than stalling the hub.
func (h *Hub) broadcast(sessionID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}
