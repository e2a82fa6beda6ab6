package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RegisterRoutes mounts the event stream endpoint next to the REST routes.
func RegisterRoutes(r fiber.Router, hub *Hub) {
	path := "/chat/v1/session/:id/events"

	r.Use(path, func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	r.Get(path, websocket.New(func(conn *websocket.Conn) {
		sessionID, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			conn.Close()
			return
		}
		ServeWs(hub, conn, sessionID)
	}))
}

// ServeWs attaches a websocket connection to the hub.
func ServeWs(hub *Hub, conn *websocket.Conn, sessionID uuid.UUID) {
	client := &Client{Hub: hub, Conn: conn, SessionID: sessionID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // runs in the handler goroutine; returning closes the socket
}
