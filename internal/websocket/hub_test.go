package websocket

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-chatbot-be/internal/pkg/logger"
	"pdf-chatbot-be/pkg/events"
)

func newTestHub(t *testing.T) (*Hub, *gochannel.GoChannel, context.CancelFunc) {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	sysLogger := logger.NewZapLogger(filepath.Join(t.TempDir(), "hub.log"), false)

	hub := NewHub(pubSub, sysLogger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	return hub, pubSub, cancel
}

func publishEvent(t *testing.T, pubSub *gochannel.GoChannel, evt events.SessionEvent) {
	t.Helper()
	body, err := evt.Marshal()
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(events.TopicSessionState,
		message.NewMessage(watermill.NewUUID(), body)))
}

func TestHubRoutesEventsToSessionClients(t *testing.T) {
	hub, pubSub, cancel := newTestHub(t)
	defer cancel()
	defer pubSub.Close()

	sessionID := uuid.New()
	client := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 8)}
	hub.register <- client

	otherID := uuid.New()
	other := &Client{Hub: hub, SessionID: otherID, Send: make(chan []byte, 8)}
	hub.register <- other

	publishEvent(t, pubSub, events.NewSessionEvent(events.TypeStateChanged, sessionID, nil))

	select {
	case payload := <-client.Send:
		evt, err := events.UnmarshalSessionEvent(payload)
		require.NoError(t, err)
		assert.Equal(t, sessionID, evt.SessionID)
		assert.Equal(t, events.TypeStateChanged, evt.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	// The other session's client hears nothing.
	select {
	case <-other.Send:
		t.Fatal("event leaked to an unrelated session")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub, pubSub, cancel := newTestHub(t)
	defer cancel()
	defer pubSub.Close()

	sessionID := uuid.New()
	client := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 8)}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
