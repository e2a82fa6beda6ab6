package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TopicSessionState is the in-process pub/sub topic carrying session
// state-change notifications. The websocket hub subscribes to it; any test
// harness can do the same.
const TopicSessionState = "CHAT_SESSION_STATE_CHANGED"

// Event type codes published on TopicSessionState.
const (
	TypeSessionCreated  = "SESSION_CREATED"
	TypeDocumentReady   = "DOCUMENT_READY"
	TypeDocumentRemoved = "DOCUMENT_REMOVED"
	TypeStateChanged    = "SESSION_STATE_CHANGED"
)

// SessionEvent is the wire form of a state-change notification. The payload
// deliberately carries no document text, only presentation-level state.
type SessionEvent struct {
	Type       string    `json:"type"`
	SessionID  uuid.UUID `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`

	Payload map[string]interface{} `json:"payload,omitempty"`
}

// NewSessionEvent stamps an event with the current time.
func NewSessionEvent(eventType string, sessionID uuid.UUID, payload map[string]interface{}) SessionEvent {
	return SessionEvent{
		Type:       eventType,
		SessionID:  sessionID,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}

// Marshal renders the event for the message bus.
func (e SessionEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalSessionEvent decodes a bus message back into an event.
func UnmarshalSessionEvent(data []byte) (SessionEvent, error) {
	var e SessionEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
