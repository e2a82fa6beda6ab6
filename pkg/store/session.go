package store

import (
	"github.com/google/uuid"

	"pdf-chatbot-be/internal/entity"
)

// Session is the in-memory state of one chat session. Single-document
// capacity: ContextText is set exactly when FileName is set.
type Session struct {
	ID uuid.UUID `json:"id"`

	// THE DOCUMENT SLOT (the active PDF being discussed)
	FileName    string `json:"file_name"`
	ContextText string `json:"-"` // can be huge; never serialized to clients

	// THE TRANSCRIPT (append-only during a session, reset on removal)
	Messages []entity.ChatMessage `json:"messages"`

	// Status flags. At most one of the two busy flags is true at a time.
	IsExtracting     bool   `json:"is_extracting"`
	IsAwaitingAnswer bool   `json:"is_awaiting_answer"`
	LastError        string `json:"last_error,omitempty"`

	// Generation increments on every document removal or replacement.
	// In-flight completions compare against it and discard themselves
	// when the document they worked against is gone.
	Generation uint64 `json:"-"`
}

// HasDocument reports whether a document context is loaded.
func (s *Session) HasDocument() bool {
	return s.ContextText != ""
}

// Busy reports whether an extraction or an answer is in flight.
func (s *Session) Busy() bool {
	return s.IsExtracting || s.IsAwaitingAnswer
}
