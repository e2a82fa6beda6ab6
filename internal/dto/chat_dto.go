package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id       uuid.UUID              `json:"id"`
	Messages []*ChatMessageResponse `json:"messages"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSnapshotResponse is the render model: everything the presentation
// layer reads, nothing it doesn't (the raw context text stays server-side).
type SessionSnapshotResponse struct {
	Id               uuid.UUID              `json:"id"`
	FileName         string                 `json:"file_name,omitempty"`
	HasDocument      bool                   `json:"has_document"`
	IsExtracting     bool                   `json:"is_extracting"`
	IsAwaitingAnswer bool                   `json:"is_awaiting_answer"`
	LastError        string                 `json:"last_error,omitempty"`
	Messages         []*ChatMessageResponse `json:"messages"`
}

type UploadDocumentResponse struct {
	FileName     string                   `json:"file_name"`
	PageMarkers  int                      `json:"page_markers"`
	Confirmation *ChatMessageResponse     `json:"confirmation"`
	Session      *SessionSnapshotResponse `json:"session"`
}

// SendChatRequest carries one user turn. Chat is deliberately unvalidated:
// blank input (empty or whitespace) is a silent no-op in the service, not a
// request error.
type SendChatRequest struct {
	Chat string `json:"chat"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID            `json:"chat_session_id"`
	Sent          *ChatMessageResponse `json:"sent"`
	Reply         *ChatMessageResponse `json:"reply"`
}
