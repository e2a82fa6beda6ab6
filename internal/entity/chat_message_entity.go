package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of the conversation. Records are immutable once
// appended; ordering equals arrival order.
type ChatMessage struct {
	Id        uuid.UUID
	Role      string
	Text      string
	CreatedAt time.Time
}
