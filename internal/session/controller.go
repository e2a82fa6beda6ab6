package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"pdf-chatbot-be/internal/constant"
	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/pkg/chatbot"
	"pdf-chatbot-be/pkg/events"
	"pdf-chatbot-be/pkg/extractor"
	"pdf-chatbot-be/pkg/store"
)

// MimeTypePDF is the only upload type the controller accepts.
const MimeTypePDF = "application/pdf"

// Controller owns the full state of one chat session and sequences its
// turns: document ingestion, context-bounded question answering and the
// conversation log. All state transitions go through the mutex, and a
// state-change event is published after each one so the presentation layer
// can re-render from a snapshot instead of watching fields.
type Controller struct {
	mu    sync.Mutex
	state store.Session

	extractor extractor.Extractor
	answerer  chatbot.Answerer
	publisher message.Publisher
}

// NewController creates a session seeded with the greeting message and
// announces it on the bus. publisher may be nil for tests that don't care
// about events.
func NewController(ext extractor.Extractor, ans chatbot.Answerer, publisher message.Publisher) *Controller {
	c := &Controller{
		extractor: ext,
		answerer:  ans,
		publisher: publisher,
		state: store.Session{
			ID:       uuid.New(),
			Messages: []entity.ChatMessage{newAssistantMessage(constant.GreetingMessage)},
		},
	}
	c.publish(events.TypeSessionCreated, nil)
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() uuid.UUID {
	return c.state.ID
}

// Snapshot returns a copy of the current session state. The message slice is
// copied so callers can hold it across further mutations.
func (c *Controller) Snapshot() store.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.state
	snap.Messages = make([]entity.ChatMessage, len(c.state.Messages))
	copy(snap.Messages, c.state.Messages)
	return snap
}

// UploadDocument validates and ingests a new PDF, replacing any previously
// loaded document. Rejections leave the document slot untouched:
//   - a non-PDF MIME type sets LastError and returns ErrInvalidFileType
//   - any in-flight extraction or answer returns ErrBusy (uploading over an
//     outstanding operation on the same session is not allowed)
//
// On success the context text is stored and a confirmation message
// referencing the file name is appended. On extraction failure LastError is
// set and the document slot is emptied, including any previously loaded
// context, so the user can retry with a different file. The extracting flag
// is cleared on every exit path.
func (c *Controller) UploadDocument(ctx context.Context, fileName, mimeType string, fileBytes []byte) error {
	if mimeType != MimeTypePDF {
		// The document slot is untouched, but LastError changed, so the
		// banner still needs a re-render.
		c.mu.Lock()
		c.state.LastError = constant.ErrMsgInvalidFileType
		c.mu.Unlock()
		c.publish(events.TypeStateChanged, nil)
		return ErrInvalidFileType
	}

	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state.IsExtracting = true
	c.state.LastError = ""
	c.state.FileName = fileName
	generation := c.state.Generation
	c.mu.Unlock()
	c.publish(events.TypeStateChanged, nil)

	text, err := c.extractor.Extract(ctx, fileBytes)

	c.mu.Lock()
	if c.state.Generation != generation {
		// The document slot was reset while we were parsing. Whatever we
		// produced belongs to a session state that no longer exists.
		c.mu.Unlock()
		return nil
	}
	c.state.IsExtracting = false

	if err != nil {
		// A failed upload empties the document slot entirely, even when it
		// was replacing an earlier document. Keeping the old context with no
		// file name would let questions run against a document the user can
		// no longer see.
		c.state.LastError = constant.ErrMsgExtractionFailed
		c.state.FileName = ""
		c.state.ContextText = ""
		c.mu.Unlock()
		c.publish(events.TypeStateChanged, nil)
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	c.state.ContextText = text
	c.state.Messages = append(c.state.Messages,
		newAssistantMessage(fmt.Sprintf(constant.DocumentReadyMessageFormat, fileName)))
	c.mu.Unlock()
	c.publish(events.TypeDocumentReady, map[string]interface{}{"file_name": fileName})
	return nil
}

// RemoveDocument clears the document slot and resets the conversation to a
// single seeded message. Bumping the generation makes any extraction or
// answer still in flight discard itself on completion instead of
// resurrecting the removed context.
func (c *Controller) RemoveDocument() {
	c.mu.Lock()
	c.state.Generation++
	c.state.FileName = ""
	c.state.ContextText = ""
	c.state.IsExtracting = false
	c.state.IsAwaitingAnswer = false
	c.state.LastError = ""
	c.state.Messages = []entity.ChatMessage{newAssistantMessage(constant.DocumentRemovedMessage)}
	c.mu.Unlock()
	c.publish(events.TypeDocumentRemoved, nil)
}

// SendMessage runs one user turn. Blank input is ignored. A pending
// operation returns ErrBusy without touching the log; a missing document
// sets LastError and returns ErrMissingDocument. Otherwise the user message
// is appended before any slow work starts, the answerer is invoked with the
// trimmed question and the current context, and exactly one assistant
// message lands with the result. The answerer converts its own failures to
// displayable text, so the assistant reply is appended even when the remote
// service misbehaves; the awaiting flag is cleared on every path.
func (c *Controller) SendMessage(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}

	c.mu.Lock()
	if c.state.Busy() {
		c.mu.Unlock()
		return "", ErrBusy
	}
	if !c.state.HasDocument() {
		c.state.LastError = constant.ErrMsgDocumentRequired
		c.mu.Unlock()
		c.publish(events.TypeStateChanged, nil)
		return "", ErrMissingDocument
	}

	c.state.Messages = append(c.state.Messages, newMessage(constant.ChatMessageRoleUser, trimmed))
	c.state.LastError = ""
	c.state.IsAwaitingAnswer = true
	generation := c.state.Generation
	documentContext := c.state.ContextText
	c.mu.Unlock()
	c.publish(events.TypeStateChanged, nil)

	answer := c.answerer.Answer(ctx, trimmed, documentContext)

	c.mu.Lock()
	if c.state.Generation != generation {
		// Document was removed mid-flight; drop the stray reply.
		c.mu.Unlock()
		return "", nil
	}
	c.state.IsAwaitingAnswer = false
	c.state.Messages = append(c.state.Messages, newAssistantMessage(answer))
	c.mu.Unlock()
	c.publish(events.TypeStateChanged, nil)
	return answer, nil
}

func (c *Controller) publish(eventType string, payload map[string]interface{}) {
	if c.publisher == nil {
		return
	}
	evt := events.NewSessionEvent(eventType, c.state.ID, payload)
	body, err := evt.Marshal()
	if err != nil {
		return
	}
	// Fire-and-forget: a dead bus must never block a chat turn.
	_ = c.publisher.Publish(events.TopicSessionState, message.NewMessage(watermill.NewUUID(), body))
}

func newMessage(role, text string) entity.ChatMessage {
	return entity.ChatMessage{
		Id:        uuid.New(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

func newAssistantMessage(text string) entity.ChatMessage {
	return newMessage(constant.ChatMessageRoleAssistant, text)
}
