package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"pdf-chatbot-be/internal/session"
)

// SessionRepository keeps live session controllers in memory. Sessions are
// intentionally ephemeral: nothing survives the process, and idle sessions
// expire so abandoned tabs don't pin their document text forever.
type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository creates a store whose sessions expire after ttl of
// inactivity, purged every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

// Save stores the controller and refreshes its expiration.
func (r *SessionRepository) Save(c *session.Controller) {
	r.cache.Set(c.ID().String(), c, cache.DefaultExpiration)
}

// Get returns the controller for the given session id. The Save call
// piggybacked on every lookup keeps active sessions alive.
func (r *SessionRepository) Get(sessionID uuid.UUID) (*session.Controller, bool) {
	x, found := r.cache.Get(sessionID.String())
	if !found {
		return nil, false
	}
	c := x.(*session.Controller)
	r.Save(c)
	return c, true
}

// Delete drops the session outright.
func (r *SessionRepository) Delete(sessionID uuid.UUID) {
	r.cache.Delete(sessionID.String())
}
