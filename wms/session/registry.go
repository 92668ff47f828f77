package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/wmsnav/errors"
)

// Registry owns the live sessions of a process.
type Registry struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
	newID    func() string
}

// NewRegistry returns an empty registry mounting sessions with deps.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:     deps,
		sessions: make(map[string]*Session),
		newID:    uuid.NewString,
	}
}

// SetDelays changes the readiness delays for sessions mounted from now on.
func (r *Registry) SetDelays(dataLoad, connection time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps.DataLoadDelay = dataLoad
	r.deps.ConnectionDelay = connection
}

// Mount creates and registers a new session.
func (r *Registry) Mount(ctx context.Context, rawTab string) *Session {
	r.mu.RLock()
	deps := r.deps
	r.mu.RUnlock()

	s := Mount(ctx, r.newID(), deps, rawTab)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns a live session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("session %s", id)
	}
	return s, nil
}

// Close tears down and forgets a session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("session %s", id)
	}
	s.Close()
	return nil
}

// CloseAll tears down every session. Used on server shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
