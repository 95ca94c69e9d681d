package server

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/session"
	"github.com/abhisek/learnassist/internal/study"
)

// ErrSessionNotFound is returned for unknown or deleted session IDs.
var ErrSessionNotFound = errors.New("session not found")

// entry is one live session. mu serialises passes on the session.
type entry struct {
	mu        sync.Mutex
	state     *session.SessionState
	kit       *study.Kit
	summary   string
	assistant *assistant.Assistant
}

// registry holds the live sessions of the HTTP API in memory.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	factory  *study.Factory
}

// newRegistry creates an empty registry.
func newRegistry(factory *study.Factory) *registry {
	return &registry{
		sessions: make(map[string]*entry),
		factory:  factory,
	}
}

// create starts a new session.
func (r *registry) create() *entry {
	e := &entry{
		state: session.NewSessionState(),
		kit:   r.factory.NewKit(),
	}
	r.mu.Lock()
	r.sessions[e.state.ID] = e
	r.mu.Unlock()
	return e
}

// get returns the session with id.
func (r *registry) get(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// remove deletes the session with id and returns it.
func (r *registry) remove(id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	delete(r.sessions, id)
	return e, nil
}

// count returns the number of live sessions.
func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// closeAll ends every live session. It is called on server shutdown.
func (r *registry) closeAll(ctx context.Context, rec *study.Recorder) {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.mu.Lock()
		rec.Ended(ctx, e.state)
		e.mu.Unlock()
	}
}
