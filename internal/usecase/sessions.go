// Package usecase wires the application operations the HTTP layer and the
// CLI both call: creating games, stepping phases, archiving finished games.
package usecase

import (
	"sync"

	"github.com/jacky88927/werewolf-llm-game/internal/engine"
	"github.com/jacky88927/werewolf-llm-game/internal/event"
)

// Session is one live game: its engine plus the event bus observers attach
// to for streaming.
type Session struct {
	Engine *engine.Engine
	Bus    *event.Bus
}

// SessionStore holds the live sessions by game id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (s *SessionStore) Put(id string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
