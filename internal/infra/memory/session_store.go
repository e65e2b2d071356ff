package memory

import (
	"sync"

	"arena-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	rules    app.Rules
	mu       sync.RWMutex
	sessions map[string]*app.Game
}

func NewSessionStore(rules app.Rules) *SessionStore {
	return &SessionStore{
		rules:    rules,
		sessions: make(map[string]*app.Game),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string) *app.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game, ok := s.sessions[sessionID]; ok {
		return game
	}
	game := app.NewGame(sessionID, s.rules)
	s.sessions[sessionID] = game
	return game
}

func (s *SessionStore) Get(sessionID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.sessions[sessionID]
	return game, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
