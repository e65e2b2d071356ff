package redis

import (
	"context"
	"sync"
	"time"

	"arena-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Game state (timers, generation counters) lives in the local map; the
//     aggregate cannot be serialized mid-countdown.
//   - Redis marks session liveness so an operator can see active runs and a
//     TTL reaps markers for abandoned ones.
type SessionStore struct {
	client   *redis.Client
	rules    app.Rules
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Game
}

func NewSessionStore(client *redis.Client, rules app.Rules, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		rules:    rules,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(sessionID), "1", s.ttl).Err()
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
	if _, ok := s.sessions[sessionID]; !ok {
		return
	}
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "arena:session:" + sessionID
}
