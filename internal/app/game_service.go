package app

import (
	"context"

	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/question"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis-
// backed, etc). Each session hosts exactly one player's run.
type SessionRepository interface {
	GetOrCreate(sessionID string) *Game
	Get(sessionID string) (*Game, bool)
	Delete(sessionID string)
}

// QuestionRepository serves the sanitized question bank.
type QuestionRepository interface {
	GetBank(ctx context.Context) ([]domain.Question, error)
}

// GameService contains the session lifecycle use cases.
type GameService struct {
	sessions  SessionRepository
	questions QuestionRepository
}

func NewGameService(sessions SessionRepository, questions QuestionRepository) *GameService {
	return &GameService{sessions: sessions, questions: questions}
}

// StartGame creates the session on first use and starts (or restarts) a run.
// When the filters match no questions the session stays in setup and the
// error is surfaced to the caller.
func (s *GameService) StartGame(ctx context.Context, sessionID string, settings domain.Settings) (domain.Snapshot, error) {
	bank, err := s.questions.GetBank(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	game := s.sessions.GetOrCreate(sessionID)
	return game.Start(settings, bank)
}

// Open ensures a session exists (in the setup phase when new) and returns
// its current snapshot.
func (s *GameService) Open(_ context.Context, sessionID string) domain.Snapshot {
	return s.sessions.GetOrCreate(sessionID).Snapshot()
}

// SubmitAnswer forwards the player's pick to the session state machine.
func (s *GameService) SubmitAnswer(_ context.Context, sessionID, key string) (domain.Snapshot, error) {
	game, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return game.SubmitAnswer(key), nil
}

// UseLifeline forwards a lifeline intent to the session state machine.
func (s *GameService) UseLifeline(_ context.Context, sessionID string, lt domain.LifelineType) (domain.Snapshot, error) {
	game, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return game.UseLifeline(lt), nil
}

// Snapshot returns the session's current published state.
func (s *GameService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	game, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return game.Snapshot(), nil
}

// Subscribe returns a channel receiving snapshot updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Snapshot, func(), error) {
	game, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := game.Subscribe()
	return ch, cancel, nil
}

// Leave evicts a session, cancelling its timers.
func (s *GameService) Leave(_ context.Context, sessionID string) {
	game, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	game.Close()
	s.sessions.Delete(sessionID)
}

// Categories lists the category filters available to the setup screen.
func (s *GameService) Categories(ctx context.Context) ([]string, error) {
	bank, err := s.questions.GetBank(ctx)
	if err != nil {
		return nil, err
	}
	return question.Categories(bank), nil
}
