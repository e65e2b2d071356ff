package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/infra/memory"
)

func serviceBank(n int) []domain.Question {
	bank := make([]domain.Question, 0, n)
	categories := []string{"Greek", "Norse"}
	for i := 0; i < n; i++ {
		bank = append(bank, domain.Question{
			ID:          fmt.Sprintf("q%d", i),
			Category:    categories[i%len(categories)],
			Difficulty:  domain.DifficultyEasy,
			Prompt:      fmt.Sprintf("prompt %d", i),
			Answer:      fmt.Sprintf("q%d-right", i),
			Options:     []string{fmt.Sprintf("q%d-right", i), fmt.Sprintf("q%d-b", i), fmt.Sprintf("q%d-c", i), fmt.Sprintf("q%d-d", i)},
			Explanation: "because",
		})
	}
	return bank
}

func newTestService(rules app.Rules) *app.GameService {
	store := memory.NewSessionStore(rules)
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(serviceBank(12)), 5*time.Minute)
	return app.NewGameService(store, repo)
}

// quickRules keeps real timers out of the way: display delays are tiny and
// the countdown effectively never ticks.
func quickRules() app.Rules {
	rules := app.DefaultRules()
	rules.TickInterval = time.Hour
	rules.CorrectDelay = 5 * time.Millisecond
	rules.WrongDelay = 5 * time.Millisecond
	rules.DoubleChanceDelay = 5 * time.Millisecond
	return rules
}

// correctKeyFor recovers the right option key from the published view; the
// test knows the seeded bank, the service does not reveal it pre-resolution.
func correctKeyFor(t *testing.T, snap domain.Snapshot) string {
	t.Helper()
	if snap.Question == nil {
		t.Fatalf("no current question in snapshot")
	}
	want := snap.Question.ID + "-right"
	for _, opt := range snap.Question.Options {
		if opt.Text == want {
			return opt.Key
		}
	}
	t.Fatalf("correct option not present in view %+v", snap.Question)
	return ""
}

func TestStartGameDrawsQuestions(t *testing.T) {
	ctx := context.Background()
	service := newTestService(quickRules())

	snap, err := service.StartGame(ctx, "s1", domain.Settings{Difficulty: domain.DifficultyAll})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap.Phase != domain.PhasePlaying || snap.TotalQuestions != 10 {
		t.Fatalf("expected a 10-question run, got phase=%s total=%d", snap.Phase, snap.TotalQuestions)
	}
}

func TestStartGameNoMatchesStaysInSetup(t *testing.T) {
	ctx := context.Background()
	service := newTestService(quickRules())

	_, err := service.StartGame(ctx, "s1", domain.Settings{Categories: []string{"NoSuchCategory"}})
	if err != domain.ErrNoQuestionsAvailable {
		t.Fatalf("expected ErrNoQuestionsAvailable, got %v", err)
	}

	snap, err := service.Snapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Phase != domain.PhaseSetup {
		t.Fatalf("expected session to stay in setup, got %s", snap.Phase)
	}
}

func TestSubmitAnswerRequiresSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(quickRules())

	if _, err := service.SubmitAnswer(ctx, "unknown", "A"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.UseLifeline(ctx, "unknown", domain.LifelineSkip); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestAnswerFlowAdvances(t *testing.T) {
	ctx := context.Background()
	service := newTestService(quickRules())

	snap, err := service.StartGame(ctx, "s1", domain.Settings{Difficulty: domain.DifficultyAll})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	snap, err = service.SubmitAnswer(ctx, "s1", correctKeyFor(t, snap))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if snap.AnswerState != domain.AnswerCorrect || snap.Stats.Correct != 1 {
		t.Fatalf("expected correct resolution, got %+v", snap)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap, err = service.Snapshot(ctx, "s1")
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if snap.CurrentIndex == 1 && !snap.QuestionLocked {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for advance, got %+v", snap)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service := newTestService(quickRules())
	service.Open(ctx, "s1")

	ch, cancel, err := service.Subscribe(ctx, "s1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	<-ch // initial setup snapshot

	if _, err := service.StartGame(ctx, "s1", domain.Settings{Difficulty: domain.DifficultyAll}); err != nil {
		t.Fatalf("start: %v", err)
	}
	update := <-ch
	if update.Phase != domain.PhasePlaying {
		t.Fatalf("expected playing update, got %s", update.Phase)
	}
}

func TestLeaveEvictsSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(quickRules())
	service.Open(ctx, "s1")

	service.Leave(ctx, "s1")
	if _, err := service.Snapshot(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session evicted, got %v", err)
	}
}

func TestCategoriesFromBank(t *testing.T) {
	ctx := context.Background()
	service := newTestService(quickRules())

	cats, err := service.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %v", cats)
	}
}
