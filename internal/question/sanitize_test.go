package question

import (
	"errors"
	"math/rand"
	"testing"

	"arena-quiz-service/internal/domain"
)

func TestSanitizeKeepsValidQuestion(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	q := domain.Question{
		ID:      "q1",
		Answer:  "b",
		Options: []string{"a", "b", "c", "d"},
	}

	got, err := Sanitize(q, []string{"x", "y"}, rnd)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if len(got.Options) != 4 {
		t.Fatalf("expected 4 options, got %v", got.Options)
	}
	for i, opt := range got.Options {
		if opt != q.Options[i] {
			t.Fatalf("expected options unchanged, got %v", got.Options)
		}
	}
}

func TestSanitizeRepairsDuplicatesAndMissingAnswer(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	q := domain.Question{
		ID:      "q1",
		Answer:  "right",
		Options: []string{"x", "x", "y", "z"},
	}
	pool := []string{"p1", "p2", "p3", "right", "x", "y"}

	got, err := Sanitize(q, pool, rnd)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	assertValid(t, got)
	if got.Options[0] != "right" {
		t.Fatalf("expected answer forced into first slot, got %v", got.Options)
	}
}

func TestSanitizeFillsFromPool(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	q := domain.Question{
		ID:      "q1",
		Answer:  "a",
		Options: []string{"a"},
	}

	got, err := Sanitize(q, []string{"b", "c", "d", "a", "b"}, rnd)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	assertValid(t, got)
}

func TestSanitizeKeepsAnswerWhenTruncating(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	q := domain.Question{
		ID:      "q1",
		Answer:  "right",
		Options: []string{"a", "b", "c", "d", "right"},
	}

	got, err := Sanitize(q, nil, rnd)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	assertValid(t, got)
	if got.CorrectKey() == "" {
		t.Fatalf("expected the answer to survive truncation, got %v", got.Options)
	}
}

func TestSanitizeFailsWhenPoolExhausted(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	q := domain.Question{
		ID:      "q1",
		Answer:  "a",
		Options: []string{"a", "b"},
	}
	// Pool only repeats entries already present or equal to the answer.
	_, err := Sanitize(q, []string{"a", "b", "a", ""}, rnd)
	if !errors.Is(err, domain.ErrUnsanitizableQuestion) {
		t.Fatalf("expected ErrUnsanitizableQuestion, got %v", err)
	}
}

func TestSanitizeBankDropsUnrepairable(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	raw := []domain.Question{
		{ID: "good", Answer: "a", Options: []string{"a", "b", "c", "d"}},
		{ID: "fixable", Answer: "e", Options: []string{"e", "e"}},
		{ID: "broken", Answer: "", Options: nil},
	}

	clean := SanitizeBank(raw, rnd)
	if len(clean) != 2 {
		t.Fatalf("expected 2 playable questions, got %d", len(clean))
	}
	for _, q := range clean {
		assertValid(t, q)
		if q.ID == "broken" {
			t.Fatalf("expected broken question dropped")
		}
	}
}

func TestCategoriesDistinctFirstSeen(t *testing.T) {
	bank := []domain.Question{
		{ID: "1", Category: "Greek"},
		{ID: "2", Category: "Norse"},
		{ID: "3", Category: "Greek"},
	}
	got := Categories(bank)
	if len(got) != 2 || got[0] != "Greek" || got[1] != "Norse" {
		t.Fatalf("unexpected categories %v", got)
	}
}

// assertValid checks the sanitizer's contract: four unique options including
// the answer exactly once.
func assertValid(t *testing.T, q domain.Question) {
	t.Helper()
	if len(q.Options) != domain.OptionCount {
		t.Fatalf("question %s: expected %d options, got %v", q.ID, domain.OptionCount, q.Options)
	}
	seen := make(map[string]int)
	for _, opt := range q.Options {
		seen[opt]++
	}
	for opt, n := range seen {
		if n != 1 {
			t.Fatalf("question %s: option %q appears %d times", q.ID, opt, n)
		}
	}
	if seen[q.Answer] != 1 {
		t.Fatalf("question %s: answer %q not among options %v", q.ID, q.Answer, q.Options)
	}
}
