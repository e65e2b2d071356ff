package question

import (
	"fmt"
	"log"
	"math/rand"

	"arena-quiz-service/internal/domain"
)

// DistractorPool flattens every option string across the raw bank. Sanitize
// draws replacement options from it when a question arrives with duplicates
// or missing entries.
func DistractorPool(raw []domain.Question) []string {
	pool := make([]string, 0, len(raw)*domain.OptionCount)
	for _, q := range raw {
		pool = append(pool, q.Options...)
	}
	return pool
}

// Sanitize repairs one raw question into a valid four-option set: duplicates
// are removed preserving order, the correct answer is forced into the first
// slot if deduplication lost it, and missing slots are filled with random
// distinct distractors. The pool is walked in a random permutation rather
// than by rejection sampling, so the fill always terminates; if the pool
// cannot supply enough unique non-answer strings the question is unplayable
// and an error wrapping domain.ErrUnsanitizableQuestion is returned.
func Sanitize(q domain.Question, pool []string, rnd *rand.Rand) (domain.Question, error) {
	if q.Answer == "" {
		return domain.Question{}, fmt.Errorf("question %q has no answer: %w", q.ID, domain.ErrUnsanitizableQuestion)
	}

	seen := make(map[string]struct{}, domain.OptionCount)
	unique := make([]string, 0, domain.OptionCount)
	for _, opt := range q.Options {
		if _, ok := seen[opt]; ok {
			continue
		}
		seen[opt] = struct{}{}
		unique = append(unique, opt)
	}

	if _, ok := seen[q.Answer]; !ok {
		if len(unique) == 0 {
			unique = append(unique, q.Answer)
		} else {
			delete(seen, unique[0])
			unique[0] = q.Answer
		}
		seen[q.Answer] = struct{}{}
	}

	if len(unique) < domain.OptionCount {
		perm := rnd.Perm(len(pool))
		for _, i := range perm {
			if len(unique) >= domain.OptionCount {
				break
			}
			candidate := pool[i]
			if candidate == "" || candidate == q.Answer {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			unique = append(unique, candidate)
		}
	}

	if len(unique) < domain.OptionCount {
		return domain.Question{}, fmt.Errorf("question %q: %w", q.ID, domain.ErrUnsanitizableQuestion)
	}

	// A surplus of unique options can leave the answer past the kept window;
	// swap it back into the first slot before truncating.
	for i := domain.OptionCount; i < len(unique); i++ {
		if unique[i] == q.Answer {
			unique[0], unique[i] = unique[i], unique[0]
			break
		}
	}

	q.Options = unique[:domain.OptionCount]
	return q, nil
}

// SanitizeBank sanitizes every raw question against the shared distractor
// pool. Unrepairable questions are logged and dropped rather than admitted
// into the playable set.
func SanitizeBank(raw []domain.Question, rnd *rand.Rand) []domain.Question {
	pool := DistractorPool(raw)
	clean := make([]domain.Question, 0, len(raw))
	for _, q := range raw {
		sanitized, err := Sanitize(q, pool, rnd)
		if err != nil {
			log.Printf("dropping question: %v", err)
			continue
		}
		clean = append(clean, sanitized)
	}
	return clean
}

// Categories lists the distinct categories in a bank, in first-seen order.
func Categories(bank []domain.Question) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, q := range bank {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	return out
}
