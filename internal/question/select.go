package question

import (
	"math/rand"

	"arena-quiz-service/internal/domain"
)

// Matches reports whether a question passes the session filters. An empty
// category set matches everything.
func Matches(q domain.Question, settings domain.Settings) bool {
	if len(settings.Categories) > 0 {
		found := false
		for _, cat := range settings.Categories {
			if cat == q.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if settings.Difficulty != "" && settings.Difficulty != domain.DifficultyAll && settings.Difficulty != q.Difficulty {
		return false
	}
	return true
}

// Select draws the ordered question sequence for one run: filter the bank,
// shuffle uniformly, take the first min(limit, matches). The shuffled order
// is the order presented to the player. Returns ErrNoQuestionsAvailable when
// the filters match nothing.
func Select(bank []domain.Question, settings domain.Settings, limit int, rnd *rand.Rand) ([]domain.Question, error) {
	filtered := make([]domain.Question, 0, len(bank))
	for _, q := range bank {
		if Matches(q, settings) {
			filtered = append(filtered, q)
		}
	}
	if len(filtered) == 0 {
		return nil, domain.ErrNoQuestionsAvailable
	}

	rnd.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
