package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/question"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the raw question bank from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the sanitized bank in Redis as a JSON blob and
// falls back to the loader on cache miss. Sanitization runs before caching,
// so every instance sharing the cache sees the same repaired option sets.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const bankKey = "arena:questions"

func (r *QuestionRepository) GetBank(ctx context.Context) ([]domain.Question, error) {
	if bank, ok := r.fromCache(ctx); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx); ok {
			return bank, nil
		}

		raw, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		clean := question.SanitizeBank(raw, r.rnd)
		if len(clean) == 0 {
			return nil, domain.ErrQuestionBankEmpty
		}

		if data, err := json.Marshal(clean); err == nil {
			// best-effort cache fill
			_ = r.client.Set(ctx, bankKey, data, r.ttlWithJitter()).Err()
		}
		return clean, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) fromCache(ctx context.Context) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, bankKey).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var bank []domain.Question
	if err := json.Unmarshal(data, &bank); err != nil || len(bank) == 0 {
		return nil, false
	}
	return bank, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
