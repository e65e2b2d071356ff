package cli

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/infra/memory"
)

//go:embed questions.json
var questionsJSON []byte

// sampleQuestionLoader serves the bundled mythology question bank; it is the
// fallback when no Postgres source is configured.
func sampleQuestionLoader() (*memory.StaticQuestionLoader, error) {
	var bank []domain.Question
	if err := json.Unmarshal(questionsJSON, &bank); err != nil {
		return nil, fmt.Errorf("parse bundled questions: %w", err)
	}
	return memory.NewStaticQuestionLoader(bank), nil
}
