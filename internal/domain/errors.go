package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been created.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrNoQuestionsAvailable indicates the setup filters matched zero questions.
	ErrNoQuestionsAvailable = errors.New("no questions available for the selected filters")
	// ErrGameInProgress is returned when a start is attempted mid-run.
	ErrGameInProgress = errors.New("game already in progress")
	// ErrQuestionBankEmpty indicates the question source yielded nothing playable.
	ErrQuestionBankEmpty = errors.New("question bank is empty")
	// ErrUnsanitizableQuestion flags a raw question that cannot be repaired to
	// four unique options; such questions are dropped at load time.
	ErrUnsanitizableQuestion = errors.New("question cannot be sanitized to four unique options")
)
