package domain

// Difficulty buckets questions for the setup filter.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	// DifficultyAll is the filter sentinel matching every bucket.
	DifficultyAll Difficulty = "all"
)

// Phase is the session lifecycle stage.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// EndState records how a finished run ended.
type EndState string

const (
	EndVictory EndState = "victory"
	EndFail    EndState = "fail"
)

// AnswerState mirrors the per-question answer feedback cycle.
type AnswerState string

const (
	AnswerDefault  AnswerState = "default"
	AnswerSelected AnswerState = "selected"
	AnswerCorrect  AnswerState = "correct"
	AnswerWrong    AnswerState = "wrong"
)

// LifelineType names the four one-shot lifelines.
type LifelineType string

const (
	LifelineFiftyFifty   LifelineType = "fiftyFifty"
	LifelineSkip         LifelineType = "skip"
	LifelineDoubleChance LifelineType = "doubleChance"
	LifelinePhone        LifelineType = "phone"
)

// OptionKeys are the fixed keys assigned to a question's options by index.
var OptionKeys = []string{"A", "B", "C", "D"}

// OptionCount is the number of options every playable question must carry.
const OptionCount = 4

// Question is a sanitized MCQ item. Options holds exactly OptionCount unique
// entries and contains Answer exactly once.
type Question struct {
	ID          string     `json:"id"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category"`
	Prompt      string     `json:"question"`
	Options     []string   `json:"options"`
	Answer      string     `json:"answer"`
	Explanation string     `json:"explanation"`
	Tags        []string   `json:"tags,omitempty"`
}

// CorrectKey returns the option key (A-D) holding the correct answer, or ""
// when the answer is not among the options.
func (q Question) CorrectKey() string {
	for i, opt := range q.Options {
		if opt == q.Answer && i < len(OptionKeys) {
			return OptionKeys[i]
		}
	}
	return ""
}

// OptionByKey returns the option text for a key, or "" for an unknown key.
func (q Question) OptionByKey(key string) string {
	for i, k := range OptionKeys {
		if k == key && i < len(q.Options) {
			return q.Options[i]
		}
	}
	return ""
}

// Settings is the player-chosen session configuration. An empty Categories
// slice means "match every category"; it is distinct from a non-empty slice
// that happens to exclude everything.
type Settings struct {
	Categories []string   `json:"categories"`
	Difficulty Difficulty `json:"difficulty"`
	Language   string     `json:"language"`
	Theme      string     `json:"theme"`
	FontScale  int        `json:"fontScale"`
}

// Lifelines tracks which one-shot aids are still available.
type Lifelines struct {
	FiftyFifty   bool `json:"fiftyFifty"`
	Skip         bool `json:"skip"`
	DoubleChance bool `json:"doubleChance"`
	Phone        bool `json:"phone"`
}

// AllLifelines returns the fresh-session lifeline set.
func AllLifelines() Lifelines {
	return Lifelines{FiftyFifty: true, Skip: true, DoubleChance: true, Phone: true}
}

// Stats counts resolved answers; both counters only ever increase within a run.
type Stats struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// OptionView is one keyed answer option as presented to the player.
type OptionView struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// QuestionView is the presentation-safe slice of the current question.
// Explanation and the correct key are withheld until the question resolves.
type QuestionView struct {
	ID         string       `json:"id"`
	Category   string       `json:"category"`
	Difficulty Difficulty   `json:"difficulty"`
	Prompt     string       `json:"question"`
	Options    []OptionView `json:"options"`
}

// Snapshot is the full session state published to the presentation layer
// after every mutation.
type Snapshot struct {
	SessionID      string        `json:"sessionId"`
	Phase          Phase         `json:"phase"`
	Settings       Settings      `json:"settings"`
	CurrentIndex   int           `json:"currentIndex"`
	TotalQuestions int           `json:"totalQuestions"`
	Question       *QuestionView `json:"question,omitempty"`
	Score          int           `json:"score"`
	Prize          int           `json:"prize"`
	TimeLeft       int           `json:"timeLeft"`
	TimeLimit      int           `json:"timeLimit"`
	Lifelines      Lifelines     `json:"lifelines"`
	SelectedAnswer string        `json:"selectedAnswer,omitempty"`
	AnswerState    AnswerState   `json:"answerState"`
	HiddenOptions  []string      `json:"hiddenOptions"`
	QuestionLocked bool          `json:"questionLocked"`
	PhoneHint      string        `json:"phoneHint,omitempty"`
	Explanation    string        `json:"explanation,omitempty"`
	CorrectKey     string        `json:"correctKey,omitempty"`
	Stats          Stats         `json:"stats"`
	AnsweredCount  int           `json:"answeredCount"`
	ElapsedSeconds int           `json:"elapsedSeconds"`
	EndState       EndState      `json:"endState,omitempty"`
}
