package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/question"
)

// Rules are the timing and sizing constants for one run.
type Rules struct {
	QuestionsPerGame  int
	TimeLimit         int           // countdown units per question
	TickInterval      time.Duration // wall time per countdown unit
	CorrectDelay      time.Duration // feedback display before advancing
	WrongDelay        time.Duration // feedback display before ending
	DoubleChanceDelay time.Duration // feedback display after a forgiven miss
	PhoneConfidence   float64       // probability the phone hint names the correct key
}

// DefaultRules mirrors the televised format: ten questions, 30s each.
func DefaultRules() Rules {
	return Rules{
		QuestionsPerGame:  domain.MaxQuestionsPerGame,
		TimeLimit:         30,
		TickInterval:      time.Second,
		CorrectDelay:      1600 * time.Millisecond,
		WrongDelay:        1800 * time.Millisecond,
		DoubleChanceDelay: 1100 * time.Millisecond,
		PhoneConfidence:   0.65,
	}
}

// ScheduleFunc defers fn by d and returns a cancel func. The production
// implementation wraps time.AfterFunc; tests substitute a manual scheduler.
type ScheduleFunc func(d time.Duration, fn func()) (cancel func())

func afterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

type resolution string

const (
	resolveCorrect resolution = "correct"
	resolveWrong   resolution = "wrong"
	resolveTimeout resolution = "timeout"
)

// Game is the aggregate root for one single-player run. All mutation happens
// under mu; deferred callbacks (countdown ticks, display delays) carry the
// generation they were scheduled for and no-op once the session has moved on.
type Game struct {
	id    string
	rules Rules
	now   func() time.Time
	after ScheduleFunc
	rnd   *rand.Rand

	mu          sync.Mutex
	phase       domain.Phase
	settings    domain.Settings
	questions   []domain.Question
	currentIdx  int
	score       int
	lifelines   domain.Lifelines
	stats       domain.Stats
	locked      bool
	processing  bool
	selected    string
	answerState domain.AnswerState
	hidden      []string
	showExplain bool
	phoneHint   string
	timeLeft    int
	endState    domain.EndState
	dcActive    bool
	dcFirstMiss bool

	// generation is bumped on every transition away from the current question
	// (start, advance, finish); stale deferred callbacks compare against it.
	generation uint64

	startedAt time.Time
	elapsed   time.Duration

	cancelTick    func()
	cancelPending func()

	subscribers map[chan domain.Snapshot]struct{}
}

// NewGame creates an idle session in the setup phase.
func NewGame(id string, rules Rules) *Game {
	return NewGameWithClock(id, rules, time.Now, afterFunc,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGameWithClock is test-only: it injects the clock, scheduler and RNG so
// countdowns and display delays run deterministically.
func NewGameWithClock(id string, rules Rules, now func() time.Time, after ScheduleFunc, rnd *rand.Rand) *Game {
	return &Game{
		id:          id,
		rules:       rules,
		now:         now,
		after:       after,
		rnd:         rnd,
		phase:       domain.PhaseSetup,
		lifelines:   domain.AllLifelines(),
		answerState: domain.AnswerDefault,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

// ID returns the session identifier.
func (g *Game) ID() string { return g.id }

// Start begins (or restarts) a run: it draws the question sequence from the
// bank per the settings and resets every per-session counter. Allowed from
// setup and ended only; a failed selection leaves all state untouched.
func (g *Game) Start(settings domain.Settings, bank []domain.Question) (domain.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == domain.PhasePlaying {
		return g.snapshotLocked(), domain.ErrGameInProgress
	}

	selection, err := question.Select(bank, settings, g.rules.QuestionsPerGame, g.rnd)
	if err != nil {
		return g.snapshotLocked(), err
	}

	g.cancelTimersLocked()
	g.settings = settings
	g.questions = selection
	g.currentIdx = 0
	g.score = 0
	g.lifelines = domain.AllLifelines()
	g.stats = domain.Stats{}
	g.locked = false
	g.processing = false
	g.selected = ""
	g.answerState = domain.AnswerDefault
	g.hidden = nil
	g.showExplain = false
	g.phoneHint = ""
	g.timeLeft = g.rules.TimeLimit
	g.endState = ""
	g.dcActive = false
	g.dcFirstMiss = false
	g.phase = domain.PhasePlaying
	g.startedAt = g.now()
	g.elapsed = 0
	g.generation++
	g.scheduleTickLocked()

	return g.publishLocked(), nil
}

// SubmitAnswer resolves the player's pick for the current question. Inputs
// arriving while a resolution is in flight, for hidden or unknown keys, or
// outside the playing phase are silently ignored.
func (g *Game) SubmitAnswer(key string) domain.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	q := g.currentQuestionLocked()
	if g.phase != domain.PhasePlaying || q == nil || g.locked || g.processing {
		return g.snapshotLocked()
	}
	if q.OptionByKey(key) == "" || g.isHiddenLocked(key) {
		return g.snapshotLocked()
	}

	correctKey := q.CorrectKey()

	// Forgiven first miss inside an armed double-chance window: hide the
	// picked option after a short feedback pause and let the player choose
	// again. The countdown keeps running throughout.
	if g.dcActive && !g.dcFirstMiss && key != correctKey {
		g.selected = key
		g.answerState = domain.AnswerWrong
		g.processing = true
		gen := g.generation
		g.cancelPending = g.after(g.rules.DoubleChanceDelay, func() {
			g.clearFirstMiss(gen, key)
		})
		return g.publishLocked()
	}

	g.answerState = domain.AnswerSelected
	g.dcActive = false
	if key == correctKey {
		g.resolveLocked(resolveCorrect, key)
	} else {
		g.resolveLocked(resolveWrong, key)
	}
	return g.publishLocked()
}

// resolveLocked moves the current question from unanswered to locked and
// schedules the deferred phase transition. At most one resolution per
// question instance: the locked flag rejects everything else meanwhile.
func (g *Game) resolveLocked(result resolution, key string) {
	q := g.currentQuestionLocked()
	if g.locked || q == nil {
		return
	}
	g.locked = true
	g.processing = true
	g.showExplain = true
	g.selected = key
	// Also cancels a still-pending forgiven-miss clear: a timeout during that
	// pause supersedes it, and a late clear would wipe the feedback state.
	g.cancelTimersLocked()

	delay := g.rules.WrongDelay
	if result == resolveCorrect {
		g.answerState = domain.AnswerCorrect
		g.score = domain.PrizeAt(g.currentIdx)
		g.stats.Correct++
		delay = g.rules.CorrectDelay
	} else {
		g.answerState = domain.AnswerWrong
		g.stats.Wrong++
	}

	gen := g.generation
	g.cancelPending = g.after(delay, func() {
		g.finishResolution(gen, result)
	})
}

// finishResolution is the deferred tail of a resolution: advance, win or lose.
func (g *Game) finishResolution(gen uint64, result resolution) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.generation || g.phase != domain.PhasePlaying {
		return
	}

	if result == resolveCorrect {
		if g.currentIdx+1 >= len(g.questions) {
			if g.stats.Wrong > 0 {
				g.finishLocked(domain.EndFail)
			} else {
				g.finishLocked(domain.EndVictory)
			}
		} else {
			g.advanceLocked()
		}
	} else {
		g.finishLocked(domain.EndFail)
	}
	g.publishLocked()
}

// clearFirstMiss is the deferred tail of a forgiven double-chance miss.
func (g *Game) clearFirstMiss(gen uint64, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.generation || g.phase != domain.PhasePlaying {
		return
	}
	g.hidden = append(g.hidden, key)
	g.selected = ""
	g.answerState = domain.AnswerDefault
	g.processing = false
	g.dcFirstMiss = true
	g.publishLocked()
}

// advanceLocked moves to the next question and re-arms the countdown.
func (g *Game) advanceLocked() {
	g.cancelTimersLocked()
	g.currentIdx++
	g.selected = ""
	g.answerState = domain.AnswerDefault
	g.hidden = nil
	g.processing = false
	g.locked = false
	g.showExplain = false
	g.phoneHint = ""
	g.timeLeft = g.rules.TimeLimit
	g.dcActive = false
	g.dcFirstMiss = false
	g.generation++
	g.scheduleTickLocked()
}

// finishLocked ends the run; ended is terminal until the next Start.
func (g *Game) finishLocked(end domain.EndState) {
	g.cancelTimersLocked()
	g.phase = domain.PhaseEnded
	g.endState = end
	g.locked = true
	g.elapsed = g.now().Sub(g.startedAt)
	g.generation++
}

// scheduleTickLocked arms the next countdown decrement for this question.
func (g *Game) scheduleTickLocked() {
	gen := g.generation
	g.cancelTick = g.after(g.rules.TickInterval, func() {
		g.tick(gen)
	})
}

// tick decrements the countdown by one unit. A tick from a stale generation,
// a locked question or a non-playing phase is a no-op and does not re-arm.
func (g *Game) tick(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.generation || g.phase != domain.PhasePlaying || g.locked {
		return
	}
	g.timeLeft--
	if g.timeLeft <= 0 {
		g.timeLeft = 0
		// Expiry resolves exactly like a submission of no answer.
		g.resolveLocked(resolveTimeout, "")
	} else {
		g.scheduleTickLocked()
	}
	g.publishLocked()
}

func (g *Game) cancelTickLocked() {
	if g.cancelTick != nil {
		g.cancelTick()
		g.cancelTick = nil
	}
}

func (g *Game) cancelTimersLocked() {
	g.cancelTickLocked()
	if g.cancelPending != nil {
		g.cancelPending()
		g.cancelPending = nil
	}
}

// Close cancels all outstanding timers and drops the subscribers. Used when
// the owning store evicts the session.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelTimersLocked()
	g.generation++
	for ch := range g.subscribers {
		delete(g.subscribers, ch)
		close(ch)
	}
}

func (g *Game) currentQuestionLocked() *domain.Question {
	if g.phase != domain.PhasePlaying || g.currentIdx >= len(g.questions) {
		return nil
	}
	return &g.questions[g.currentIdx]
}

func (g *Game) isHiddenLocked(key string) bool {
	for _, h := range g.hidden {
		if h == key {
			return true
		}
	}
	return false
}

// Snapshot returns the current published state.
func (g *Game) Snapshot() domain.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Subscribe registers a snapshot channel; the caller must invoke cancel.
func (g *Game) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	initial := g.snapshotLocked()
	g.mu.Unlock()

	ch <- initial

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

// publishLocked pushes the current snapshot to every subscriber, dropping the
// stale update when a slow client's buffer is full.
func (g *Game) publishLocked() domain.Snapshot {
	snap := g.snapshotLocked()
	for ch := range g.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (g *Game) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		SessionID:      g.id,
		Phase:          g.phase,
		Settings:       g.settings,
		CurrentIndex:   g.currentIdx,
		TotalQuestions: len(g.questions),
		Score:          g.score,
		Prize:          domain.PrizeAt(g.currentIdx),
		TimeLeft:       g.timeLeft,
		TimeLimit:      g.rules.TimeLimit,
		Lifelines:      g.lifelines,
		SelectedAnswer: g.selected,
		AnswerState:    g.answerState,
		HiddenOptions:  append([]string(nil), g.hidden...),
		QuestionLocked: g.locked,
		PhoneHint:      g.phoneHint,
		Stats:          g.stats,
		AnsweredCount:  g.stats.Correct + g.stats.Wrong,
		EndState:       g.endState,
	}

	switch g.phase {
	case domain.PhasePlaying:
		snap.ElapsedSeconds = int(g.now().Sub(g.startedAt) / time.Second)
	case domain.PhaseEnded:
		snap.ElapsedSeconds = int(g.elapsed / time.Second)
	}

	if q := g.currentQuestionLocked(); q != nil {
		view := &domain.QuestionView{
			ID:         q.ID,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			Prompt:     q.Prompt,
			Options:    make([]domain.OptionView, 0, len(q.Options)),
		}
		for i, opt := range q.Options {
			view.Options = append(view.Options, domain.OptionView{Key: domain.OptionKeys[i], Text: opt})
		}
		snap.Question = view
		if g.showExplain {
			snap.Explanation = q.Explanation
			snap.CorrectKey = q.CorrectKey()
		}
	}
	return snap
}

// phoneMessage renders the friend's suggestion in the session language.
func phoneMessage(language, key string) string {
	if language == "tr" {
		return fmt.Sprintf("%s şıkkı kulağa doğru geliyor.", key)
	}
	return fmt.Sprintf("I would go with option %s.", key)
}
