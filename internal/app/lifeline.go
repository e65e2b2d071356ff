package app

import "arena-quiz-service/internal/domain"

// UseLifeline consumes a one-shot lifeline. Already-spent lifelines, unknown
// types, and invocations while a resolution is in flight are silent no-ops.
func (g *Game) UseLifeline(lt domain.LifelineType) domain.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	q := g.currentQuestionLocked()
	if g.phase != domain.PhasePlaying || q == nil || g.locked || g.processing {
		return g.snapshotLocked()
	}

	switch lt {
	case domain.LifelineFiftyFifty:
		if !g.lifelines.FiftyFifty {
			return g.snapshotLocked()
		}
		g.lifelines.FiftyFifty = false
		g.hidden = g.pickWrongKeysLocked(q.CorrectKey(), 2)

	case domain.LifelineSkip:
		if !g.lifelines.Skip {
			return g.snapshotLocked()
		}
		g.lifelines.Skip = false
		// A skip touches neither stats nor score. Skipping the final question
		// ends the run, carrying forward whatever misses already happened.
		if g.currentIdx+1 < len(g.questions) {
			g.advanceLocked()
		} else if g.stats.Wrong > 0 {
			g.finishLocked(domain.EndFail)
		} else {
			g.finishLocked(domain.EndVictory)
		}

	case domain.LifelineDoubleChance:
		if !g.lifelines.DoubleChance {
			return g.snapshotLocked()
		}
		g.lifelines.DoubleChance = false
		g.dcActive = true
		g.dcFirstMiss = false
		g.selected = ""
		g.answerState = domain.AnswerDefault
		g.hidden = nil
		g.showExplain = false

	case domain.LifelinePhone:
		if !g.lifelines.Phone {
			return g.snapshotLocked()
		}
		g.lifelines.Phone = false
		g.phoneHint = phoneMessage(g.settings.Language, g.phoneSuggestionLocked(q.CorrectKey()))

	default:
		return g.snapshotLocked()
	}

	return g.publishLocked()
}

// pickWrongKeysLocked draws n distinct incorrect option keys uniformly.
func (g *Game) pickWrongKeysLocked(correctKey string, n int) []string {
	wrong := make([]string, 0, len(domain.OptionKeys)-1)
	for _, k := range domain.OptionKeys {
		if k != correctKey {
			wrong = append(wrong, k)
		}
	}
	g.rnd.Shuffle(len(wrong), func(i, j int) {
		wrong[i], wrong[j] = wrong[j], wrong[i]
	})
	if n > len(wrong) {
		n = len(wrong)
	}
	return wrong[:n]
}

// phoneSuggestionLocked returns the friend's pick: the correct key with
// probability PhoneConfidence, otherwise a uniformly chosen incorrect key
// (falling back to the correct key if none exists).
func (g *Game) phoneSuggestionLocked(correctKey string) string {
	if g.rnd.Float64() < g.rules.PhoneConfidence {
		return correctKey
	}
	wrong := make([]string, 0, len(domain.OptionKeys)-1)
	for _, k := range domain.OptionKeys {
		if k != correctKey {
			wrong = append(wrong, k)
		}
	}
	if len(wrong) == 0 {
		return correctKey
	}
	return wrong[g.rnd.Intn(len(wrong))]
}
