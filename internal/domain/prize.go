package domain

// PrizeLadder maps question index to the cumulative prize on a correct answer.
var PrizeLadder = []int{1000, 2000, 3000, 5000, 7500, 10000, 20000, 50000, 100000, 1000000}

// MaxQuestionsPerGame caps how many questions one run draws.
var MaxQuestionsPerGame = len(PrizeLadder)

// PrizeAt returns the ladder value for a question index. Indexes past the end
// clamp to the top prize; runs are capped at MaxQuestionsPerGame so the clamp
// is a safety net only.
func PrizeAt(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(PrizeLadder) {
		return PrizeLadder[len(PrizeLadder)-1]
	}
	return PrizeLadder[index]
}
