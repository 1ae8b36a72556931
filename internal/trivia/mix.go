package trivia

import (
	"fmt"
	"math/rand"
)

// Mix is the per-type question count composing one trivia.
type Mix struct {
	Choice       int
	TrueFalse    int
	Autocomplete int
}

// Total returns the number of questions the mix asks for.
func (m Mix) Total() int {
	return m.Choice + m.TrueFalse + m.Autocomplete
}

// PlanMix decides how many questions of each type to draw so the total is
// QuestionsPerTrivia. Beginner gets a choice-heavier split than the other
// tiers. The remainder is filled with autocomplete questions.
func PlanMix(level string, rng *rand.Rand) (Mix, error) {
	var m Mix
	if level == LevelBeginner {
		m.Choice = randBetween(rng, 3, 6)
		m.TrueFalse = randBetween(rng, 3, 4)
	} else {
		m.Choice = randBetween(rng, 2, 5)
		m.TrueFalse = randBetween(rng, 2, 4)
	}

	// Guards against future bound changes: a choice+truefalse draw above the
	// set size would silently shrink the trivia below QuestionsPerTrivia.
	if m.Choice+m.TrueFalse > QuestionsPerTrivia {
		return Mix{}, fmt.Errorf("mix overflow: choice=%d true_false=%d exceeds %d", m.Choice, m.TrueFalse, QuestionsPerTrivia)
	}

	m.Autocomplete = QuestionsPerTrivia - m.Choice - m.TrueFalse
	return m, nil
}

func randBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
