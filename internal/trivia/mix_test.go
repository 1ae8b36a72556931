package trivia

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanMixAlwaysSumsToTen(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	levels := []string{LevelBeginner, LevelDifficult, "expert"}

	for i := 0; i < 2000; i++ {
		for _, level := range levels {
			m, err := PlanMix(level, rng)
			assert.NoError(t, err)
			assert.Equal(t, QuestionsPerTrivia, m.Total(), "level %s iteration %d", level, i)
		}
	}
}

func TestPlanMixBeginnerRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		m, err := PlanMix(LevelBeginner, rng)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, m.Choice, 3)
		assert.LessOrEqual(t, m.Choice, 6)
		assert.GreaterOrEqual(t, m.TrueFalse, 3)
		assert.LessOrEqual(t, m.TrueFalse, 4)
		assert.GreaterOrEqual(t, m.Autocomplete, 0)
	}
}

func TestPlanMixOtherTierRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		m, err := PlanMix(LevelDifficult, rng)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, m.Choice, 2)
		assert.LessOrEqual(t, m.Choice, 5)
		assert.GreaterOrEqual(t, m.TrueFalse, 2)
		assert.LessOrEqual(t, m.TrueFalse, 4)
		assert.GreaterOrEqual(t, m.Autocomplete, 1)
	}
}
