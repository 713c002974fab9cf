package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rollN(d Dice, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = d.D6()
	}
	return out
}

func TestSeeded_Reproducible(t *testing.T) {
	a := rollN(NewSeeded(7), 200)
	b := rollN(NewSeeded(7), 200)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, rollN(NewSeeded(8), 200))
}

func TestDice_InRange(t *testing.T) {
	for name, d := range map[string]Dice{
		"seeded": NewSeeded(1),
		"crypto": Crypto{},
	} {
		seen := map[int]bool{}
		for _, v := range rollN(d, 600) {
			assert.GreaterOrEqual(t, v, 1, name)
			assert.LessOrEqual(t, v, 6, name)
			seen[v] = true
		}
		assert.Len(t, seen, 6, name)
	}
}

func TestSequence_WrapsAndClamps(t *testing.T) {
	s := NewSequence(3, 9, 0)
	assert.Equal(t, []int{3, 6, 1, 3}, rollN(s, 4))
	assert.Equal(t, 4, s.Used())

	assert.Equal(t, 1, NewSequence().D6())
}

func TestRecorder_ReplaysThroughSequence(t *testing.T) {
	rec := &Recorder{Dice: NewSeeded(99)}
	first := rollN(rec, 20)
	assert.Equal(t, first, rec.Rolls())
	assert.Equal(t, first, rollN(NewSequence(rec.Rolls()...), 20))
}

func TestFromSeed(t *testing.T) {
	assert.IsType(t, Crypto{}, FromSeed(0))
	assert.IsType(t, &Seeded{}, FromSeed(5))
}
