// Package entropy provides the dice sources used for combat.
// A seeded source gives reproducible matches, crypto/rand gives unpredictable
// ones, and a scripted sequence replays known rolls.
package entropy

import (
	"crypto/rand"
	mrand "math/rand"
	"sync"
)

// Dice rolls uniform six-sided dice.
type Dice interface {
	// D6 returns an integer in [1, 6].
	D6() int
}

// Seeded is a reproducible dice source.
type Seeded struct {
	rng *mrand.Rand
}

// NewSeeded creates a dice source whose rolls are fixed by seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

// D6 implements Dice.
func (s *Seeded) D6() int {
	return 1 + s.rng.Intn(6)
}

// Crypto draws rolls from crypto/rand.
type Crypto struct{}

// D6 implements Dice.
func (Crypto) D6() int {
	var buf [1]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			// This should never happen; fall back to a fair-enough default.
			return 1 + mrand.Intn(6)
		}
		// 252 is the largest multiple of 6 below 256; reject above it to stay uniform.
		if buf[0] < 252 {
			return 1 + int(buf[0]%6)
		}
	}
}

// Sequence replays a fixed list of rolls, wrapping around at the end.
// Values outside 1–6 are clamped.
type Sequence struct {
	rolls []int
	pos   int
}

// NewSequence creates a scripted dice source.
func NewSequence(rolls ...int) *Sequence {
	return &Sequence{rolls: rolls}
}

// D6 implements Dice.
func (s *Sequence) D6() int {
	if len(s.rolls) == 0 {
		return 1
	}
	v := s.rolls[s.pos%len(s.rolls)]
	s.pos++
	return min(max(v, 1), 6)
}

// Used reports how many rolls have been drawn.
func (s *Sequence) Used() int {
	return s.pos
}

// Recorder wraps a Dice and keeps every roll it hands out, so a match can be
// replayed later with a Sequence.
type Recorder struct {
	Dice Dice

	mu    sync.Mutex
	rolls []int
}

// D6 implements Dice.
func (r *Recorder) D6() int {
	v := r.Dice.D6()
	r.mu.Lock()
	r.rolls = append(r.rolls, v)
	r.mu.Unlock()
	return v
}

// Rolls returns a copy of the rolls recorded so far.
func (r *Recorder) Rolls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.rolls...)
}

// FromSeed returns a seeded source, or a crypto source when seed is 0.
func FromSeed(seed int64) Dice {
	if seed == 0 {
		return Crypto{}
	}
	return NewSeeded(seed)
}
