package engine

import (
	"slices"
	"time"

	"github.com/talgya/hex-skirmish/internal/world"
)

// DefaultStepDelay is the time a moving unit spends on each path tile.
const DefaultStepDelay = 200 * time.Millisecond

// Playback animates a committed move one tile per step delay. The match
// state already holds the destination; Playback only drives what is shown.
type Playback struct {
	path    []world.HexCoord
	delay   time.Duration
	elapsed time.Duration
	index   int
}

// NewPlayback starts an animation at path[0]. A non-positive delay selects
// DefaultStepDelay.
func NewPlayback(path []world.HexCoord, delay time.Duration) *Playback {
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	return &Playback{path: slices.Clone(path), delay: delay}
}

// Advance moves the animation forward by dt and returns the tile to display
// and whether it changed.
func (p *Playback) Advance(dt time.Duration) (world.HexCoord, bool) {
	if p.Done() {
		return p.Current(), false
	}
	p.elapsed += dt
	moved := false
	for p.elapsed >= p.delay && !p.Done() {
		p.elapsed -= p.delay
		p.index++
		moved = true
	}
	return p.Current(), moved
}

// Cancel jumps to the final tile.
func (p *Playback) Cancel() {
	if len(p.path) > 0 {
		p.index = len(p.path) - 1
	}
	p.elapsed = 0
}

// Done reports whether the final tile is shown.
func (p *Playback) Done() bool {
	return p.index >= len(p.path)-1
}

// Current returns the tile being shown.
func (p *Playback) Current() world.HexCoord {
	if len(p.path) == 0 {
		return world.HexCoord{}
	}
	return p.path[p.index]
}

// Remaining returns the tiles not yet shown.
func (p *Playback) Remaining() []world.HexCoord {
	if p.Done() {
		return nil
	}
	return slices.Clone(p.path[p.index+1:])
}
