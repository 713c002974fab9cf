package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-skirmish/internal/world"
)

func TestPlayback_StepsOnDelay(t *testing.T) {
	path := []world.HexCoord{hex(1, 2), hex(1, 3), hex(1, 4), hex(1, 5)}
	pb := NewPlayback(path, 0)
	assert.Equal(t, hex(1, 2), pb.Current())
	assert.Len(t, pb.Remaining(), 3)

	cur, moved := pb.Advance(150 * time.Millisecond)
	assert.False(t, moved)
	assert.Equal(t, hex(1, 2), cur)

	cur, moved = pb.Advance(100 * time.Millisecond)
	assert.True(t, moved)
	assert.Equal(t, hex(1, 3), cur)

	// A long frame skips ahead but never past the end.
	cur, _ = pb.Advance(time.Second)
	assert.Equal(t, hex(1, 5), cur)
	assert.True(t, pb.Done())
	assert.Nil(t, pb.Remaining())

	_, moved = pb.Advance(time.Second)
	assert.False(t, moved)
}

func TestPlayback_Cancel(t *testing.T) {
	pb := NewPlayback([]world.HexCoord{hex(0, 0), hex(1, 0), hex(2, 0)}, time.Hour)
	pb.Cancel()
	assert.True(t, pb.Done())
	assert.Equal(t, hex(2, 0), pb.Current())
}

func TestPlayback_Empty(t *testing.T) {
	pb := NewPlayback(nil, time.Millisecond)
	assert.True(t, pb.Done())
	assert.Equal(t, world.HexCoord{}, pb.Current())
	pb.Cancel()
}

func TestTicker_AnimatesUntilDone(t *testing.T) {
	pbs := []*Playback{
		NewPlayback([]world.HexCoord{hex(0, 0), hex(1, 0), hex(2, 0)}, 5*time.Millisecond),
		NewPlayback([]world.HexCoord{hex(4, 4), hex(4, 5)}, 5*time.Millisecond),
	}
	tk := NewTicker(nil)
	tk.Interval = time.Millisecond

	var shown int
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, tk.Animate(ctx, pbs, func(int, *Playback) { shown++ }))

	for _, pb := range pbs {
		assert.True(t, pb.Done())
	}
	assert.Positive(t, shown)
	assert.Equal(t, hex(2, 0), pbs[0].Current())
}

func TestTicker_StopsOnCancel(t *testing.T) {
	tk := NewTicker(func(time.Duration) bool { return true })
	tk.Interval = time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tk.Run(ctx), context.DeadlineExceeded)
}
