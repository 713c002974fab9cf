package engine

import (
	"context"
	"log/slog"
	"time"
)

// Ticker drives frame callbacks for presentation work such as move
// playback. It never touches match state.
type Ticker struct {
	Interval time.Duration // Base frame interval (default 50ms)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused

	OnFrame func(dt time.Duration) bool // Return false to stop
}

// NewTicker creates a ticker with default settings.
func NewTicker(onFrame func(dt time.Duration) bool) *Ticker {
	return &Ticker{
		Interval: 50 * time.Millisecond,
		Speed:    1.0,
		OnFrame:  onFrame,
	}
}

// Run calls OnFrame with the scaled time since the previous frame until it
// returns false or ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	interval := t.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	tk := time.NewTicker(interval)
	defer tk.Stop()

	slog.Debug("ticker started", "interval", interval, "speed", t.Speed)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-tk.C:
			dt := now.Sub(last)
			last = now
			if t.Speed <= 0 {
				// Paused.
				continue
			}
			if !t.OnFrame(time.Duration(float64(dt) * t.Speed)) {
				slog.Debug("ticker stopped")
				return nil
			}
		}
	}
}

// Animate plays every playback to completion on t.
func (t *Ticker) Animate(ctx context.Context, pbs []*Playback, show func(i int, pb *Playback)) error {
	t.OnFrame = func(dt time.Duration) bool {
		running := false
		for i, pb := range pbs {
			if _, moved := pb.Advance(dt); moved && show != nil {
				show(i, pb)
			}
			if !pb.Done() {
				running = true
			}
		}
		return running
	}
	return t.Run(ctx)
}
