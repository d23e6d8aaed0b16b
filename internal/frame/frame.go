// Package frame numbers the cooperative frame ticks that drive capture and
// provides a per-tick token for consumers that must act at most once per
// frame.
package frame

import (
	"time"

	"github.com/banshee-data/shapecast/internal/timeutil"
)

// Tick identifies one frame.
type Tick struct {
	Number uint64        // 1 for the first frame
	At     time.Time     // clock time when the frame began
	Delta  time.Duration // time since the previous frame; zero for the first
}

// Counter hands out monotonically increasing ticks.
type Counter struct {
	clock   timeutil.Clock
	current Tick
}

// NewCounter creates a counter reading time from clock. A nil clock uses
// the real clock.
func NewCounter(clock timeutil.Clock) *Counter {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Counter{clock: clock}
}

// Advance begins the next frame and returns it.
func (c *Counter) Advance() Tick {
	now := c.clock.Now()
	next := Tick{Number: c.current.Number + 1, At: now}
	if c.current.Number > 0 {
		next.Delta = now.Sub(c.current.At)
	}
	c.current = next
	return next
}

// Current returns the frame in progress; Number is 0 before the first Advance.
func (c *Counter) Current() Tick {
	return c.current
}

// Token records whether its owner has already acted in a given frame. Each
// consumer owns its own Token; nothing is shared between instances.
type Token struct {
	used bool
	tick uint64
}

// TryConsume reports whether the owner may act in tick. It returns true for
// the first call in each tick and false for the rest of that tick.
func (t *Token) TryConsume(tick uint64) bool {
	if t.used && t.tick == tick {
		return false
	}
	t.used = true
	t.tick = tick
	return true
}

// Consumed reports whether the token was used in tick.
func (t *Token) Consumed(tick uint64) bool {
	return t.used && t.tick == tick
}

// Reset makes the token available again.
func (t *Token) Reset() {
	*t = Token{}
}
