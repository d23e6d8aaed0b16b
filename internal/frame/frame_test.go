package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/shapecast/internal/timeutil"
)

func TestCounter_Advance(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	c := NewCounter(clock)

	assert.Equal(t, uint64(0), c.Current().Number)

	first := c.Advance()
	assert.Equal(t, uint64(1), first.Number)
	assert.Equal(t, start, first.At)
	assert.Zero(t, first.Delta)

	clock.Advance(16 * time.Millisecond)
	second := c.Advance()
	assert.Equal(t, uint64(2), second.Number)
	assert.Equal(t, 16*time.Millisecond, second.Delta)
	assert.Equal(t, second, c.Current())
}

func TestCounter_NilClockUsesRealTime(t *testing.T) {
	c := NewCounter(nil)
	tick := c.Advance()
	assert.False(t, tick.At.IsZero())
}

func TestToken_OncePerTick(t *testing.T) {
	var tok Token

	assert.True(t, tok.TryConsume(1))
	assert.False(t, tok.TryConsume(1))
	assert.True(t, tok.Consumed(1))
	assert.False(t, tok.Consumed(2))

	assert.True(t, tok.TryConsume(2), "a new tick resets the token")
	assert.False(t, tok.TryConsume(2))

	tok.Reset()
	assert.True(t, tok.TryConsume(2))
}

func TestToken_IndependentInstances(t *testing.T) {
	var audio, haptics Token

	assert.True(t, audio.TryConsume(5))
	assert.True(t, haptics.TryConsume(5), "tokens do not share state")
	assert.False(t, audio.TryConsume(5))
}
