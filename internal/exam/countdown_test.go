package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownExpiresOnce(t *testing.T) {
	c := NewCountdown(3)

	assert.False(t, c.Tick())
	assert.False(t, c.Tick())
	assert.Equal(t, 1, c.Remaining())
	assert.True(t, c.Tick())
	assert.True(t, c.Expired())
	assert.False(t, c.Tick())
	assert.Equal(t, 0, c.Remaining())
}

func TestCountdownAdvanceMatchesTicks(t *testing.T) {
	for n := 0; n <= 7; n++ {
		ticked := NewCountdown(5)
		firedByTicks := false
		for i := 0; i < n; i++ {
			if ticked.Tick() {
				firedByTicks = true
			}
		}

		advanced := NewCountdown(5)
		firedByAdvance := advanced.Advance(n)

		assert.Equal(t, ticked.Remaining(), advanced.Remaining(), "n=%d", n)
		assert.Equal(t, ticked.Expired(), advanced.Expired(), "n=%d", n)
		assert.Equal(t, firedByTicks, firedByAdvance, "n=%d", n)
	}
}

func TestCountdownStartingAtZero(t *testing.T) {
	for _, seconds := range []int{0, -4} {
		c := NewCountdown(seconds)
		assert.Equal(t, 0, c.Remaining())
		assert.True(t, c.Expired())
		assert.False(t, c.Tick())
	}
}

func TestCountdownStop(t *testing.T) {
	c := NewCountdown(10)
	c.Stop()
	assert.False(t, c.Tick())
	assert.Equal(t, 10, c.Remaining())
}
