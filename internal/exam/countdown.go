package exam

// Countdown is a one-second-resolution decrementing clock. It runs until
// the remaining time reaches zero and then stays expired.
type Countdown struct {
	remaining int
	expired   bool
}

// NewCountdown starts a countdown at seconds. A countdown with no time
// left starts expired.
func NewCountdown(seconds int) *Countdown {
	if seconds <= 0 {
		return &Countdown{expired: true}
	}
	return &Countdown{remaining: seconds}
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// Expired reports whether the countdown has reached zero or was stopped.
func (c *Countdown) Expired() bool { return c.expired }

// Tick advances one second. It returns true only on the tick that expires
// the countdown; ticks after expiry are no-ops.
func (c *Countdown) Tick() bool {
	if c.expired {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.expired = true
		return true
	}
	return false
}

// Advance applies n ticks and reports whether one of them expired the
// countdown.
func (c *Countdown) Advance(n int) bool {
	fired := false
	for i := 0; i < n && !c.expired; i++ {
		if c.Tick() {
			fired = true
		}
	}
	return fired
}

// Stop freezes the countdown without signalling expiry.
func (c *Countdown) Stop() {
	c.expired = true
}
