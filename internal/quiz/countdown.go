package quiz

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown fires onExpire once when its deadline passes, unless stopped
// first. A zero or negative duration never fires.
type Countdown struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	deadline time.Time
	timer    clockwork.Timer
	stopped  bool
	fired    bool
}

func StartCountdown(clock clockwork.Clock, d time.Duration, onExpire func()) *Countdown {
	c := &Countdown{clock: clock, deadline: clock.Now().Add(d)}
	if d <= 0 {
		c.stopped = true
		return c
	}

	c.timer = clock.AfterFunc(d, func() {
		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			return
		}
		c.fired = true
		c.stopped = true
		c.mu.Unlock()

		if onExpire != nil {
			onExpire()
		}
	})
	return c
}

// Stop cancels the countdown. It reports whether this call stopped a live
// countdown; later calls are no-ops.
func (c *Countdown) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return false
	}
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
	return true
}

// Remaining is the time left before expiry, zero once stopped or fired.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return 0
	}
	if left := c.deadline.Sub(c.clock.Now()); left > 0 {
		return left
	}
	return 0
}

func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}
