package loop

import (
	"sync"
	"time"
)

// Clock is a repeating timer that can be re-armed with a new interval and stopped
// from any state. C returns nil while the clock is stopped, so a stopped clock never
// delivers a stale tick into a select.
type Clock interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

// TickerClock is a Clock backed by time.Ticker. It is owned by a single goroutine.
type TickerClock struct {
	ticker *time.Ticker
	active bool
}

// Compile-time check that TickerClock implements Clock.
var _ Clock = (*TickerClock)(nil)

// NewTickerClock creates a stopped clock.
func NewTickerClock() *TickerClock {
	return &TickerClock{}
}

// C implements Clock.
func (c *TickerClock) C() <-chan time.Time {
	if !c.active {
		return nil
	}
	return c.ticker.C
}

// Reset implements Clock.
func (c *TickerClock) Reset(d time.Duration) {
	if c.ticker == nil {
		c.ticker = time.NewTicker(d)
	} else {
		c.ticker.Reset(d)
	}
	c.active = true
}

// Stop implements Clock.
func (c *TickerClock) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.active = false
}

// ManualClock is a Clock driven by Fire, for tests and step-by-step drivers.
type ManualClock struct {
	mu       sync.Mutex
	ch       chan time.Time
	active   bool
	interval time.Duration
	resets   int
}

// Compile-time check that ManualClock implements Clock.
var _ Clock = (*ManualClock)(nil)

// NewManualClock creates a stopped manual clock.
func NewManualClock() *ManualClock {
	return &ManualClock{ch: make(chan time.Time, 1)}
}

// C implements Clock.
func (c *ManualClock) C() <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil
	}
	return c.ch
}

// Reset implements Clock.
func (c *ManualClock) Reset(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.interval = d
	c.resets++
}

// Stop implements Clock. A pending undelivered tick is discarded.
func (c *ManualClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	select {
	case <-c.ch:
	default:
	}
}

// Fire delivers one tick if none is pending. It reports whether a tick was queued.
func (c *ManualClock) Fire() bool {
	select {
	case c.ch <- time.Now():
		return true
	default:
		return false
	}
}

// Active reports whether the clock is armed.
func (c *ManualClock) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Interval returns the interval of the last Reset.
func (c *ManualClock) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// Resets returns how many times the clock has been armed.
func (c *ManualClock) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}
