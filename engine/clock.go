package engine

import (
	"sync"
	"time"
)

// Clock is the time source Run schedules frames with.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock uses the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (t systemTicker) C() <-chan time.Time { return t.t.C }
func (t systemTicker) Stop()               { t.t.Stop() }

// ManualClock is a Clock whose time only moves when told to. Its tickers
// never wait: every receive from C advances the clock by one interval, so
// Run steps through frames as fast as the loop allows.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	return &manualTicker{clock: c, d: d, ch: make(chan time.Time, 1)}
}

type manualTicker struct {
	clock   *ManualClock
	d       time.Duration
	ch      chan time.Time
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time {
	if !t.stopped && len(t.ch) == 0 {
		t.ch <- t.clock.Advance(t.d)
	}
	return t.ch
}

func (t *manualTicker) Stop() { t.stopped = true }
