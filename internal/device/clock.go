package device

import (
	"sync"
	"time"
)

// Clock is the simulated device clock. It tracks real time but can be
// re-based by a time-sync write, which is how a peer drives quota
// day-rollover in the simulator.
type Clock struct {
	mu     sync.Mutex
	offset time.Duration
}

// NewClock returns a clock aligned with real UTC time.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().UTC().Add(c.offset)
}

// Set re-bases the clock so that Now() reads t, continuing to advance
// in real time from there.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = t.Sub(time.Now().UTC())
}
