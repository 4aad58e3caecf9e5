// Package testutil provides deterministic helpers shared by tests across
// the engine packages.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a wall clock under test control.
//
// Unlike state.SystemClock it only moves when a test calls Advance or Set,
// so expiry arithmetic and TTL boundaries can be checked exactly.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex, matching the production clock's implicit safety.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock pinned at a fixed, arbitrary epoch.
//
// The epoch is deliberately not time.Unix(0, 0): expiry instants live on
// the unix-millisecond timeline and a zero epoch would collide with the
// "never updated" state.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative values panic: manual time
// is monotonic like the real clock.
func (c *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("testutil: manual clock cannot move backwards")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set pins the clock to an absolute instant.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
