package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a thread-safe, settable wall clock for tests.
//
// The same-day filter makes every run depend on the reference instant,
// so tests pin it instead of reading the system clock. Unlike a frozen
// time.Time literal scattered through tests, a FixedClock can be moved
// across the midnight boundary mid-test to exercise day transitions.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock pinned at the given instant.
func NewFixedClock(at time.Time) *FixedClock {
	return &FixedClock{now: at}
}

// Now returns the pinned instant. Signature-compatible with time.Now
// so it can be passed wherever a `func() time.Time` is accepted.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward (or backward, with a negative d).
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set pins the clock to a new instant.
func (c *FixedClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}
