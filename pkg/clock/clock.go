// Package clock abstracts the current time so expiry decisions can be tested
// without sleeping.
package clock

import (
	"sync"
	"time"
)

// Precision is the resolution of timestamps handed out by Real. It matches the
// ISO-8601 millisecond precision used by every persistence backend, so records
// survive a save/load cycle unchanged.
const Precision = time.Millisecond

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// Now returns the current UTC time truncated to Precision.
func (Real) Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}

// Mock is a manually driven Clock. It is safe for concurrent use.
type Mock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMock creates a Mock set to t.
func NewMock(t time.Time) *Mock {
	return &Mock{current: t}
}

func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current
}

// Advance moves the clock forward by d.
func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
}

// Set moves the clock to t.
func (c *Mock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = t
}
