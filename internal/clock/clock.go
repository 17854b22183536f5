// Package clock provides a mockable time source for testing.
// In production, it simply wraps time.Now().
package clock

import (
	"sync"
	"time"
)

// Clock is the interface for time operations.
// Use package-level functions for convenience, or inject a Clock for testing.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock provides the actual system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t.
func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// MockClock is a test clock with controllable time.
type MockClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockClock creates a mock clock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mock time.
func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Since returns the duration since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Advance advances the mock time by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

var (
	defaultMu sync.RWMutex
	defaultC  Clock = &RealClock{}
)

// SetDefault swaps the package-level clock. Tests install a MockClock
// and restore the returned previous clock when done.
func SetDefault(c Clock) Clock {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultC
	defaultC = c
	return prev
}

// Now returns the current time from the default clock.
func Now() time.Time {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultC.Now()
}

// Since returns the time elapsed since t on the default clock.
func Since(t time.Time) time.Duration {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultC.Since(t)
}
