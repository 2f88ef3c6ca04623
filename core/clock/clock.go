// Package clock supplies the ledger's single authoritative time source. The
// ledger never advances time itself; it only reads it.
package clock

import (
	"errors"
	"sync"
	"time"
)

// ErrClockRegression is returned when a manual clock is asked to move backwards.
var ErrClockRegression = errors.New("clock: time must not move backwards")

// Clock returns the current time in unix seconds.
type Clock interface {
	Now() int64
}

// Func adapts a plain function to the Clock interface.
type Func func() int64

// Now implements Clock.
func (f Func) Now() int64 { return f() }

// System reads the host wall clock.
type System struct{}

// Now implements Clock.
func (System) Now() int64 { return time.Now().Unix() }

// Manual is a settable clock used by tests and scenario replays. It only
// moves forward.
type Manual struct {
	mu  sync.Mutex
	now int64
}

// NewManual returns a manual clock starting at ts.
func NewManual(ts int64) *Manual {
	return &Manual{now: ts}
}

// Now implements Clock.
func (m *Manual) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to ts.
func (m *Manual) Set(ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts < m.now {
		return ErrClockRegression
	}
	m.now = ts
	return nil
}

// Advance moves the clock forward by the supplied number of seconds.
func (m *Manual) Advance(seconds int64) error {
	if seconds < 0 {
		return ErrClockRegression
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += seconds
	return nil
}

// Monotonic wraps a clock and never reports a value below the highest one it
// has already returned.
type Monotonic struct {
	mu     sync.Mutex
	source Clock
	last   int64
}

// NewMonotonic wraps source. A nil source falls back to the system clock.
func NewMonotonic(source Clock) *Monotonic {
	if source == nil {
		source = System{}
	}
	return &Monotonic{source: source}
}

// Now implements Clock.
func (m *Monotonic) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := m.source.Now()
	if ts < m.last {
		return m.last
	}
	m.last = ts
	return ts
}

// Peek returns what Now would report without recording the reading, so
// queries cannot raise the floor seen by later mutations.
func (m *Monotonic) Peek() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts := m.source.Now(); ts > m.last {
		return ts
	}
	return m.last
}
