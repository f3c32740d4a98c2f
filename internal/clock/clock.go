// Package clock abstracts time for the simulation layer. Services take a
// Clock instead of calling time primitives directly so tests can advance
// virtual time deterministically instead of waiting on real delays.
package clock

import (
	"context"
	"time"
)

// Clock is the time source used by all services and timers.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks until d has elapsed or ctx is done. It returns the
	// context error when cancelled early.
	Sleep(ctx context.Context, d time.Duration) error

	// NewTicker returns a ticker firing every d.
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on a channel until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// New returns a Clock backed by the real wall clock.
func New() Clock {
	return &realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}
