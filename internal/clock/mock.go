package clock

import (
	"context"
	"sync"
	"time"
)

// Mock is a deterministic Clock for tests. Time only moves when Advance is
// called, or, with auto-advance enabled, when a caller sleeps.
type Mock struct {
	mu      sync.Mutex
	now     time.Time
	auto    bool
	waiters []*waiter
	tickers []*mockTicker
}

type waiter struct {
	deadline time.Time
	ch       chan struct{}
}

// NewMock returns a Mock pinned to start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// SetAutoAdvance makes Sleep advance virtual time by its full duration and
// return immediately. Useful for exercising simulated-latency paths without
// a second goroutine driving the clock.
func (m *Mock) SetAutoAdvance(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auto = on
}

// Now returns the current virtual time.
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Sleep blocks until virtual time passes the deadline or ctx is done.
func (m *Mock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	m.mu.Lock()
	if m.auto {
		m.advanceLocked(m.now.Add(d))
		m.mu.Unlock()
		return ctx.Err()
	}
	w := &waiter{deadline: m.now.Add(d), ch: make(chan struct{})}
	m.waiters = append(m.waiters, w)
	m.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewTicker returns a ticker driven by Advance.
func (m *Mock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTicker{
		mock:     m,
		interval: d,
		next:     m.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves virtual time forward by d, releasing sleepers and firing
// tickers in chronological order along the way.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.advanceLocked(m.now.Add(d))
	m.mu.Unlock()

	// Let released goroutines observe the new time.
	time.Sleep(time.Millisecond)
}

func (m *Mock) advanceLocked(target time.Time) {
	for {
		next, ok := m.nextDeadlineLocked(target)
		if !ok {
			break
		}
		m.now = next
		m.fireDueLocked()
	}
	m.now = target
}

// nextDeadlineLocked returns the earliest pending deadline at or before target.
func (m *Mock) nextDeadlineLocked(target time.Time) (time.Time, bool) {
	var next time.Time
	found := false

	consider := func(t time.Time) {
		if t.After(target) {
			return
		}
		if !found || t.Before(next) {
			next = t
			found = true
		}
	}

	for _, w := range m.waiters {
		consider(w.deadline)
	}
	for _, t := range m.tickers {
		if !t.stopped {
			consider(t.next)
		}
	}
	return next, found
}

func (m *Mock) fireDueLocked() {
	remaining := m.waiters[:0]
	for _, w := range m.waiters {
		if !w.deadline.After(m.now) {
			close(w.ch)
		} else {
			remaining = append(remaining, w)
		}
	}
	m.waiters = remaining

	for _, t := range m.tickers {
		if t.stopped {
			continue
		}
		for !t.next.After(m.now) {
			select {
			case t.ch <- m.now:
			default:
			}
			t.next = t.next.Add(t.interval)
		}
	}
}

type mockTicker struct {
	mock     *Mock
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

func (t *mockTicker) C() <-chan time.Time {
	return t.ch
}

func (t *mockTicker) Stop() {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()
	t.stopped = true
}
