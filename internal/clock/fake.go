package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a [Clock] implementation that only advances when [Fake.Advance]
// is called, so that tests can assert on scheduler behavior without
// sleeping in real time.
type Fake struct {
	mu      *sync.Mutex
	now     time.Time
	waiters []fakeWaiter
}

// fakeWaiter is a pending [Fake.After] call.
type fakeWaiter struct {
	at time.Time
	c  chan time.Time
}

// NewFake returns a new *Fake whose clock starts at start.
func NewFake(start time.Time) (f *Fake) {
	return &Fake{
		mu:  &sync.Mutex{},
		now: start,
	}
}

// type check
var _ Clock = (*Fake)(nil)

// Now implements the [Clock] interface for *Fake.
func (f *Fake) Now() (now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// After implements the [Clock] interface for *Fake.  The returned channel
// fires once [Fake.Advance] has moved the clock at or past now+d.
func (f *Fake) After(d time.Duration) (c <-chan time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan time.Time, 1)
	f.waiters = append(f.waiters, fakeWaiter{
		at: f.now.Add(d),
		c:  ch,
	})

	return ch
}

// PendingWaiters returns the number of outstanding [Fake.After] calls that
// have not yet fired.  It exists for tests that need to wait for a
// scheduler to register its next timer before advancing the clock again.
func (f *Fake) PendingWaiters() (n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.waiters)
}

// Advance moves the fake clock forward by d, firing every pending
// [Fake.After] channel whose deadline has passed, in deadline order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()

	f.now = f.now.Add(d)

	sort.Slice(f.waiters, func(i, j int) bool {
		return f.waiters[i].at.Before(f.waiters[j].at)
	})

	var due []fakeWaiter
	remaining := f.waiters[:0:0]
	for _, w := range f.waiters {
		if !w.at.After(f.now) {
			due = append(due, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	f.waiters = remaining

	now := f.now
	f.mu.Unlock()

	for _, w := range due {
		w.c <- now
	}
}
