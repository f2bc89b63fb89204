// Package scheduler runs an action at a fixed interval, without letting two
// invocations overlap.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/cobaltwing/phishguard/internal/clock"
)

// Action is a unit of work run by a [Scheduler] on every tick.
type Action func(ctx context.Context)

// Scheduler runs an [Action] at a fixed interval.  Start is idempotent:
// calling it while already running cancels and replaces the current run.
// Stop is idempotent and a no-op when idle.  A Scheduler never overlaps two
// invocations of its action: each tick awaits the action to completion
// before arming the next timer.
type Scheduler struct {
	logger   *slog.Logger
	clock    clock.Clock
	interval time.Duration

	mu      *sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Config is the configuration structure for a *Scheduler.
type Config struct {
	// Logger is used to log the outcome of each tick.
	Logger *slog.Logger

	// Clock supplies the scheduler's notion of time.  If nil,
	// [clock.System]{} is used.
	Clock clock.Clock

	// Interval is the time between the end of one tick and the start of
	// the next.  Must be greater than zero.
	Interval time.Duration
}

// New returns a new *Scheduler.
func New(conf *Config) (s *Scheduler) {
	c := conf.Clock
	if c == nil {
		c = clock.System{}
	}

	return &Scheduler{
		logger:   conf.Logger,
		clock:    c,
		interval: conf.Interval,
		mu:       &sync.Mutex{},
	}
}

// Start begins running action every interval.  If the scheduler is already
// running, the previous run is canceled first, so that Start is always
// idempotent: the net effect of calling Start twice is one running loop
// bound to the latest action.
func (s *Scheduler) Start(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.stopLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.running = true
	s.cancel = cancel
	s.done = done

	go s.run(ctx, done, action)
}

// Stop cancels the running loop and waits for it to exit.  It is a no-op
// if the scheduler is not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

// stopLocked is [Scheduler.Stop] assuming s.mu is already held.
func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}

	s.cancel()
	<-s.done

	s.running = false
	s.cancel = nil
	s.done = nil
}

// run is the scheduler's loop.  It sleeps for s.interval, then runs
// action to completion, then sleeps again, until ctx is canceled.  A
// cancellation during action is not forcibly interrupted; it only
// prevents the next tick from being armed.
func (s *Scheduler) run(ctx context.Context, done chan struct{}, action Action) {
	defer close(done)
	defer slogutil.RecoverAndLog(ctx, s.logger)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.interval):
		}

		action(ctx)

		if ctx.Err() != nil {
			return
		}
	}
}
