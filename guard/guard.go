// Package guard is the host-exposed API: the surface a browser, VPN
// client, or other caller embeds to classify URLs against the synced
// phishing dataset.
package guard

import (
	"context"
	"log/slog"

	"github.com/cobaltwing/phishguard/internal/scheduler"
)

// store is the subset of [*dataset.Store] the guard needs at startup.
type store interface {
	Load(ctx context.Context)
}

// detector is the subset of [*classifier.Detector] the guard needs on the
// hot path.
type detector interface {
	IsMalicious(ctx context.Context, rawURL string) (malicious bool)
}

// Guard is the top-level facade composing the dataset store, the
// background scheduler, and the classifier behind the three operations a
// host needs: start the background sync, load the initial dataset, and
// classify a URL.
type Guard struct {
	logger *slog.Logger

	store     store
	scheduler *scheduler.Pair
	detector  detector
}

// Config is the configuration structure for a *Guard.
type Config struct {
	// Logger is used to log facade-level lifecycle events.
	Logger *slog.Logger

	// Store is the dataset store to load at startup.  It must not be nil.
	// In production this is a [*dataset.Store], which satisfies this
	// interface implicitly.
	Store store

	// Scheduler drives the two background refresh streams.  It must not
	// be nil.
	Scheduler *scheduler.Pair

	// Detector classifies URLs against the store's current snapshot.  It
	// must not be nil.  In production this is a [*classifier.Detector],
	// which satisfies this interface implicitly.
	Detector detector
}

// New returns a new *Guard.
func New(conf *Config) (g *Guard) {
	return &Guard{
		logger:    conf.Logger,
		store:     conf.Store,
		scheduler: conf.Scheduler,
		detector:  conf.Detector,
	}
}

// IsMalicious reports whether rawURL matches the currently-synced dataset.
// It is safe for concurrent use and never blocks on the network for
// longer than ctx allows.
func (g *Guard) IsMalicious(ctx context.Context, rawURL string) (malicious bool) {
	return g.detector.IsMalicious(ctx, rawURL)
}

// Start starts the background scheduler, which periodically refreshes
// both dataset streams.  Start is idempotent.
func (g *Guard) Start() {
	g.logger.Info("starting background sync")
	g.scheduler.Start()
}

// Stop stops the background scheduler.  Stop is idempotent.
func (g *Guard) Stop() {
	g.logger.Info("stopping background sync")
	g.scheduler.Stop()
}

// LoadDataAsync loads the on-disk dataset (falling back to the embedded
// baseline) in the background, so that construction does not block on
// disk I/O.  Classification against the old (or baseline) snapshot
// remains safe while the load is in flight.
func (g *Guard) LoadDataAsync(ctx context.Context) {
	go g.store.Load(ctx)
}
