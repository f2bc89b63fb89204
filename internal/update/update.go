// Package update contains the update manager: the two operations that pull
// deltas from the dataset API and apply them to the local store.
package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/cobaltwing/phishguard/internal/dataset"
	"github.com/cobaltwing/phishguard/internal/metrics"
)

// APIClient is the subset of the dataset API client the update manager
// needs.
type APIClient interface {
	GetFilterSet(ctx context.Context, revision int) (d dataset.Delta[dataset.Filter])
	GetHashPrefixes(ctx context.Context, revision int) (d dataset.Delta[dataset.HashPrefix])
}

// Store is the subset of [dataset.Store] the update manager needs.
type Store interface {
	Snapshot() (snap *dataset.Snapshot)
	SaveFilterSet(ctx context.Context, filters map[dataset.Filter]struct{}, revision int)
	SaveHashPrefixes(ctx context.Context, prefixes map[dataset.HashPrefix]struct{}, revision int)
}

// Manager pulls deltas from the dataset API and applies them to a [Store].
// Its two operations share no locks between themselves; each mutates a
// different logical set.  Each also writes only its own stream's revision;
// the store keeps the two revision counters distinct.
type Manager struct {
	logger  *slog.Logger
	api     APIClient
	store   Store
	metrics *metrics.Dataset
	clock   func() time.Time
}

// Config is the configuration structure for a *Manager.
type Config struct {
	// Logger is used to log the outcome of each update.
	Logger *slog.Logger

	// API is the dataset API client.
	API APIClient

	// Store is the dataset store updates are applied to.
	Store Store

	// Metrics records per-stream revision, size, and refresh duration.
	// It may be nil, in which case no metrics are recorded.
	Metrics *metrics.Dataset

	// Clock returns the current time, used to measure refresh duration.
	// If nil, [time.Now] is used.
	Clock func() time.Time
}

// New returns a new *Manager.
func New(conf *Config) (m *Manager) {
	clock := conf.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Manager{
		logger:  conf.Logger,
		api:     conf.API,
		store:   conf.Store,
		metrics: conf.Metrics,
		clock:   clock,
	}
}

// UpdateFilterSet fetches the filter-set delta since the store's current
// filter-set revision, applies it, and saves the result.  It never
// returns an error: a failed fetch collapses to an empty delta upstream,
// which is a no-op update.
func (m *Manager) UpdateFilterSet(ctx context.Context) {
	start := m.clock()

	snap := m.store.Snapshot()
	delta := m.api.GetFilterSet(ctx, snap.FilterRevision)
	next := dataset.Apply(snap.FilterSet, delta)

	m.store.SaveFilterSet(ctx, next, delta.Revision)

	m.logger.InfoContext(ctx, "updated filter set", "revision", delta.Revision, "size", len(next))

	if m.metrics != nil {
		m.metrics.SetRevision(metrics.StreamFilterSet, delta.Revision)
		m.metrics.SetSize(metrics.StreamFilterSet, len(next))
		m.metrics.ObserveRefresh(metrics.StreamFilterSet, m.clock().Sub(start).Seconds(), nil)
	}
}

// UpdateHashPrefixes fetches the hash-prefix delta since the store's
// current hash-prefix revision, applies it, and saves the result.  It
// never returns an error, for the same reason as [Manager.UpdateFilterSet].
func (m *Manager) UpdateHashPrefixes(ctx context.Context) {
	start := m.clock()

	snap := m.store.Snapshot()
	delta := m.api.GetHashPrefixes(ctx, snap.HashPrefixRevision)
	next := dataset.Apply(snap.HashPrefixes, delta)

	m.store.SaveHashPrefixes(ctx, next, delta.Revision)

	m.logger.InfoContext(ctx, "updated hash prefixes", "revision", delta.Revision, "size", len(next))

	if m.metrics != nil {
		m.metrics.SetRevision(metrics.StreamHashPrefix, delta.Revision)
		m.metrics.SetSize(metrics.StreamHashPrefix, len(next))
		m.metrics.ObserveRefresh(metrics.StreamHashPrefix, m.clock().Sub(start).Seconds(), nil)
	}
}
