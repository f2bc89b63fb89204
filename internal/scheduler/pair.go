package scheduler

import "time"

// Default intervals for the two dataset streams.
const (
	DefaultHashPrefixInterval = 20 * time.Minute
	DefaultFilterSetInterval  = 12 * time.Hour
)

// Pair composes the hash-prefix and filter-set schedulers behind a single
// idempotent Start/Stop, exposing only that surface to the host, per the
// top-level activity façade.
type Pair struct {
	hashPrefix *Scheduler
	filterSet  *Scheduler

	hashPrefixAction Action
	filterSetAction  Action
}

// NewPair returns a new *Pair.
func NewPair(
	hashPrefix *Scheduler,
	hashPrefixAction Action,
	filterSet *Scheduler,
	filterSetAction Action,
) (p *Pair) {
	return &Pair{
		hashPrefix:       hashPrefix,
		filterSet:        filterSet,
		hashPrefixAction: hashPrefixAction,
		filterSetAction:  filterSetAction,
	}
}

// Start starts both schedulers.  It is idempotent, since each underlying
// [Scheduler.Start] is.
func (p *Pair) Start() {
	p.hashPrefix.Start(p.hashPrefixAction)
	p.filterSet.Start(p.filterSetAction)
}

// Stop stops both schedulers.  It is idempotent and a no-op when idle.
func (p *Pair) Stop() {
	p.hashPrefix.Stop()
	p.filterSet.Stop()
}
