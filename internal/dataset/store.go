package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/AdguardTeam/golibs/errors"
	renameio "github.com/google/renameio/v2"
)

// EmbeddedProvider supplies the baseline dataset compiled into the binary,
// used when no usable on-disk state exists.
type EmbeddedProvider interface {
	// Baseline returns the embedded filter set, hash-prefix set, and the
	// revision each was shipped at.  It must verify the integrity of the
	// embedded data and fail fatally (panic) on mismatch, since the
	// baseline is a trust anchor.
	Baseline() (snap *Snapshot)
}

// Store owns the in-memory dataset and persists it to three files in an
// application-support directory.  All methods are safe for concurrent use.
type Store struct {
	logger *slog.Logger

	// snapMu serializes mutating operations (Load, SaveFilterSet,
	// SaveHashPrefixes).  Readers never take it; they load
	// the atomic snapshot pointer instead.
	snapMu *sync.Mutex

	snap *atomic.Pointer[Snapshot]

	embedded EmbeddedProvider

	dir string
}

// Config is the configuration structure for a *Store.
type Config struct {
	// Logger is used to log load/save failures.
	Logger *slog.Logger

	// Embedded supplies the fallback baseline.  It must not be nil.
	Embedded EmbeddedProvider

	// Dir is the application-support directory the three dataset files
	// live under.  It is created if it does not exist.
	Dir string
}

// File names used within a [Store]'s directory.
const (
	fileHashPrefixes = "hashPrefixes.json"
	fileFilterSet    = "filterSet.json"
	fileRevisions    = "revision.txt"
)

// revisions is the on-disk shape of the per-stream revision counters.  A
// single shared counter was the source of a documented race between the two
// updaters (see the design notes on per-stream revisions), so the file
// holds a small object instead of a bare integer.
type revisions struct {
	HashPrefix int `json:"hashPrefix"`
	FilterSet  int `json:"filterSet"`
}

// New returns a new *Store.  The returned store holds an empty snapshot
// until [Store.Load] is called.
func New(conf *Config) (s *Store) {
	s = &Store{
		logger:   conf.Logger,
		snapMu:   &sync.Mutex{},
		snap:     &atomic.Pointer[Snapshot]{},
		embedded: conf.Embedded,
		dir:      conf.Dir,
	}

	s.snap.Store(&Snapshot{
		FilterSet:    map[Filter]struct{}{},
		HashPrefixes: map[HashPrefix]struct{}{},
	})

	return s
}

// Snapshot returns the current dataset snapshot.  The returned value must
// not be mutated.
func (s *Store) Snapshot() (snap *Snapshot) {
	return s.snap.Load()
}

// Load reads the three on-disk files and adopts them as the current
// snapshot.  It falls back wholesale to the embedded baseline if any file
// is missing or fails to decode, or if the resulting revisions are both
// zero while the sets are empty, per the on-startup invariant that an
// uninitialized store must not masquerade as a populated one.
func (s *Store) Load(ctx context.Context) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	snap, err := s.load()
	if err != nil {
		s.logger.InfoContext(ctx, "loading from disk failed, using embedded baseline", "err", err)
		snap = s.embedded.Baseline()
	} else if isUninitialized(snap) {
		s.logger.InfoContext(ctx, "on-disk state is uninitialized, using embedded baseline")
		snap = s.embedded.Baseline()
	}

	s.snap.Store(snap)
}

// isUninitialized reports whether snap looks like a store that has never
// been populated: both sets empty and revision zero.
func isUninitialized(snap *Snapshot) (ok bool) {
	return len(snap.FilterSet) == 0 &&
		len(snap.HashPrefixes) == 0 &&
		snap.FilterRevision == 0 &&
		snap.HashPrefixRevision == 0
}

// load reads the three dataset files and returns the snapshot they
// describe.  It returns an error if any file is missing or malformed.
func (s *Store) load() (snap *Snapshot, err error) {
	var prefixes []HashPrefix
	err = readJSONFile(filepath.Join(s.dir, fileHashPrefixes), &prefixes)
	if err != nil {
		return nil, fmt.Errorf("reading hash prefixes: %w", err)
	}

	var filters []Filter
	err = readJSONFile(filepath.Join(s.dir, fileFilterSet), &filters)
	if err != nil {
		return nil, fmt.Errorf("reading filter set: %w", err)
	}

	var revs revisions
	err = readJSONFile(filepath.Join(s.dir, fileRevisions), &revs)
	if err != nil {
		return nil, fmt.Errorf("reading revisions: %w", err)
	}

	return &Snapshot{
		FilterSet:          filterSet(filters),
		HashPrefixes:       hashPrefixSet(prefixes),
		FilterRevision:     revs.FilterSet,
		HashPrefixRevision: revs.HashPrefix,
	}, nil
}

// readJSONFile decodes the JSON contents of path into v.
func readJSONFile(path string, v any) (err error) {
	// #nosec G304 -- path is always built from the configured application
	// support directory and a fixed file name.
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.WithDeferred(err, f.Close()) }()

	return json.NewDecoder(f).Decode(v)
}

// SaveFilterSet replaces the in-memory filter set and revision, then
// persists the new state to disk.  A failed write is logged; the
// in-memory state remains authoritative regardless.
func (s *Store) SaveFilterSet(ctx context.Context, filters map[Filter]struct{}, revision int) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	prev := s.snap.Load()
	next := &Snapshot{
		FilterSet:          filters,
		HashPrefixes:       prev.HashPrefixes,
		FilterRevision:     revision,
		HashPrefixRevision: prev.HashPrefixRevision,
	}
	s.snap.Store(next)

	s.persist(ctx, next)
}

// SaveHashPrefixes replaces the in-memory hash-prefix set and revision,
// then persists the new state to disk.  A failed write is logged; the
// in-memory state remains authoritative regardless.
func (s *Store) SaveHashPrefixes(ctx context.Context, prefixes map[HashPrefix]struct{}, revision int) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	prev := s.snap.Load()
	next := &Snapshot{
		FilterSet:          prev.FilterSet,
		HashPrefixes:       prefixes,
		FilterRevision:     prev.FilterRevision,
		HashPrefixRevision: revision,
	}
	s.snap.Store(next)

	s.persist(ctx, next)
}

// persist writes snap's three files atomically.  Errors are logged, never
// returned: persistence is best-effort, and the in-memory snapshot has
// already been adopted regardless of disk outcome.
func (s *Store) persist(ctx context.Context, snap *Snapshot) {
	err := os.MkdirAll(s.dir, 0o755)
	if err != nil {
		s.logger.ErrorContext(ctx, "creating dataset dir", "err", err)

		return
	}

	writes := []struct {
		path string
		v    any
	}{
		{filepath.Join(s.dir, fileHashPrefixes), snap.HashPrefixesSlice()},
		{filepath.Join(s.dir, fileFilterSet), snap.FilterSetSlice()},
		{filepath.Join(s.dir, fileRevisions), revisions{
			HashPrefix: snap.HashPrefixRevision,
			FilterSet:  snap.FilterRevision,
		}},
	}

	for _, w := range writes {
		werr := writeJSONFileAtomic(w.path, w.v)
		if werr != nil {
			s.logger.ErrorContext(ctx, "persisting dataset file", "path", w.path, "err", werr)
		}
	}
}

// writeJSONFileAtomic JSON-encodes v and writes it to path by writing to a
// temporary file in the same directory and renaming it into place, so that
// a concurrent reader (or a crash mid-write) never observes a partial
// file.
func writeJSONFileAtomic(path string, v any) (err error) {
	tmpDir := renameio.TempDir(filepath.Dir(path))
	tmpFile, err := renameio.TempFile(tmpDir, path)
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	err = json.NewEncoder(tmpFile).Encode(v)
	if err != nil {
		return errors.WithDeferred(fmt.Errorf("encoding: %w", err), tmpFile.Cleanup())
	}

	return tmpFile.CloseAtomicallyReplace()
}
