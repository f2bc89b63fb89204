// Package dataset defines the phishing dataset's data model and the store
// that keeps an in-memory, disk-backed copy of it current.
package dataset

// Filter is a single hash-and-regex rule.  A URL is considered malicious by
// a Filter if the SHA-256 of its canonical host equals Hash and its
// canonical URL matches Regex.
type Filter struct {
	// Hash is the lowercase hex-encoded SHA-256 of a canonical hostname,
	// exactly 64 characters long.
	Hash string `json:"hash"`

	// Regex is the pattern tested against the full canonical URL string.
	Regex string `json:"regex"`
}

// HashPrefix is an 8-hex-character lowercase prefix of some [Filter.Hash].
// The set of prefixes is a bloom-like acceleration index: a host whose hash
// doesn't start with any stored prefix is definitely safe.
type HashPrefix = string

// HashPrefixLen is the length, in hex characters, of a stored [HashPrefix].
const HashPrefixLen = 8

// FilterHashLen is the length, in hex characters, of a [Filter.Hash].
const FilterHashLen = 64

// MatchRecord is the shape returned by the remote match endpoint.  It plays
// the same role as a [Filter] at match time.
type MatchRecord struct {
	Hostname string `json:"hostname"`
	URL      string `json:"url"`
	Regex    string `json:"regex"`
	Hash     string `json:"hash"`
}

// Delta is an insert/delete/replace update to a set, tagged with the
// revision it brings the set to.
type Delta[T comparable] struct {
	Insert   []T  `json:"insert"`
	Delete   []T  `json:"delete"`
	Revision int  `json:"revision"`
	Replace  bool `json:"replace"`
}

// Apply returns the set that results from applying d to current.  If
// d.Replace is true, the result is exactly set(d.Insert).  Otherwise the
// result is (current ∪ set(d.Insert)) \ set(d.Delete): the union is
// computed first and the difference second, so an element present in both
// Insert and Delete of the same delta ends up removed.
func Apply[T comparable](current map[T]struct{}, d Delta[T]) (next map[T]struct{}) {
	if d.Replace {
		next = make(map[T]struct{}, len(d.Insert))
		for _, v := range d.Insert {
			next[v] = struct{}{}
		}

		return next
	}

	next = make(map[T]struct{}, len(current)+len(d.Insert))
	for v := range current {
		next[v] = struct{}{}
	}

	for _, v := range d.Insert {
		next[v] = struct{}{}
	}

	for _, v := range d.Delete {
		delete(next, v)
	}

	return next
}

// Snapshot is an immutable, point-in-time view of the dataset: the set of
// filters, the set of hash prefixes, and the revision each was last
// updated at.  A *Snapshot is never mutated in place; [Store] swaps in a
// new one on every update so that concurrent readers always observe both
// sets and both revisions consistently.
type Snapshot struct {
	FilterSet          map[Filter]struct{}
	HashPrefixes       map[HashPrefix]struct{}
	FilterRevision     int
	HashPrefixRevision int
}

// FilterSetSlice returns the filter set as a slice, for JSON encoding.
func (s *Snapshot) FilterSetSlice() (filters []Filter) {
	filters = make([]Filter, 0, len(s.FilterSet))
	for f := range s.FilterSet {
		filters = append(filters, f)
	}

	return filters
}

// HashPrefixesSlice returns the hash-prefix set as a slice, for JSON
// encoding.
func (s *Snapshot) HashPrefixesSlice() (prefixes []HashPrefix) {
	prefixes = make([]HashPrefix, 0, len(s.HashPrefixes))
	for p := range s.HashPrefixes {
		prefixes = append(prefixes, p)
	}

	return prefixes
}

// filterSet returns a map built from a slice of filters, for loading from
// JSON or from the embedded baseline.
func filterSet(filters []Filter) (set map[Filter]struct{}) {
	set = make(map[Filter]struct{}, len(filters))
	for _, f := range filters {
		set[f] = struct{}{}
	}

	return set
}

// hashPrefixSet returns a map built from a slice of prefixes, for loading
// from JSON or from the embedded baseline.
func hashPrefixSet(prefixes []HashPrefix) (set map[HashPrefix]struct{}) {
	set = make(map[HashPrefix]struct{}, len(prefixes))
	for _, p := range prefixes {
		set[p] = struct{}{}
	}

	return set
}
