// Package embedded provides the phishing dataset's fallback baseline: two
// JSON blobs compiled into the binary, verified against a compile-time
// SHA-256 digest on first use.
package embedded

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cobaltwing/phishguard/internal/dataset"
)

//go:embed hashPrefixes.json
var hashPrefixesJSON []byte

//go:embed filterSet.json
var filterSetJSON []byte

// Expected SHA-256 digests of the embedded blobs, computed once at build
// time from the checked-in files.  A mismatch here means the binary and
// its baseline data have drifted apart and must not be trusted.
const (
	expectedHashPrefixesSHA256 = "8c907efeea967b9c5747ce48b6f086a2ff16db7230a79a2913bec749b7f865a8"
	expectedFilterSetSHA256    = "2682f688e819f0a13834c583d9c6b7e5faf05c1aceba38ee3e06d8d1e9e0edb8"
)

// embeddedRevision is the revision the baseline was captured at.
const embeddedRevision = 1

// Provider is a [dataset.EmbeddedProvider] backed by the data embedded in
// this package.
type Provider struct {
	once     sync.Once
	baseline *dataset.Snapshot
}

// type check
var _ dataset.EmbeddedProvider = (*Provider)(nil)

// Baseline implements the [dataset.EmbeddedProvider] interface for
// *Provider.  It verifies the embedded blobs' integrity on first call and
// panics on mismatch: the baseline is a trust anchor, and starting up on
// silently corrupted data is worse than refusing to start.
func (p *Provider) Baseline() (snap *dataset.Snapshot) {
	p.once.Do(p.load)

	return p.baseline
}

// load verifies and decodes the embedded blobs, populating p.baseline. It
// panics on any integrity or decode failure.
func (p *Provider) load() {
	verify(hashPrefixesJSON, expectedHashPrefixesSHA256, "hashPrefixes.json")
	verify(filterSetJSON, expectedFilterSetSHA256, "filterSet.json")

	var prefixes []dataset.HashPrefix
	err := json.Unmarshal(hashPrefixesJSON, &prefixes)
	if err != nil {
		panic(fmt.Errorf("embedded: decoding hash prefixes: %w", err))
	}

	var filters []dataset.Filter
	err = json.Unmarshal(filterSetJSON, &filters)
	if err != nil {
		panic(fmt.Errorf("embedded: decoding filter set: %w", err))
	}

	snap := &dataset.Snapshot{
		FilterRevision:     embeddedRevision,
		HashPrefixRevision: embeddedRevision,
	}
	snap.FilterSet = make(map[dataset.Filter]struct{}, len(filters))
	for _, f := range filters {
		snap.FilterSet[f] = struct{}{}
	}

	snap.HashPrefixes = make(map[dataset.HashPrefix]struct{}, len(prefixes))
	for _, pfx := range prefixes {
		snap.HashPrefixes[pfx] = struct{}{}
	}

	p.baseline = snap
}

// verify panics if the SHA-256 of data, hex-encoded, doesn't equal want.
func verify(data []byte, want string, name string) {
	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if got != want {
		panic(fmt.Errorf("embedded: %s: SHA-256 mismatch: expected %s, got %s", name, want, got))
	}
}
