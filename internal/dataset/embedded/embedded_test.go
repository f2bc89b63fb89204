package embedded_test

import (
	"testing"

	"github.com/cobaltwing/phishguard/internal/dataset"
	"github.com/cobaltwing/phishguard/internal/dataset/embedded"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Baseline(t *testing.T) {
	p := &embedded.Provider{}

	snap := p.Baseline()
	require.NotNil(t, snap)

	assert.NotEmpty(t, snap.FilterSet)
	assert.NotEmpty(t, snap.HashPrefixes)
	assert.Equal(t, 1, snap.FilterRevision)
	assert.Equal(t, 1, snap.HashPrefixRevision)

	for f := range snap.FilterSet {
		assert.Len(t, f.Hash, dataset.FilterHashLen)
	}

	for prefix := range snap.HashPrefixes {
		assert.Len(t, prefix, dataset.HashPrefixLen)
	}
}

// TestProvider_Baseline_idempotent makes sure repeated calls return the same
// snapshot instance rather than re-verifying and re-decoding every time.
func TestProvider_Baseline_idempotent(t *testing.T) {
	p := &embedded.Provider{}

	first := p.Baseline()
	second := p.Baseline()

	assert.Same(t, first, second)
}

// TestBaselineDigestsMatchFixtures guards against editing the JSON fixtures
// without updating the compile-time digest constants: if this test starts
// failing, the constants in embedded.go need to be recomputed.
func TestBaselineDigestsMatchFixtures(t *testing.T) {
	p := &embedded.Provider{}

	require.NotPanics(t, func() {
		p.Baseline()
	})
}
