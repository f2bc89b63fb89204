package dataset_test

import (
	"testing"

	"github.com/cobaltwing/phishguard/internal/dataset"
	"github.com/stretchr/testify/assert"
)

func TestApply_insert(t *testing.T) {
	current := map[string]struct{}{"aaaaaaaa": {}}
	d := dataset.Delta[string]{
		Insert:   []string{"bbbbbbbb"},
		Revision: 2,
	}

	next := dataset.Apply(current, d)

	assert.Equal(t, map[string]struct{}{
		"aaaaaaaa": {},
		"bbbbbbbb": {},
	}, next)
}

func TestApply_delete(t *testing.T) {
	current := map[string]struct{}{"aaaaaaaa": {}, "bbbbbbbb": {}}
	d := dataset.Delta[string]{
		Delete:   []string{"aaaaaaaa"},
		Revision: 3,
	}

	next := dataset.Apply(current, d)

	assert.Equal(t, map[string]struct{}{"bbbbbbbb": {}}, next)
}

func TestApply_replace(t *testing.T) {
	current := map[string]struct{}{"aaaaaaaa": {}, "bbbbbbbb": {}}
	d := dataset.Delta[string]{
		Insert:   []string{"cccccccc"},
		Replace:  true,
		Revision: 4,
	}

	next := dataset.Apply(current, d)

	assert.Equal(t, map[string]struct{}{"cccccccc": {}}, next)
}

// TestApply_insertDeleteTie checks that an element present in both Insert
// and Delete of the same delta ends up removed: the union is computed
// before the difference.
func TestApply_insertDeleteTie(t *testing.T) {
	current := map[string]struct{}{}
	d := dataset.Delta[string]{
		Insert:   []string{"aaaaaaaa"},
		Delete:   []string{"aaaaaaaa"},
		Revision: 5,
	}

	next := dataset.Apply(current, d)

	assert.Empty(t, next)
}

func TestApply_emptyDeltaIsNoop(t *testing.T) {
	current := map[string]struct{}{"aaaaaaaa": {}}
	d := dataset.Delta[string]{Revision: 1}

	next := dataset.Apply(current, d)

	assert.Equal(t, current, next)
}
