package schema

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolveIsMemoized(t *testing.T) {
	r := NewRegistry()

	first, err := r.Resolve([]EntitySpec{datasetSpec()})
	require.NoError(t, err)
	second, err := r.Resolve([]EntitySpec{datasetSpec()})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_KeyIsOrdered(t *testing.T) {
	r := NewRegistry()

	ab, err := r.Resolve([]EntitySpec{datasetSpec(), chartSpec()})
	require.NoError(t, err)
	ba, err := r.Resolve([]EntitySpec{chartSpec(), datasetSpec()})
	require.NoError(t, err)

	assert.NotSame(t, ab, ba)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, ab.FacetFields(), ba.FacetFields())
}

func TestRegistry_ConcurrentFirstResolveYieldsOneInstance(t *testing.T) {
	r := NewRegistry()
	specs := []EntitySpec{datasetSpec(), chartSpec()}

	const workers = 32
	results := make([]*Schema, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			s, err := r.Resolve(specs)
			if err == nil {
				results[i] = s
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.NotNil(t, results[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ConflictIsNotCached(t *testing.T) {
	r := NewRegistry()
	conflicting := EntitySpec{
		Name:   "chart",
		Fields: []FieldSpec{{FieldName: "platform", AddToFilters: true, FilterName: "Other"}},
	}

	_, err := r.Resolve([]EntitySpec{datasetSpec(), conflicting})
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())
}
