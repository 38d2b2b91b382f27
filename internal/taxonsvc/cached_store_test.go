package taxonsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	Store
	gets   int
	closed bool
}

func (s *countingStore) Get(ctx context.Context, ref string) (*Taxon, error) {
	s.gets++
	return s.Store.Get(ctx, ref)
}

func (s *countingStore) Close() error {
	s.closed = true
	return nil
}

func TestCachedStore(t *testing.T) {
	inner := &countingStore{Store: NewMemoryStore([]*Taxon{{Ref: "1779/9605/1", ScientificName: "Homo"}})}
	store := NewCachedStore(inner, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		taxon, err := store.Get(ctx, "1779/9605/1")
		require.NoError(t, err)
		assert.Equal(t, "Homo", taxon.ScientificName)
	}
	assert.Equal(t, 1, inner.gets)

	for i := 0; i < 2; i++ {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 3, inner.gets, "unknown refs are looked up every time")

	hits, misses := store.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(3), misses)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Close())
	assert.True(t, inner.closed)
}
