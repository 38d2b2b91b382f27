package taxonsvc

import (
	"context"
	"time"

	"github.com/msto63/taxon/pkg/core/cache"
)

// CachedStore keeps recently read taxa in memory in front of a slower
// store. Unknown refs are not cached.
type CachedStore struct {
	Store
	cache *cache.Cache[*Taxon]
}

// NewCachedStore wraps store with a cache of at most size taxa, each kept
// for ttl
func NewCachedStore(store Store, size int, ttl time.Duration) *CachedStore {
	cfg := cache.DefaultConfig()
	if size > 0 {
		cfg.MaxItems = size
	}
	if ttl > 0 {
		cfg.TTL = ttl
	}
	return &CachedStore{Store: store, cache: cache.New[*Taxon](cfg)}
}

// Get returns the taxon for ref, reading through to the wrapped store
func (s *CachedStore) Get(ctx context.Context, ref string) (*Taxon, error) {
	return s.cache.GetOrLoad(ref, func() (*Taxon, error) {
		return s.Store.Get(ctx, ref)
	})
}

// Stats returns the cache hit and miss counts
func (s *CachedStore) Stats() (hits, misses int64) {
	hits, misses, _ = s.cache.Stats()
	return hits, misses
}

// Close stops the cache and closes the wrapped store
func (s *CachedStore) Close() error {
	s.cache.Close()
	return s.Store.Close()
}
