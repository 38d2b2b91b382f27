// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     cache
// Description: Bounded in-memory TTL cache with hit/miss accounting
// Created:     2025-12-15
// License:     MIT
// ============================================================================

package cache

import (
	"sync"
	"time"
)

// entry is a cached value with its expiry. A zero expiry never expires.
type entry[V any] struct {
	value   V
	expires time.Time
	stored  time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Cache is a thread-safe in-memory cache with TTL support
type Cache[V any] struct {
	mu       sync.RWMutex
	items    map[string]*entry[V]
	maxItems int
	ttl      time.Duration
	now      func() time.Time

	hits   int64
	misses int64

	stop     chan struct{}
	stopOnce sync.Once
}

// Config holds cache configuration
type Config struct {
	MaxItems int
	TTL      time.Duration

	// CleanupInterval is how often expired entries are swept.
	// Zero disables the background sweep.
	CleanupInterval time.Duration
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxItems:        10000,
		TTL:             5 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// New creates a new cache. Close stops the cleanup goroutine.
func New[V any](cfg Config) *Cache[V] {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 10000
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	c := &Cache[V]{
		items:    make(map[string]*entry[V]),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go c.cleanupLoop(cfg.CleanupInterval)
	}
	return c
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if ok && e.expired(c.now()) {
		delete(c.items, key)
		ok = false
	}
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. A non-positive ttl keeps
// the value until it is evicted or deleted.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictOldest()
	}

	e := &entry[V]{value: value, stored: now}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	c.items[key] = e
}

// Delete removes a value from the cache
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry[V])
}

// Size returns the number of items in the cache
func (c *Cache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns cache statistics. hitRate is a percentage.
func (c *Cache[V]) Stats() (hits, misses int64, hitRate float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hits = c.hits
	misses = c.misses
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}

// GetOrLoad returns the cached value for key or stores the result of load.
// Errors from load are not cached.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Close stops the background cleanup
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// evictOldest removes the least recently stored entry (lock held)
func (c *Cache[V]) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.items {
		if oldestKey == "" || e.stored.Before(oldest) {
			oldestKey = key
			oldest = e.stored
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *Cache[V]) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.items {
		if e.expired(now) {
			delete(c.items, key)
		}
	}
}
