// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     ratelimit
// Description: Per-key token buckets with idle eviction
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const sweepEvery = 512

// KeyLimiter applies one token bucket per key. A nil *KeyLimiter allows
// everything, which is what New returns when limiting is disabled.
type KeyLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*bucket
	calls uint64
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing rps events per second per key with the
// given burst. Non-positive rps disables limiting (nil result). A
// non-positive burst defaults to ceil(rps).
func New(rps float64, burst int, idleTTL time.Duration) *KeyLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(rps)
		if float64(burst) < rps {
			burst++
		}
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &KeyLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		byKey:   make(map[string]*bucket),
	}
}

// Allow reports whether one event for key may happen at now. Blank keys
// are never limited.
func (l *KeyLimiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.byKey[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.evictLocked(now)
	}

	return allowed
}

// Len returns the number of tracked keys
func (l *KeyLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// Evict drops keys idle since before now minus the idle TTL
func (l *KeyLimiter) Evict(now time.Time) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evictLocked(now)
}

func (l *KeyLimiter) evictLocked(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, b := range l.byKey {
		if b.lastSeen.Before(cutoff) {
			delete(l.byKey, k)
		}
	}
}
