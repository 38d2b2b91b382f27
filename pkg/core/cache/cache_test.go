package cache

import (
	"errors"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(maxItems int, ttl time.Duration) (*Cache[string], *clock) {
	clk := &clock{t: time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)}
	c := New[string](Config{MaxItems: maxItems, TTL: ttl})
	c.now = clk.now
	return c, clk
}

func TestGetSet(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	defer c.Close()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("a", "alpha")
	v, ok := c.Get("a")
	if !ok || v != "alpha" {
		t.Errorf("Get(a) = %q, %v; want alpha, true", v, ok)
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v; want 1, 1, 50", hits, misses, rate)
	}
}

func TestExpiry(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	defer c.Close()

	c.Set("a", "alpha")
	c.SetWithTTL("b", "beta", 0)

	clk.t = clk.t.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be expired")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b without ttl to survive")
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestCleanup(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	defer c.Close()

	c.Set("a", "alpha")
	c.Set("b", "beta")
	clk.t = clk.t.Add(2 * time.Minute)
	c.cleanup()

	if c.Size() != 0 {
		t.Errorf("Size() after cleanup = %d, want 0", c.Size())
	}
}

func TestEvictsOldest(t *testing.T) {
	c, clk := newTestCache(2, time.Hour)
	defer c.Close()

	c.Set("a", "alpha")
	clk.t = clk.t.Add(time.Second)
	c.Set("b", "beta")
	clk.t = clk.t.Add(time.Second)
	c.Set("c", "gamma")

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	for _, key := range []string{"b", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to be cached", key)
		}
	}

	// Overwriting an existing key must not evict
	c.Set("b", "beta2")
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestGetOrLoad(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	defer c.Close()

	loads := 0
	load := func() (string, error) {
		loads++
		return "loaded", nil
	}
	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != "loaded" {
			t.Fatalf("GetOrLoad = %q, %v", v, err)
		}
	}
	if loads != 1 {
		t.Errorf("load called %d times, want 1", loads)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad("e", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad error = %v, want boom", err)
	}
	if _, ok := c.Get("e"); ok {
		t.Error("errors must not be cached")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New[int](DefaultConfig())
	c.Close()
	c.Close()
}
