package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrUltraEnder/pagelang"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newClockedCache(ttlSeconds int) (*InMemoryCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := NewInMemoryCache(ttlSeconds)
	c.now = clock.Now
	return c, clock
}

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache(3600)
	key := pagelang.CacheKey(pagelang.HashText("Projects"), "en", "es")

	if err := c.Set(key, "Proyectos"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get(key)
	if !ok || val != "Proyectos" {
		t.Errorf("Get = %q, %v; want Proyectos, true", val, ok)
	}

	val, ok = c.Get("nonexistent")
	if ok || val != "" {
		t.Errorf("Get on a missing key = %q, %v", val, ok)
	}
}

func TestInMemoryCache_TTL(t *testing.T) {
	c, clock := newClockedCache(60)

	c.Set("key1", "value1")

	if val, ok := c.Get("key1"); !ok || val != "value1" {
		t.Error("Value should be available immediately after set")
	}

	clock.Advance(61 * time.Second)

	if val, ok := c.Get("key1"); ok || val != "" {
		t.Errorf("Value should be expired after TTL, got %q", val)
	}
	if c.Len() != 0 {
		t.Errorf("Expired entry should be evicted on read, Len = %d", c.Len())
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	c, clock := newClockedCache(0)

	c.Set("key1", "value1")
	clock.Advance(365 * 24 * time.Hour)

	if val, ok := c.Get("key1"); !ok || val != "value1" {
		t.Error("Value should never expire with no TTL")
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	c := NewInMemoryCache(3600)

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	if val, _ := c.Get("key1"); val != "value2" {
		t.Errorf("Value should be overwritten, got %q, want %q", val, "value2")
	}
}

func TestInMemoryCache_LenAndClear(t *testing.T) {
	c := NewInMemoryCache(3600)

	if c.Len() != 0 {
		t.Errorf("Empty cache should have length 0, got %d", c.Len())
	}

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	if c.Len() != 2 {
		t.Errorf("Cache should have length 2, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Cleared cache should have length 0, got %d", c.Len())
	}
	if _, ok := c.Get("key1"); ok {
		t.Error("Cleared cache should not contain any keys")
	}
}

func TestInMemoryCache_EntriesSkipsExpired(t *testing.T) {
	c, clock := newClockedCache(60)

	c.Set("old", "stale")
	clock.Advance(45 * time.Second)
	c.Set("new", "fresh")
	clock.Advance(30 * time.Second)

	entries, err := c.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries["new"] != "fresh" {
		t.Errorf("Expected only the fresh entry, got %v", entries)
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	c := NewInMemoryCache(3600)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Set(string(rune('a'+i%26)), "value")
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Get(string(rune('a' + i%26)))
		}(i)
	}

	wg.Wait()
}
