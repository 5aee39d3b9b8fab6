package pagelang

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// slowCache simulates a slow cache for testing parallel lookups
type slowCache struct {
	data    map[string]string
	mu      sync.RWMutex
	delay   time.Duration
	lookups int64
}

func newSlowCache(delay time.Duration) *slowCache {
	return &slowCache{
		data:  make(map[string]string),
		delay: delay,
	}
}

func (c *slowCache) Get(key string) (string, bool) {
	atomic.AddInt64(&c.lookups, 1)
	time.Sleep(c.delay)
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *slowCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestParallelCacheLookup_Basic(t *testing.T) {
	cache := newSlowCache(0)
	cache.Set(CacheKey(HashText("Hello"), "en", "es"), "Hola")
	cache.Set(CacheKey(HashText("World"), "en", "es"), "Mundo")

	hits, misses := ParallelCacheLookup(cache, []string{"Hello", "Missing", "World", "Also missing"}, "en", "es")

	if len(hits) != 2 {
		t.Errorf("Expected 2 hits, got %d", len(hits))
	}
	if hits["Hello"] != "Hola" || hits["World"] != "Mundo" {
		t.Errorf("Unexpected hits: %v", hits)
	}
	if !reflect.DeepEqual(misses, []string{"Missing", "Also missing"}) {
		t.Errorf("Misses should keep input order, got %v", misses)
	}
}

func TestParallelCacheLookup_WrongDirectionMisses(t *testing.T) {
	cache := newSlowCache(0)
	cache.Set(CacheKey(HashText("Hello"), "en", "es"), "Hola")

	hits, misses := ParallelCacheLookup(cache, []string{"Hello"}, "es", "en")
	if len(hits) != 0 || len(misses) != 1 {
		t.Errorf("Reverse direction must miss, got hits=%v misses=%v", hits, misses)
	}
}

func TestParallelCacheLookup_NilCache(t *testing.T) {
	texts := []string{"Hello"}
	hits, misses := ParallelCacheLookup(nil, texts, "en", "es")

	if len(hits) != 0 {
		t.Errorf("Expected no hits, got %d", len(hits))
	}
	if len(misses) != 1 {
		t.Errorf("Expected all texts as misses, got %d", len(misses))
	}
}

func TestParallelCacheLookup_RunsConcurrently(t *testing.T) {
	cache := newSlowCache(20 * time.Millisecond)
	texts := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10"}

	start := time.Now()
	_, misses := ParallelCacheLookup(cache, texts, "en", "es")
	elapsed := time.Since(start)

	if len(misses) != len(texts) {
		t.Errorf("Expected %d misses, got %d", len(texts), len(misses))
	}
	if atomic.LoadInt64(&cache.lookups) != int64(len(texts)) {
		t.Errorf("Expected %d lookups, got %d", len(texts), cache.lookups)
	}
	// Sequential would take 200ms
	if elapsed > 150*time.Millisecond {
		t.Errorf("Parallel lookup took too long: %v", elapsed)
	}
}

func TestParallelCacheLookup_ManyTexts(t *testing.T) {
	cache := newSlowCache(0)
	var texts []string
	for i := 0; i < 100; i++ {
		text := string(rune('A'+i%26)) + string(rune('a'+i/26))
		texts = append(texts, text)
		if i%2 == 0 {
			cache.Set(CacheKey(HashText(text), "en", "es"), "t")
		}
	}

	hits, misses := ParallelCacheLookup(cache, texts, "en", "es")
	if len(hits) != 50 || len(misses) != 50 {
		t.Errorf("Expected 50 hits and 50 misses, got %d and %d", len(hits), len(misses))
	}
	if misses[0] != texts[1] {
		t.Errorf("Misses should keep input order, got %q first", misses[0])
	}
}
