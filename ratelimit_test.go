package pagelang

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock drives a RateLimiter without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClockedLimiter(cfg RateLimitConfig) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := NewRateLimiter(cfg)
	l.now = clock.Now
	l.last = clock.Now()
	return l, clock
}

func TestRateLimiter_Burst(t *testing.T) {
	l, _ := newClockedLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !l.TryAcquire() {
			t.Fatalf("token %d should be available from the burst", i)
		}
	}
	if l.TryAcquire() {
		t.Error("bucket should be empty after the burst")
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	l, clock := newClockedLimiter(RateLimitConfig{})

	if got := l.Available(); got != 60 {
		t.Errorf("default burst should equal the default rate, got %v", got)
	}
	for l.TryAcquire() {
	}
	clock.Advance(time.Second)
	if !l.TryAcquire() {
		t.Error("default rate should refill one token per second")
	}
}

func TestRateLimiter_Reserve(t *testing.T) {
	l, clock := newClockedLimiter(RateLimitConfig{RequestsPerMinute: 30, BurstSize: 1})

	if ok, _ := l.Reserve(); !ok {
		t.Fatal("first reserve should succeed")
	}

	ok, wait := l.Reserve()
	if ok {
		t.Fatal("second reserve should fail")
	}
	if wait != 2*time.Second {
		t.Errorf("30 rpm should need 2s for the next token, got %v", wait)
	}

	clock.Advance(500 * time.Millisecond)
	if _, wait = l.Reserve(); wait != 1500*time.Millisecond {
		t.Errorf("wait should shrink as the bucket refills, got %v", wait)
	}

	clock.Advance(1500 * time.Millisecond)
	if ok, _ = l.Reserve(); !ok {
		t.Error("token should be available after the full interval")
	}
}

func TestRateLimiter_RefillCapped(t *testing.T) {
	l, clock := newClockedLimiter(RateLimitConfig{RequestsPerMinute: 600, BurstSize: 2})

	l.TryAcquire()
	l.TryAcquire()
	clock.Advance(time.Hour)

	if got := l.Available(); got != 2 {
		t.Errorf("refill should stop at the burst size, got %v", got)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{100 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{10 * time.Second, 10},
	}
	for _, tt := range tests {
		if got := RetryAfter(tt.in); got != tt.want {
			t.Errorf("RetryAfter(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 600, BurstSize: 1})
	l.TryAcquire()

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait should block until the next token, returned after %v", elapsed)
	}
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	l.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	l, _ := newClockedLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 10})

	var acquired atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire() {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := acquired.Load(); got != 10 {
		t.Errorf("exactly the burst should be handed out, got %d", got)
	}
}

func TestRateLimitedProvider(t *testing.T) {
	var calls atomic.Int32
	inner := providerFunc(func(_ context.Context, req TranslateRequest) ([]string, error) {
		calls.Add(1)
		return req.Texts, nil
	})

	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 600, BurstSize: 2})
	ctx := context.Background()

	for _, text := range []string{"a", "b"} {
		if _, err := p.Translate(ctx, TranslateRequest{Texts: []string{text}}); err != nil {
			t.Fatalf("Translate(%q) failed: %v", text, err)
		}
	}

	start := time.Now()
	if _, err := p.Detect(ctx, []string{"c"}); err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Detect should share the bucket and wait, returned after %v", elapsed)
	}

	if calls.Load() != 2 {
		t.Errorf("expected 2 Translate calls, got %d", calls.Load())
	}
	if p.Limiter().Available() >= 1 {
		t.Error("bucket should be drained")
	}
}

func TestRateLimitedProvider_ContextCancelled(t *testing.T) {
	inner := providerFunc(func(_ context.Context, req TranslateRequest) ([]string, error) {
		return req.Texts, nil
	})
	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	p.Translate(context.Background(), TranslateRequest{Texts: []string{"a"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Translate(ctx, TranslateRequest{Texts: []string{"b"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation should stay visible through the error, got %v", err)
	}
	if !IsRemoteServiceError(err) {
		t.Errorf("expected RemoteServiceError, got %T", err)
	}
}
