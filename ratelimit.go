package pagelang

import (
	"context"
	"math"
	"sync"
	"time"
)

// RateLimitConfig configures a RateLimiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained rate; 60 when unset
	BurstSize         int // Bucket capacity; RequestsPerMinute when unset
}

// RateLimiter is a token bucket shared by every caller of a provider or an
// HTTP route. The bucket starts full.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	perSec   float64
	last     time.Time
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}
	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	l := &RateLimiter{
		tokens:   burst,
		capacity: burst,
		perSec:   rpm / 60,
		now:      time.Now,
	}
	l.last = l.now()
	return l
}

// Reserve takes a token when one is available. Otherwise it returns false
// and how long until the next token.
func (r *RateLimiter) Reserve() (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return true, 0
	}

	missing := 1 - r.tokens
	return false, time.Duration(missing / r.perSec * float64(time.Second))
}

// TryAcquire takes a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	ok, _ := r.Reserve()
	return ok
}

// Wait blocks until a token is taken or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		ok, delay := r.Reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryAfter returns the whole number of seconds a rejected caller should
// wait, at least 1.
func RetryAfter(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}

// Available returns the tokens currently in the bucket.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

func (r *RateLimiter) refill() {
	now := r.now()
	r.tokens = math.Min(r.capacity, r.tokens+now.Sub(r.last).Seconds()*r.perSec)
	r.last = now
}

// RateLimitedProvider makes every Translate and Detect call wait for a
// token first.
type RateLimitedProvider struct {
	provider Provider
	limiter  *RateLimiter
}

// NewRateLimitedProvider wraps provider with its own RateLimiter.
func NewRateLimitedProvider(provider Provider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{provider: provider, limiter: NewRateLimiter(cfg)}
}

// Translate implements Provider.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.provider.Translate(ctx, req)
}

// Detect implements Provider.
func (p *RateLimitedProvider) Detect(ctx context.Context, texts []string) ([]Detection, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.provider.Detect(ctx, texts)
}

// Limiter returns the underlying limiter.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}

// wait keeps ctx errors visible to errors.Is so that callers can tell a
// cancelled pass from a remote failure.
func (p *RateLimitedProvider) wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return &RemoteServiceError{Message: "waiting for rate limit", Cause: err}
	}
	return nil
}
