package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/cache"
	"github.com/MrUltraEnder/pagelang/processor"
	"github.com/MrUltraEnder/pagelang/protect"
	"github.com/MrUltraEnder/pagelang/provider"
	"github.com/MrUltraEnder/pagelang/state"
)

// newProvider builds the configured provider. name overrides the config.
func (a *app) newProvider(name string) (pagelang.Provider, error) {
	pc := a.cfg.Provider
	if name == "" {
		name = pc.Name
	}

	switch name {
	case "google":
		return provider.NewGoogleProvider(provider.GoogleConfig{
			APIKey:     pc.GoogleAPIKey,
			BaseURL:    pc.GoogleBaseURL,
			HTTPClient: &http.Client{Timeout: pc.Timeout},
		}), nil
	case "openai":
		return provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  pc.OpenAIAPIKey,
			Model:   pc.OpenAIModel,
			BaseURL: pc.OpenAIBaseURL,
		}), nil
	case "mock":
		return provider.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want google, openai or mock)", name)
	}
}

// withRetries wraps p in a RetryableProvider when retries > 0. Retrying is
// always opt-in.
func (a *app) withRetries(p pagelang.Provider, retries int) pagelang.Provider {
	if retries <= 0 {
		return p
	}
	cfg := pagelang.DefaultRetryConfig()
	cfg.MaxRetries = retries
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		a.logger.Warn("provider call failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	}
	return pagelang.NewRetryableProvider(p, cfg)
}

func (a *app) rateConfig() pagelang.RateLimitConfig {
	return pagelang.RateLimitConfig{
		RequestsPerMinute: a.cfg.Provider.RatePerMinute,
		BurstSize:         a.cfg.Provider.RateBurst,
	}
}

func (a *app) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}

	opts, err := redis.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	a.redis = client
	return client, nil
}

// newCache returns the configured cache, or nil for the "none" backend.
func (a *app) newCache(ctx context.Context) (cache.Enumerable, error) {
	cc := a.cfg.Cache
	switch cc.Backend {
	case "none":
		return nil, nil
	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisCacheFromClient(client, cc.TTL, cc.KeyPrefix,
			cache.WithRedisLogger(a.logger),
			cache.WithOpTimeout(a.cfg.Redis.OpTimeout),
		), nil
	default:
		return cache.NewInMemoryCache(cc.TTL), nil
	}
}

// newStore returns the configured state store. session only matters for
// the redis backend.
func (a *app) newStore(ctx context.Context, session string) (pagelang.StateStore, error) {
	sc := a.cfg.State
	switch sc.Backend {
	case "memory":
		return state.NewMemoryStore(), nil
	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return state.NewRedisStore(client, session, state.WithTTL(sc.TTL))
	default:
		return state.NewFileStore(sc.FilePath), nil
	}
}

// newClient builds a Client from the translation settings. extraTerms are
// protected on top of the configured list.
func (a *app) newClient(p pagelang.Provider, c pagelang.TranslationCache, extraTerms ...string) *pagelang.Client {
	tc := a.cfg.Translation

	opts := []pagelang.ClientOption{
		pagelang.WithBatchSize(tc.BatchSize),
		pagelang.WithBatchDelay(tc.BatchDelay),
		pagelang.WithStyle(pagelang.TranslationStyle(tc.Style)),
		pagelang.WithLogger(a.logger),
	}
	if c != nil {
		opts = append(opts, pagelang.WithCache(c))
	}
	if tc.Context != "" {
		opts = append(opts, pagelang.WithContext(tc.Context))
	}

	terms := tc.ProtectedTerms()
	if terms == nil && len(extraTerms) > 0 {
		terms = protect.Default().Terms()
	}
	if terms = append(terms, extraTerms...); len(terms) > 0 {
		opts = append(opts, pagelang.WithFilter(protect.New(terms)))
	}

	return pagelang.NewClient(p, opts...)
}

// newProcessor returns an HTML processor that skips the built-in tags plus
// the configured ones and extraTags.
func (a *app) newProcessor(extraTags ...string) *processor.HTMLProcessor {
	extra := append(a.cfg.Translation.IgnoreTags(), extraTags...)
	if len(extra) == 0 {
		return processor.NewHTMLProcessor()
	}
	tags := make([]string, 0, len(pagelang.IgnoredTags)+len(extra))
	for tag := range pagelang.IgnoredTags {
		tags = append(tags, tag)
	}
	return processor.NewHTMLProcessorWithIgnoredTags(append(tags, extra...))
}

func (a *app) pageOptions(from, to string) []pagelang.PageOption {
	tc := a.cfg.Translation
	if from == "" {
		from = tc.SourceLang
	}
	if to == "" {
		to = tc.TargetLang
	}
	return []pagelang.PageOption{
		pagelang.WithLanguages(from, to),
		pagelang.WithDetectionThreshold(tc.DetectionThreshold),
		pagelang.WithSampleSize(tc.SampleSize),
		pagelang.WithPageLogger(a.logger),
	}
}
