package pagelang

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrUltraEnder/pagelang/protect"
)

// Batching defaults, sized for the Google v2 payload limits.
const (
	DefaultBatchSize  = 15
	DefaultBatchDelay = 100 * time.Millisecond
)

// Client turns lists of page strings into a TranslationMap.
type Client struct {
	provider          Provider
	filter            *protect.Filter
	cache             TranslationCache
	batchSize         int
	batchDelay        time.Duration
	parallelThreshold int
	context           string
	glossary          map[string]string
	style             TranslationStyle
	logger            *slog.Logger
}

// Stats describes one Translate call.
type Stats struct {
	Requested  int // Unique, eligible strings
	Skipped    int // Strings left out by the filter
	Cached     int // Served from the cache
	Translated int // Sent to the provider
	Batches    int // Provider calls made
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithFilter sets the protected-term filter.
func WithFilter(f *protect.Filter) ClientOption {
	return func(c *Client) {
		c.filter = f
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithBatchSize sets the number of strings per provider call.
func WithBatchSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithBatchDelay sets the pause between two provider calls.
func WithBatchDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.batchDelay = d
		}
	}
}

// WithParallelThreshold sets the minimum number of strings for parallel cache lookups.
func WithParallelThreshold(n int) ClientOption {
	return func(c *Client) {
		c.parallelThreshold = n
	}
}

// WithContext sets the global translation context.
func WithContext(ctx string) ClientOption {
	return func(c *Client) {
		c.context = ctx
	}
}

// WithGlossary sets preferred translations for specific phrases.
func WithGlossary(glossary map[string]string) ClientOption {
	return func(c *Client) {
		c.glossary = glossary
	}
}

// WithStyle sets the translation style/register.
func WithStyle(style TranslationStyle) ClientOption {
	return func(c *Client) {
		c.style = style
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client that sends misses to provider.
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider:          provider,
		filter:            protect.Default(),
		batchSize:         DefaultBatchSize,
		batchDelay:        DefaultBatchDelay,
		parallelThreshold: 5,
		style:             StyleNeutral,
		logger:            discardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Filter returns the protected-term filter.
func (c *Client) Filter() *protect.Filter {
	return c.filter
}

// Translate maps every eligible string of texts from source to target.
//
// Strings are trimmed and deduplicated; skipped strings are absent from the
// result. Batches run one after another. If any batch fails the error is
// returned as is and nothing from earlier batches is returned or cached.
func (c *Client) Translate(ctx context.Context, texts []string, source, target string) (TranslationMap, error) {
	tm, _, err := c.TranslateWithStats(ctx, texts, source, target)
	return tm, err
}

// TranslateWithStats is Translate that also reports what the call did.
func (c *Client) TranslateWithStats(ctx context.Context, texts []string, source, target string) (TranslationMap, Stats, error) {
	var stats Stats
	result := make(TranslationMap)

	if SameLanguage(source, target) {
		return result, stats, nil
	}

	var pending []string
	seen := make(map[string]bool)
	for _, raw := range texts {
		text := strings.TrimSpace(raw)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		if c.filter.Skip(text) {
			stats.Skipped++
			continue
		}
		pending = append(pending, text)
	}
	stats.Requested = len(pending)

	if len(pending) == 0 {
		return result, stats, nil
	}

	hits, misses := c.lookup(pending, source, target)
	for src, dst := range hits {
		result[src] = dst
	}
	stats.Cached = len(hits)

	if len(misses) == 0 {
		return result, stats, nil
	}

	if c.provider == nil {
		return nil, stats, &ConfigurationError{Message: "no translation provider configured"}
	}

	masked := make([]protect.Masked, len(misses))
	for i, text := range misses {
		masked[i] = c.filter.Mask(text)
	}

	fresh := make(TranslationMap, len(misses))
	for start := 0; start < len(misses); start += c.batchSize {
		if start > 0 {
			if err := c.pause(ctx); err != nil {
				return nil, stats, err
			}
		}

		end := start + c.batchSize
		if end > len(misses) {
			end = len(misses)
		}

		batch := make([]string, end-start)
		for i := range batch {
			batch[i] = masked[start+i].Text
		}

		stats.Batches++
		out, err := c.provider.Translate(ctx, TranslateRequest{
			Texts:         batch,
			SourceLang:    source,
			TargetLang:    target,
			ExcludedTerms: c.filter.Terms(),
			Context:       c.context,
			Glossary:      c.glossary,
			Style:         c.style,
		})
		if err != nil {
			c.logger.Warn("translation batch failed, discarding partial results",
				"batch", stats.Batches, "size", len(batch), "error", err)
			return nil, stats, err
		}
		if len(out) != len(batch) {
			return nil, stats, &RemoteServiceError{
				Message: "malformed translation payload",
				Cause:   &CountMismatchError{Expected: len(batch), Got: len(out)},
			}
		}

		for i, translated := range out {
			fresh[misses[start+i]] = masked[start+i].Restore(translated)
		}
		c.logger.Debug("translation batch done", "batch", stats.Batches, "size", len(batch))
	}

	// Document order decides which source owns a shared reverse entry.
	for _, src := range misses {
		dst := fresh[src]
		result[src] = dst
		c.remember(src, dst, source, target)
	}
	stats.Translated = len(fresh)

	return result, stats, nil
}

// Detect forwards a language sample to the provider.
func (c *Client) Detect(ctx context.Context, samples []string) ([]Detection, error) {
	if c.provider == nil {
		return nil, &ConfigurationError{Message: "no translation provider configured"}
	}
	return c.provider.Detect(ctx, samples)
}

// lookup splits texts into cache hits and misses, keeping miss order.
func (c *Client) lookup(texts []string, source, target string) (map[string]string, []string) {
	if c.cache == nil {
		return map[string]string{}, texts
	}
	if len(texts) >= c.parallelThreshold && c.parallelThreshold > 0 {
		return ParallelCacheLookup(c.cache, texts, source, target)
	}

	hits := make(map[string]string)
	var misses []string
	for _, text := range texts {
		if cached, ok := c.cache.Get(CacheKey(HashText(text), source, target)); ok {
			hits[text] = cached
			continue
		}
		misses = append(misses, text)
	}
	return hits, misses
}

// remember caches a translation and, unless already known, its reverse so
// that switching back needs no remote call. A reverse entry maps a
// translation to the first source seen for it: when several sources share
// one translation, switching back yields that first source for all of them.
func (c *Client) remember(src, dst, source, target string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(CacheKey(HashText(src), source, target), dst); err != nil {
		c.logger.Debug("cache set failed", "error", err)
		return
	}

	reverseKey := CacheKey(HashText(dst), target, source)
	if _, ok := c.cache.Get(reverseKey); ok {
		return
	}
	if err := c.cache.Set(reverseKey, src); err != nil {
		c.logger.Debug("cache set failed", "error", err)
	}
}

func (c *Client) pause(ctx context.Context) error {
	if c.batchDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.batchDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
