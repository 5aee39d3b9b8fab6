package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
//
// Missing provider credentials are not an error: the server still starts
// and reports the misconfiguration on every translation request.
func (c *Config) Validate() error {
	c.normalize()

	switch c.Provider.Name {
	case "google", "openai", "mock":
	default:
		return fmt.Errorf("provider.name must be google, openai or mock (got %q)", c.Provider.Name)
	}
	if c.Provider.Retries < 0 {
		return fmt.Errorf("provider.retries must be >= 0 (got %d)", c.Provider.Retries)
	}
	if c.Provider.RatePerMinute < 0 {
		return fmt.Errorf("provider.rate_per_minute must be >= 0 (got %d)", c.Provider.RatePerMinute)
	}

	if err := c.Translation.validate(); err != nil {
		return fmt.Errorf("translation: %w", err)
	}

	switch c.State.Backend {
	case "memory", "redis":
	case "file":
		if c.State.FilePath == "" {
			return fmt.Errorf("state.file_path is required for the file backend")
		}
	default:
		return fmt.Errorf("state.backend must be memory, file or redis (got %q)", c.State.Backend)
	}

	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be none, memory or redis (got %q)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0 (got %d)", c.Cache.TTL)
	}

	if c.usesRedis() && c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required when a redis backend is selected")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be > 0 (got %d)", c.Server.MaxSessions)
	}

	return nil
}

func (c *Config) normalize() {
	c.Provider.Name = strings.ToLower(strings.TrimSpace(c.Provider.Name))
	c.State.Backend = strings.ToLower(strings.TrimSpace(c.State.Backend))
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Translation.Style = strings.ToLower(strings.TrimSpace(c.Translation.Style))
}

func (c *Config) usesRedis() bool {
	return c.State.Backend == "redis" || c.Cache.Backend == "redis"
}

func (t *TranslationConfig) validate() error {
	if t.SourceLang == "" || t.TargetLang == "" {
		return fmt.Errorf("source_lang and target_lang are required")
	}
	if strings.EqualFold(t.SourceLang, t.TargetLang) {
		return fmt.Errorf("source_lang and target_lang must differ (both %q)", t.SourceLang)
	}
	if t.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", t.BatchSize)
	}
	if t.BatchDelay < 0 {
		return fmt.Errorf("batch_delay must be >= 0 (got %v)", t.BatchDelay)
	}
	if t.DetectionThreshold <= 0 || t.DetectionThreshold > 1 {
		return fmt.Errorf("detection_threshold must be in (0, 1] (got %v)", t.DetectionThreshold)
	}
	if t.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be > 0 (got %d)", t.SampleSize)
	}
	switch t.Style {
	case "formal", "neutral", "casual", "marketing", "technical":
	default:
		return fmt.Errorf("style %q is not supported", t.Style)
	}
	return nil
}
