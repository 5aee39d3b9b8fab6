package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points Load at files that do not exist so that the developer's
// own .env or pagelang.yaml never leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	prev := EnvFiles
	EnvFiles = []string{filepath.Join(dir, ".env.local"), filepath.Join(dir, ".env")}
	t.Cleanup(func() { EnvFiles = prev })

	t.Setenv("CONFIG_PATH", "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const validYAML = `
provider:
  name: "openai"
  openai_model: "gpt-4o"
  retries: 2

translation:
  source_lang: "en"
  target_lang: "fr"
  batch_size: 10
  batch_delay: "250ms"
  protected_terms: "Unity, Go ,, Redis"
  ignore_tags: "aside, FIGCAPTION,"

state:
  backend: "redis"
  ttl: "24h"

cache:
  backend: "redis"
  ttl: 600

redis:
  url: "redis://cache:6379/1"

server:
  port: 9090
  max_sessions: 50

log:
  level: "debug"
  format: "json"
`

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider.Name != "google" {
		t.Errorf("provider.name = %q, want google", cfg.Provider.Name)
	}
	if cfg.Provider.Retries != 0 {
		t.Errorf("provider.retries = %d, want 0", cfg.Provider.Retries)
	}
	if cfg.Translation.SourceLang != "en" || cfg.Translation.TargetLang != "es" {
		t.Errorf("languages = %q/%q, want en/es", cfg.Translation.SourceLang, cfg.Translation.TargetLang)
	}
	if cfg.Translation.BatchSize != 15 {
		t.Errorf("translation.batch_size = %d, want 15", cfg.Translation.BatchSize)
	}
	if cfg.Translation.BatchDelay != 100*time.Millisecond {
		t.Errorf("translation.batch_delay = %v, want 100ms", cfg.Translation.BatchDelay)
	}
	if cfg.Translation.DetectionThreshold != 0.7 || cfg.Translation.SampleSize != 5 {
		t.Errorf("detection = %v/%d, want 0.7/5", cfg.Translation.DetectionThreshold, cfg.Translation.SampleSize)
	}
	if cfg.State.Backend != "file" || cfg.State.FilePath != "portfolio-language.json" {
		t.Errorf("state = %+v", cfg.State)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 86400 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("server addr = %q", cfg.Server.Addr())
	}
	if cfg.Translation.ProtectedTerms() != nil {
		t.Errorf("expected no custom protected terms, got %v", cfg.Translation.ProtectedTerms())
	}
	if cfg.Translation.IgnoreTags() != nil {
		t.Errorf("expected no extra ignored tags, got %v", cfg.Translation.IgnoreTags())
	}
	if cfg.Server.MaxSessions != 10000 {
		t.Errorf("server.max_sessions = %d, want 10000", cfg.Server.MaxSessions)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "pagelang.yaml")
	writeFile(t, path, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider.Name != "openai" || cfg.Provider.OpenAIModel != "gpt-4o" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Provider.Retries != 2 {
		t.Errorf("provider.retries = %d, want 2", cfg.Provider.Retries)
	}
	if cfg.Translation.TargetLang != "fr" || cfg.Translation.BatchSize != 10 {
		t.Errorf("translation = %+v", cfg.Translation)
	}
	if cfg.Translation.BatchDelay != 250*time.Millisecond {
		t.Errorf("translation.batch_delay = %v, want 250ms", cfg.Translation.BatchDelay)
	}
	terms := cfg.Translation.ProtectedTerms()
	if strings.Join(terms, "|") != "Unity|Go|Redis" {
		t.Errorf("protected terms = %v", terms)
	}
	if cfg.State.Backend != "redis" || cfg.State.TTL != 24*time.Hour {
		t.Errorf("state = %+v", cfg.State)
	}
	if cfg.Redis.URL != "redis://cache:6379/1" {
		t.Errorf("redis.url = %q", cfg.Redis.URL)
	}
	if cfg.Server.Port != 9090 || cfg.Server.MaxSessions != 50 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if tags := cfg.Translation.IgnoreTags(); strings.Join(tags, "|") != "aside|figcaption" {
		t.Errorf("ignore tags = %v", tags)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "pagelang.yaml")
	writeFile(t, path, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PAGELANG_TARGET_LANG", "de")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Translation.TargetLang != "de" {
		t.Errorf("translation.target_lang = %q, want de", cfg.Translation.TargetLang)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070", cfg.Server.Port)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	t.Chdir(dir)

	const key = "GOOGLE_TRANSLATE_API_KEY"
	t.Cleanup(func() { os.Unsetenv(key) })
	os.Unsetenv(key)

	writeFile(t, filepath.Join(dir, ".env.local"), key+"=from-local\n")
	writeFile(t, filepath.Join(dir, ".env"), key+"=from-env\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.GoogleAPIKey != "from-local" {
		t.Errorf("google api key = %q, want from-local", cfg.Provider.GoogleAPIKey)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing CONFIG_PATH file")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	dir := isolate(t)
	t.Chdir(dir)
	t.Setenv("PAGELANG_STATE_BACKEND", "postgres")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "state.backend") {
		t.Fatalf("expected state.backend error, got %v", err)
	}
}

func validConfig() Config {
	return Config{
		Provider: ProviderConfig{Name: "google", RatePerMinute: 60},
		Translation: TranslationConfig{
			SourceLang:         "en",
			TargetLang:         "es",
			BatchSize:          15,
			Style:              "neutral",
			DetectionThreshold: 0.7,
			SampleSize:         5,
		},
		State:  StateConfig{Backend: "memory"},
		Cache:  CacheConfig{Backend: "memory"},
		Server: ServerConfig{Port: 8080, MaxBodyBytes: 1024, MaxSessions: 100},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"provider case", func(c *Config) { c.Provider.Name = " Mock " }, ""},
		{"unknown provider", func(c *Config) { c.Provider.Name = "deepl" }, "provider.name"},
		{"negative retries", func(c *Config) { c.Provider.Retries = -1 }, "provider.retries"},
		{"same languages", func(c *Config) { c.Translation.TargetLang = "EN" }, "must differ"},
		{"zero batch", func(c *Config) { c.Translation.BatchSize = 0 }, "batch_size"},
		{"threshold", func(c *Config) { c.Translation.DetectionThreshold = 1.5 }, "detection_threshold"},
		{"style", func(c *Config) { c.Translation.Style = "pirate" }, "style"},
		{"file without path", func(c *Config) { c.State.Backend = "file" }, "state.file_path"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "disk" }, "cache.backend"},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }, "redis.url"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"no sessions", func(c *Config) { c.Server.MaxSessions = 0 }, "server.max_sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
