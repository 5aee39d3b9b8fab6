// Package config loads pagelang settings from an optional YAML file, dotenv
// files and the environment.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Provider    ProviderConfig    `yaml:"provider"`
	Translation TranslationConfig `yaml:"translation"`
	State       StateConfig       `yaml:"state"`
	Cache       CacheConfig       `yaml:"cache"`
	Redis       RedisConfig       `yaml:"redis"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// ProviderConfig selects and configures the remote translation service.
type ProviderConfig struct {
	Name          string        `yaml:"name"            env:"PAGELANG_PROVIDER"         env-default:"google"`
	GoogleAPIKey  string        `yaml:"google_api_key"  env:"GOOGLE_TRANSLATE_API_KEY"`
	GoogleBaseURL string        `yaml:"google_base_url" env:"GOOGLE_TRANSLATE_BASE_URL"`
	OpenAIAPIKey  string        `yaml:"openai_api_key"  env:"OPENAI_API_KEY"`
	OpenAIModel   string        `yaml:"openai_model"    env:"OPENAI_MODEL"              env-default:"gpt-4o-mini"`
	OpenAIBaseURL string        `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	Timeout       time.Duration `yaml:"timeout"         env:"PAGELANG_PROVIDER_TIMEOUT" env-default:"30s"`
	Retries       int           `yaml:"retries"         env:"PAGELANG_RETRIES"          env-default:"0"`
	RatePerMinute int           `yaml:"rate_per_minute" env:"PAGELANG_RATE_PER_MINUTE"  env-default:"120"`
	RateBurst     int           `yaml:"rate_burst"      env:"PAGELANG_RATE_BURST"       env-default:"20"`
}

// TranslationConfig holds the language pair and batching settings.
type TranslationConfig struct {
	SourceLang         string        `yaml:"source_lang"         env:"PAGELANG_SOURCE_LANG"         env-default:"en"`
	TargetLang         string        `yaml:"target_lang"         env:"PAGELANG_TARGET_LANG"         env-default:"es"`
	BatchSize          int           `yaml:"batch_size"          env:"PAGELANG_BATCH_SIZE"          env-default:"15"`
	BatchDelay         time.Duration `yaml:"batch_delay"         env:"PAGELANG_BATCH_DELAY"         env-default:"100ms"`
	ProtectedTermsRaw  string        `yaml:"protected_terms"     env:"PAGELANG_PROTECTED_TERMS"`
	IgnoreTagsRaw      string        `yaml:"ignore_tags"         env:"PAGELANG_IGNORE_TAGS"`
	Context            string        `yaml:"context"             env:"PAGELANG_CONTEXT"`
	Style              string        `yaml:"style"               env:"PAGELANG_STYLE"               env-default:"neutral"`
	DetectionThreshold float64       `yaml:"detection_threshold" env:"PAGELANG_DETECTION_THRESHOLD" env-default:"0.7"`
	SampleSize         int           `yaml:"sample_size"         env:"PAGELANG_SAMPLE_SIZE"         env-default:"5"`
}

// ProtectedTerms splits the comma-separated term list. Nil means the
// built-in list.
func (t TranslationConfig) ProtectedTerms() []string {
	var terms []string
	for _, term := range strings.Split(t.ProtectedTermsRaw, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// IgnoreTags splits the comma-separated list of extra element names whose
// text is never extracted.
func (t TranslationConfig) IgnoreTags() []string {
	var tags []string
	for _, tag := range strings.Split(t.IgnoreTagsRaw, ",") {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// StateConfig selects where the display language is persisted.
type StateConfig struct {
	Backend  string        `yaml:"backend"   env:"PAGELANG_STATE_BACKEND" env-default:"file"`
	FilePath string        `yaml:"file_path" env:"PAGELANG_STATE_FILE"    env-default:"portfolio-language.json"`
	TTL      time.Duration `yaml:"ttl"       env:"PAGELANG_STATE_TTL"     env-default:"720h"`
}

// CacheConfig selects the translation cache.
type CacheConfig struct {
	Backend   string `yaml:"backend"    env:"PAGELANG_CACHE_BACKEND" env-default:"memory"`
	TTL       int    `yaml:"ttl"        env:"PAGELANG_CACHE_TTL"     env-default:"86400"`
	KeyPrefix string `yaml:"key_prefix" env:"PAGELANG_CACHE_PREFIX"  env-default:"pagelang:tm:"`
}

// RedisConfig is shared by the Redis cache and state backends.
type RedisConfig struct {
	URL       string        `yaml:"url"        env:"REDIS_URL"        env-default:"redis://localhost:6379/0"`
	OpTimeout time.Duration `yaml:"op_timeout" env:"REDIS_OP_TIMEOUT" env-default:"2s"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"2097152"`
	SecureCookies   bool          `yaml:"secure_cookies"   env:"SERVER_SECURE_COOKIES"   env-default:"false"`
	MaxSessions     int           `yaml:"max_sessions"     env:"SERVER_MAX_SESSIONS"     env-default:"10000"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
