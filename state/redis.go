package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrUltraEnder/pagelang"
)

// DefaultRedisPrefix namespaces per-session state keys.
const DefaultRedisPrefix = "pagelang:lang:"

// ErrEmptySession is returned by NewRedisStore for an empty session id.
var ErrEmptySession = errors.New("session id cannot be empty")

// RedisStore keeps one session's state in a Redis hash with the fields
// "language" and "translated".
type RedisStore struct {
	client  redis.UniversalClient
	session string
	prefix  string
	ttl     time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires the session state after ttl of inactivity.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a store for one session.
func NewRedisStore(client redis.UniversalClient, session string, opts ...RedisOption) (*RedisStore, error) {
	if session == "" {
		return nil, ErrEmptySession
	}

	s := &RedisStore{
		client:  client,
		session: session,
		prefix:  DefaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Key returns the Redis key of the session.
func (s *RedisStore) Key() string {
	return s.prefix + s.session
}

// Get reads the session hash.
func (s *RedisStore) Get(ctx context.Context) (pagelang.LanguageState, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.Key()).Result()
	if err != nil {
		return pagelang.LanguageState{}, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	lang := fields["language"]
	if lang == "" {
		return pagelang.LanguageState{}, false, nil
	}

	translated, _ := strconv.ParseBool(fields["translated"])
	return pagelang.LanguageState{Lang: lang, Translated: translated}, true, nil
}

// Set writes the session hash unless it already holds st. The TTL is
// refreshed either way.
func (s *RedisStore) Set(ctx context.Context, st pagelang.LanguageState) error {
	if err := validate(st); err != nil {
		return err
	}

	cur, ok, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if ok && cur == st {
		if s.ttl > 0 {
			return s.client.Expire(ctx, s.Key(), s.ttl).Err()
		}
		return nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.Key(), "language", st.Lang, "translated", strconv.FormatBool(st.Translated))
		if s.ttl > 0 {
			pipe.Expire(ctx, s.Key(), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Clear deletes the session hash.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.Key()).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
