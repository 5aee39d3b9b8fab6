package server

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/state"
)

// SharedStore serves the same store to every session. It fits a
// single-visitor deployment backed by a state file.
func SharedStore(store pagelang.StateStore) StoreFactory {
	return func(context.Context, string) (pagelang.StateStore, error) {
		return store, nil
	}
}

// Session store limits used when no option overrides them.
const (
	DefaultSessionTTL  = sessionMaxAge
	DefaultMaxSessions = 10000
)

// MemorySessionsOption configures MemorySessions.
type MemorySessionsOption func(*memorySessions)

// WithSessionTTL drops a session's store after it has been idle for ttl.
// Zero or negative keeps idle sessions until the size cap evicts them.
func WithSessionTTL(ttl time.Duration) MemorySessionsOption {
	return func(m *memorySessions) { m.ttl = ttl }
}

// WithMaxSessions caps the number of stores kept. Once full, the least
// recently used session is dropped.
func WithMaxSessions(n int) MemorySessionsOption {
	return func(m *memorySessions) {
		if n > 0 {
			m.max = n
		}
	}
}

// MemorySessions keeps one in-memory store per session. Sessions idle for
// longer than the TTL are forgotten, and the least recently used session
// goes first once the cap is reached.
func MemorySessions(opts ...MemorySessionsOption) StoreFactory {
	return newMemorySessions(opts...).open
}

type sessionEntry struct {
	id       string
	store    *state.MemoryStore
	lastSeen time.Time
}

type memorySessions struct {
	mu    sync.Mutex
	byID  map[string]*list.Element
	order *list.List // front is most recently used
	ttl   time.Duration
	max   int
	now   func() time.Time
}

func newMemorySessions(opts ...MemorySessionsOption) *memorySessions {
	m := &memorySessions{
		byID:  make(map[string]*list.Element),
		order: list.New(),
		ttl:   DefaultSessionTTL,
		max:   DefaultMaxSessions,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *memorySessions) open(_ context.Context, session string) (pagelang.StateStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.expire(now)

	if el, ok := m.byID[session]; ok {
		e := el.Value.(*sessionEntry)
		e.lastSeen = now
		m.order.MoveToFront(el)
		return e.store, nil
	}

	e := &sessionEntry{id: session, store: state.NewMemoryStore(), lastSeen: now}
	m.byID[session] = m.order.PushFront(e)
	for m.order.Len() > m.max {
		m.remove(m.order.Back())
	}
	return e.store, nil
}

// expire drops idle sessions, oldest first.
func (m *memorySessions) expire(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for el := m.order.Back(); el != nil; el = m.order.Back() {
		if now.Sub(el.Value.(*sessionEntry).lastSeen) <= m.ttl {
			return
		}
		m.remove(el)
	}
}

func (m *memorySessions) remove(el *list.Element) {
	e := m.order.Remove(el).(*sessionEntry)
	delete(m.byID, e.id)
}

func (m *memorySessions) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// RedisSessions keeps each session's state in its own Redis hash.
func RedisSessions(client redis.UniversalClient, opts ...state.RedisOption) StoreFactory {
	return func(_ context.Context, session string) (pagelang.StateStore, error) {
		return state.NewRedisStore(client, session, opts...)
	}
}
