package state

import (
	"context"
	"sync"

	"github.com/MrUltraEnder/pagelang"
)

// MemoryStore keeps the state in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	state  pagelang.LanguageState
	set    bool
	writes int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored state.
func (s *MemoryStore) Get(_ context.Context) (pagelang.LanguageState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.set, nil
}

// Set stores st unless it is already stored.
func (s *MemoryStore) Set(_ context.Context, st pagelang.LanguageState) error {
	if err := validate(st); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set && s.state == st {
		return nil
	}
	s.state = st
	s.set = true
	s.writes++
	return nil
}

// Clear forgets the stored state.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = pagelang.LanguageState{}
	s.set = false
	return nil
}

// Writes returns how many effective writes Set performed.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

var _ Store = (*MemoryStore)(nil)
