package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrUltraEnder/pagelang"
)

// FileStore keeps the state in a small JSON file:
//
//	{"language": "es", "translated": true}
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. If path is empty it defaults
// to StorageKey + ".json" in the working directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = StorageKey + ".json"
	}
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get reads the state file. A missing file means no state.
func (s *FileStore) Get(_ context.Context) (pagelang.LanguageState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) read() (pagelang.LanguageState, bool, error) {
	var st pagelang.LanguageState

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, false, nil
		}
		return st, false, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return pagelang.LanguageState{}, false, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if st.Lang == "" {
		return pagelang.LanguageState{}, false, nil
	}
	return st, true, nil
}

// Set writes st atomically unless the file already holds it.
func (s *FileStore) Set(_ context.Context, st pagelang.LanguageState) error {
	if err := validate(st); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok, err := s.read()
	if err == nil && ok && cur == st {
		return nil
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, "tmp-"+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Clear removes the state file.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
