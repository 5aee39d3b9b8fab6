package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrUltraEnder/pagelang"
)

func TestFileStore_Contract(t *testing.T) {
	runStoreContract(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "lang.json")))
}

func TestFileStore_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(context.Background(), pagelang.TargetState("es")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"language": "es", "translated": true}`, string(data))
}

func TestFileStore_SetSameStateIsNoop(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lang.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(ctx, pagelang.TargetState("es")))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	require.NoError(t, store.Set(ctx, pagelang.TargetState("es")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "file should not be rewritten")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := NewFileStore(path).Get(context.Background())
	assert.Error(t, err)

	// A corrupt file is overwritten by the next Set.
	require.NoError(t, NewFileStore(path).Set(context.Background(), pagelang.SourceState("en")))
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "lang.json"))

	require.NoError(t, store.Set(context.Background(), pagelang.TargetState("es")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, StorageKey+".json", NewFileStore("").Path())
}
