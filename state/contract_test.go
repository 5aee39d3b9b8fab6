package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrUltraEnder/pagelang"
)

// runStoreContract checks the behavior every Store shares.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		_, ok, err := store.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, pagelang.TargetState("es")))

		got, ok, err := store.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "es", got.Lang)
		assert.True(t, got.Translated)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, pagelang.SourceState("en")))

		got, ok, err := store.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, pagelang.SourceState("en"), got)
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.ErrorIs(t, store.Set(ctx, pagelang.LanguageState{Translated: true}), ErrInvalidState)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		_, ok, err := store.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, store.Clear(ctx), "Clear on an empty store")
	})
}
