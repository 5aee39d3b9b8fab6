package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrUltraEnder/pagelang"
)

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_SetSameStateIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, pagelang.TargetState("es")))
	require.NoError(t, store.Set(ctx, pagelang.TargetState("es")))

	assert.Equal(t, 1, store.Writes())
}

type recordingMarker struct {
	calls []pagelang.LanguageState
}

func (r *recordingMarker) MarkTranslated(lang string, on bool) {
	r.calls = append(r.calls, pagelang.LanguageState{Lang: lang, Translated: on})
}

func TestWithMarker(t *testing.T) {
	ctx := context.Background()
	marker := &recordingMarker{}
	store := WithMarker(NewMemoryStore(), marker)

	require.NoError(t, store.Set(ctx, pagelang.TargetState("es")))
	require.NoError(t, store.Set(ctx, pagelang.TargetState("es")))
	require.NoError(t, store.Set(ctx, pagelang.SourceState("en")))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, []pagelang.LanguageState{
		{Lang: "es", Translated: true},
		{Lang: "en", Translated: false},
		{Lang: "", Translated: false},
	}, marker.calls)
}

func TestWithMarker_FailedSetDoesNotMark(t *testing.T) {
	marker := &recordingMarker{}
	store := WithMarker(NewMemoryStore(), marker)

	err := store.Set(context.Background(), pagelang.LanguageState{})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, marker.calls)
}

func TestMarkerFunc(t *testing.T) {
	var got string
	MarkerFunc(func(lang string, on bool) { got = lang }).MarkTranslated("fr", true)
	assert.Equal(t, "fr", got)
}
