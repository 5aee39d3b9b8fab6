package notify

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrUltraEnder/pagelang"
)

func newLocalizer(t *testing.T) *Localizer {
	t.Helper()
	l, err := NewLocalizer("en")
	require.NoError(t, err)
	return l
}

func TestLocalizer_Success(t *testing.T) {
	l := newLocalizer(t)

	es := l.Render(pagelang.Notification{Kind: pagelang.NotifySuccess, TargetLang: "es"})
	assert.Equal(t, "Traducción completada", es.Title)
	assert.Equal(t, "La página ha sido traducida al español.", es.Description)
	assert.False(t, es.Destructive)

	en := l.Render(pagelang.Notification{Kind: pagelang.NotifySuccess, TargetLang: "en_US"})
	assert.Equal(t, "Translation completed", en.Title)
	assert.Equal(t, "Page has been translated to English.", en.Description)
}

func TestLocalizer_Normalized(t *testing.T) {
	msg := newLocalizer(t).Render(pagelang.Notification{Kind: pagelang.NotifyNormalized, TargetLang: "en"})

	assert.Equal(t, "Content normalized", msg.Title)
	assert.Equal(t, "Page content has been standardized to English.", msg.Description)
}

func TestLocalizer_Errors(t *testing.T) {
	l := newLocalizer(t)

	cfg := l.Render(pagelang.Notification{
		Kind:       pagelang.NotifyConfigError,
		TargetLang: "es",
		Err:        &pagelang.ConfigurationError{Message: "missing key"},
	})
	assert.Equal(t, "API Key requerida", cfg.Title)
	assert.True(t, cfg.Destructive)
	assert.Contains(t, cfg.Detail, "missing key")

	remote := l.Render(pagelang.Notification{
		Kind:       pagelang.NotifyRemoteError,
		TargetLang: "es",
		Err:        errors.New("boom"),
	})
	assert.Equal(t, "Error de traducción", remote.Title)
	assert.Equal(t, "boom", remote.Detail)
}

func TestLocalizer_UnknownLanguageFallsBack(t *testing.T) {
	msg := newLocalizer(t).Render(pagelang.Notification{Kind: pagelang.NotifySuccess, TargetLang: "fr"})

	assert.Equal(t, "Translation completed", msg.Title)
	assert.Equal(t, "Page has been translated to French (France).", msg.Description)
}

func TestRecorderAndMulti(t *testing.T) {
	l := newLocalizer(t)
	a, b := NewRecorder(l), NewRecorder(l)

	_, ok := a.Last()
	assert.False(t, ok)

	Multi{a, b}.Notify(pagelang.Notification{Kind: pagelang.NotifySuccess, TargetLang: "es"})

	assert.Len(t, a.Messages(), 1)
	assert.Len(t, b.Messages(), 1)
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, pagelang.NotifySuccess, last.Kind)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewLogNotifier(newLocalizer(t), logger).Notify(pagelang.Notification{
		Kind:       pagelang.NotifyRemoteError,
		TargetLang: "en",
		Err:        errors.New("status 500"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "Translation error")
	assert.Contains(t, out, "status 500")
}
