// Package state persists the display language of a page between loads.
//
// Every Store treats Set with the state it already holds as a no-op: no
// write happens and decorators such as WithMarker see nothing.
package state

import (
	"context"
	"errors"

	"github.com/MrUltraEnder/pagelang"
)

// StorageKey names the persisted language entry.
const StorageKey = "portfolio-language"

// ErrInvalidState is returned when Set is given a state without a language.
var ErrInvalidState = errors.New("language state has no language")

// Store is an alias to the main package interface.
type Store = pagelang.StateStore

// Marker mirrors the state onto something other readers can observe.
type Marker interface {
	MarkTranslated(lang string, on bool)
}

// MarkerFunc adapts a function to Marker.
type MarkerFunc func(lang string, on bool)

// MarkTranslated calls f.
func (f MarkerFunc) MarkTranslated(lang string, on bool) { f(lang, on) }

type markedStore struct {
	Store
	marker Marker
}

// WithMarker returns a Store that mirrors every effective Set and Clear
// onto marker. A Clear marks the page as untranslated without a language.
func WithMarker(store Store, marker Marker) Store {
	return &markedStore{Store: store, marker: marker}
}

func (m *markedStore) Set(ctx context.Context, s pagelang.LanguageState) error {
	cur, ok, err := m.Store.Get(ctx)
	if err != nil {
		return err
	}
	if ok && cur == s {
		return nil
	}
	if err := m.Store.Set(ctx, s); err != nil {
		return err
	}
	m.marker.MarkTranslated(s.Lang, s.Translated)
	return nil
}

func (m *markedStore) Clear(ctx context.Context) error {
	if err := m.Store.Clear(ctx); err != nil {
		return err
	}
	m.marker.MarkTranslated("", false)
	return nil
}

func validate(s pagelang.LanguageState) error {
	if s.Lang == "" {
		return ErrInvalidState
	}
	return nil
}
