// Package cache stores TranslationMap entries between page passes, keyed by
// pagelang.CacheKey. Entries survive a page toggle so that switching back to
// a language already seen needs no remote call.
package cache

import (
	"context"

	"github.com/MrUltraEnder/pagelang"
)

// TranslationCache is an alias to the main package interface.
type TranslationCache = pagelang.TranslationCache

// Enumerable is a cache whose live entries can be listed, which is what
// export needs.
type Enumerable interface {
	TranslationCache
	Entries(ctx context.Context) (map[string]string, error)
}
