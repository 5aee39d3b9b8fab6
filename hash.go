package pagelang

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates the TranslationMap cache key for a text hash and a
// language pair. Entries are directional: "en"→"es" and "es"→"en" never share a key.
func CacheKey(hash, sourceLang, targetLang string) string {
	return hash + ":" + BaseLang(sourceLang) + ":" + BaseLang(targetLang)
}
