package pagelang

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with leading whitespace",
			input:    "  Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with both whitespace",
			input:    "\n  Hello World  \t",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			// SHA-256 = 64 hex chars
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	hash := "abc123"

	if got := CacheKey(hash, "en", "es"); got != "abc123:en:es" {
		t.Errorf("CacheKey() = %q, want %q", got, "abc123:en:es")
	}

	// Regional codes collapse to the base language
	if got := CacheKey(hash, "en_US", "es-ES"); got != "abc123:en:es" {
		t.Errorf("CacheKey() = %q, want %q", got, "abc123:en:es")
	}

	if CacheKey(hash, "en", "es") == CacheKey(hash, "es", "en") {
		t.Error("CacheKey must be directional")
	}
}
