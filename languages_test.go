package pagelang

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"es_ES", "Spanish (Spain)"},
		{"es-MX", "Spanish (Mexico)"},
		{"es", "Spanish (Spain)"}, // short code expansion
		{"en", "English (United States)"},
		{"unknown", "unknown"}, // fallback
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestBaseLang(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"es", "es"},
		{"es_ES", "es"},
		{"es-MX", "es"},
		{"EN", "en"},
		{"en_US", "en"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := BaseLang(tt.code); got != tt.expected {
				t.Errorf("BaseLang(%q) = %q, want %q", tt.code, got, tt.expected)
			}
		})
	}
}

func TestSameLanguage(t *testing.T) {
	if !SameLanguage("es", "es_ES") {
		t.Error("es and es_ES should be the same language")
	}
	if SameLanguage("en", "es") {
		t.Error("en and es should differ")
	}
}

func TestGetDirection(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ar_SA", "rtl"},
		{"he_IL", "rtl"},
		{"ar", "rtl"}, // short code
		{"es_ES", "ltr"},
		{"es", "ltr"},
		{"en_US", "ltr"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetDirection(tt.code)
			if result != tt.expected {
				t.Errorf("GetDirection(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestLocaleHelpers(t *testing.T) {
	if NormalizeLocale("es-ES") != "es_ES" {
		t.Error("NormalizeLocale should convert dashes")
	}
	if ToHTMLLang("es_ES") != "es-ES" {
		t.Error("ToHTMLLang should convert underscores")
	}
	if GetLocaleClarification("es-ES") == "" {
		t.Error("es_ES should have a locale clarification")
	}
	if GetStyleDescription("unknown") != GetStyleDescription(StyleNeutral) {
		t.Error("unknown style should fall back to neutral")
	}
}
