package pagelang

import (
	"strings"

	"golang.org/x/text/language"
)

// LanguageNames maps locale codes to human-readable names for AI prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"de_DE": "German (Germany)",
	"fr_FR": "French (France)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"zh_CN": "Chinese (Simplified)",
	"ar_SA": "Arabic (Saudi Arabia)",
	"he_IL": "Hebrew (Israel)",
}

// ShortCodeToLocale maps short language codes to full locale codes.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"es": "es_ES",
	"de": "de_DE",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"pt": "pt_BR",
	"zh": "zh_CN",
	"ar": "ar_SA",
	"he": "he_IL",
}

// localeClarifications disambiguates regional variants in AI prompts.
var localeClarifications = map[string]string{
	"es_ES": "Use Castilian Spanish as spoken in Spain (vosotros, Spanish vocabulary).",
	"es_MX": "Use Latin American Spanish as spoken in Mexico (ustedes, Mexican vocabulary).",
	"pt_BR": "Use Brazilian Portuguese.",
	"pt_PT": "Use European Portuguese.",
	"en_GB": "Use British spelling and vocabulary.",
	"nb_NO": "Use Norwegian Bokmål, not Nynorsk.",
}

// styleDescriptions describes each TranslationStyle for AI prompts.
var styleDescriptions = map[TranslationStyle]string{
	StyleFormal:    "Use formal, professional language suitable for official documents.",
	StyleNeutral:   "Use a neutral, professional tone suitable for general content.",
	StyleCasual:    "Use casual, conversational language suitable for blogs and social media.",
	StyleMarketing: "Use persuasive, engaging language suitable for promotional content.",
	StyleTechnical: "Use precise, technical language suitable for documentation.",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	code := NormalizeLocale(langCode)
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	// Try expanding short code
	if locale, ok := ShortCodeToLocale[strings.ToLower(code)]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// GetLocaleClarification returns a regional hint for AI prompts, or "".
func GetLocaleClarification(langCode string) string {
	return localeClarifications[NormalizeLocale(langCode)]
}

// GetStyleDescription returns the prompt description of a style,
// defaulting to the neutral register.
func GetStyleDescription(style TranslationStyle) string {
	if desc, ok := styleDescriptions[style]; ok {
		return desc
	}
	return styleDescriptions[StyleNeutral]
}

// BaseLang extracts the lower-case base language ("es" from "es_ES" or "es-MX").
func BaseLang(langCode string) string {
	if langCode == "" {
		return ""
	}
	tag, err := language.Parse(ToHTMLLang(langCode))
	if err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	return strings.ToLower(strings.Split(NormalizeLocale(langCode), "_")[0])
}

// SameLanguage reports whether two codes share a base language.
func SameLanguage(a, b string) bool {
	return BaseLang(a) == BaseLang(b)
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	if RTLLanguages[BaseLang(langCode)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// NormalizeLocale converts a language code to the standard format (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// ToHTMLLang converts a locale code to HTML lang attribute format (e.g., "es_ES" → "es-ES").
func ToHTMLLang(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}
