package pagelang

import "golang.org/x/net/html"

// TranslationStyle controls the tone and formality of translations.
type TranslationStyle string

const (
	// StyleFormal uses formal, professional language suitable for official documents.
	StyleFormal TranslationStyle = "formal"
	// StyleNeutral uses a neutral, professional tone suitable for general content.
	StyleNeutral TranslationStyle = "neutral"
	// StyleCasual uses casual, conversational language suitable for blogs/social media.
	StyleCasual TranslationStyle = "casual"
	// StyleMarketing uses persuasive, engaging language for promotional content.
	StyleMarketing TranslationStyle = "marketing"
	// StyleTechnical uses precise, technical language for documentation.
	StyleTechnical TranslationStyle = "technical"
)

// Default language pair of the portfolio site.
const (
	DefaultSourceLang = "en"
	DefaultTargetLang = "es"
)

// Segment is one displayable text location of a page.
//
// Node is owned by the parsed document; a Segment only points at it.
// Original is captured once per extraction pass and is never replaced by a
// failed translation pass.
type Segment struct {
	ID       string            // Document-order identifier ("seg-0", "seg-1", ...)
	Node     *html.Node        // Text node the segment was read from
	Original string            // Node text as found, including whitespace
	Text     string            // Trimmed text
	Hash     string            // SHA-256 of Text
	Context  string            // Disambiguation context for AI providers
	Metadata map[string]string // Additional info (parent tag, ...)
}

// TranslationMap maps a trimmed source string to its translation.
type TranslationMap map[string]string

// Sources returns the keys of the map.
func (m TranslationMap) Sources() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// LanguageState is the persisted display language of a page.
type LanguageState struct {
	Lang       string `json:"language"`
	Translated bool   `json:"translated"`
}

// SourceState returns the state of an untranslated page in lang.
func SourceState(lang string) LanguageState {
	return LanguageState{Lang: lang}
}

// TargetState returns the state of a page translated into lang.
func TargetState(lang string) LanguageState {
	return LanguageState{Lang: lang, Translated: true}
}

// Detection is the detected language of one sampled string.
type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// IgnoredTags contains HTML tags whose content is never extracted.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"code":     true,
	"pre":      true,
	"textarea": true,
}
