package pagelang

import "context"

// Provider is a remote translation service.
type Provider interface {
	// Translate returns one translation per request text, in order.
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
	// Detect returns one detection per sample, in order.
	Detect(ctx context.Context, texts []string) ([]Detection, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Texts         []string
	SourceLang    string
	TargetLang    string
	ExcludedTerms []string
	Context       string
	TextContexts  []string
	Glossary      map[string]string
	Style         TranslationStyle
}

// TranslationCache persists TranslationMap entries between passes.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Document is the live page a Page translates.
type Document interface {
	Segments() []Segment
	Apply(segments []Segment, translations TranslationMap) int
	MarkTranslated(lang string, on bool)
	IsMarkedTranslated() bool
	Render() (string, error)
}

// StateStore persists the LanguageState of a page.
type StateStore interface {
	// Get returns the stored state and whether one was stored.
	Get(ctx context.Context) (LanguageState, bool, error)
	Set(ctx context.Context, s LanguageState) error
	Clear(ctx context.Context) error
}

// Notifier reports the outcome of a page transition to the reader.
type Notifier interface {
	Notify(n Notification)
}

// NotificationKind classifies a Notification.
type NotificationKind string

const (
	NotifySuccess     NotificationKind = "success"
	NotifyNormalized  NotificationKind = "normalized"
	NotifyConfigError NotificationKind = "config_error"
	NotifyRemoteError NotificationKind = "remote_error"
)

// Notification is a user-facing message about a transition.
type Notification struct {
	Kind       NotificationKind
	TargetLang string // Language the page was switched to (or attempted)
	Err        error  // Set for error kinds
}
