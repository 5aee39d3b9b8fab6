// Package notify turns page transition outcomes into localized messages.
package notify

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/MrUltraEnder/pagelang"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message is a rendered notification.
type Message struct {
	Kind        pagelang.NotificationKind `json:"kind"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Detail      string                    `json:"detail,omitempty"`
	Destructive bool                      `json:"destructive,omitempty"`
}

// Localizer renders notifications with go-i18n.
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewLocalizer loads the embedded message files. Messages fall back to
// defaultLocale, then to English.
func NewLocalizer(defaultLocale string) (*Localizer, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.es.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	return &Localizer{bundle: bundle, defaultLanguage: tag}, nil
}

// Render localizes n in the language the page was switched to.
func (l *Localizer) Render(n pagelang.Notification) Message {
	loc := i18n.NewLocalizer(l.bundle, pagelang.BaseLang(n.TargetLang), l.defaultLanguage.String())

	msg := Message{Kind: n.Kind}
	data := map[string]any{"Language": l.localize(loc, "LangName_"+pagelang.BaseLang(n.TargetLang), nil)}

	switch n.Kind {
	case pagelang.NotifySuccess:
		msg.Title = l.localize(loc, "SuccessTitle", nil)
		msg.Description = l.localize(loc, "SuccessDescription", data)
	case pagelang.NotifyNormalized:
		msg.Title = l.localize(loc, "NormalizedTitle", nil)
		msg.Description = l.localize(loc, "NormalizedDescription", data)
	case pagelang.NotifyConfigError:
		msg.Title = l.localize(loc, "ConfigErrorTitle", nil)
		msg.Description = l.localize(loc, "ConfigErrorDescription", nil)
		msg.Destructive = true
	default:
		msg.Title = l.localize(loc, "RemoteErrorTitle", nil)
		msg.Description = l.localize(loc, "RemoteErrorDescription", nil)
		msg.Destructive = true
	}

	if n.Err != nil {
		msg.Detail = n.Err.Error()
	}
	return msg
}

// localize falls back to the message id, or the language code for
// unknown language names.
func (l *Localizer) localize(loc *i18n.Localizer, id string, data map[string]any) string {
	out, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		if code, ok := strings.CutPrefix(id, "LangName_"); ok {
			return pagelang.GetLanguageName(code)
		}
		return id
	}
	return out
}

// LogNotifier logs rendered notifications.
type LogNotifier struct {
	localizer *Localizer
	logger    *slog.Logger
}

// NewLogNotifier creates a notifier writing to logger.
func NewLogNotifier(localizer *Localizer, logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogNotifier{localizer: localizer, logger: logger}
}

// Notify logs n at info level, or warn level for failures.
func (n *LogNotifier) Notify(note pagelang.Notification) {
	msg := n.localizer.Render(note)
	level := slog.LevelInfo
	if msg.Destructive {
		level = slog.LevelWarn
	}
	attrs := []any{"kind", msg.Kind, "description", msg.Description}
	if msg.Detail != "" {
		attrs = append(attrs, "detail", msg.Detail)
	}
	n.logger.Log(context.Background(), level, msg.Title, attrs...)
}

// Recorder keeps rendered notifications for later display.
type Recorder struct {
	localizer *Localizer
	mu        sync.Mutex
	messages  []Message
}

// NewRecorder creates an empty recorder.
func NewRecorder(localizer *Localizer) *Recorder {
	return &Recorder{localizer: localizer}
}

// Notify renders and stores n.
func (r *Recorder) Notify(n pagelang.Notification) {
	msg := r.localizer.Render(n)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Multi fans a notification out to several notifiers.
type Multi []pagelang.Notifier

// Notify forwards n to every notifier.
func (m Multi) Notify(n pagelang.Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

var (
	_ pagelang.Notifier = (*LogNotifier)(nil)
	_ pagelang.Notifier = (*Recorder)(nil)
	_ pagelang.Notifier = Multi(nil)
)
