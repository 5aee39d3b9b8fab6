package pagelang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"
)

// Status is the state of a Page.
type Status string

const (
	StatusSource      Status = "source"
	StatusTranslating Status = "translating"
	StatusTarget      Status = "target"
	StatusError       Status = "error"
)

// Detection sampling defaults.
const (
	DefaultDetectionThreshold = 0.7
	DefaultSampleSize         = 5
	detectionWindow           = 15
	minSampleLength           = 10
)

// Page flips one document between its source and target language.
//
// A Page is not reentrant: Init and Toggle return ErrBusy while another
// pass on the same Page is in flight. The document is only written after
// the whole translation succeeded, so a failed pass leaves it untouched.
type Page struct {
	pass sync.Mutex // held for the duration of Init and Toggle

	doc        Document
	client     *Client
	store      StateStore
	source     string
	target     string
	notifier   Notifier
	hook       func(from, to Status)
	threshold  float64
	sampleSize int
	logger     *slog.Logger

	mu        sync.RWMutex
	status    Status
	lastErr   error
	lastStats Stats
}

// PageOption is a functional option for configuring a Page.
type PageOption func(*Page)

// WithLanguages sets the canonical source language and the target language.
func WithLanguages(source, target string) PageOption {
	return func(p *Page) {
		if source != "" {
			p.source = source
		}
		if target != "" {
			p.target = target
		}
	}
}

// WithNotifier sets where transition outcomes are reported.
func WithNotifier(n Notifier) PageOption {
	return func(p *Page) {
		p.notifier = n
	}
}

// WithTransitionHook registers fn to be called on every status change.
// fn runs on the goroutine driving the pass.
func WithTransitionHook(fn func(from, to Status)) PageOption {
	return func(p *Page) {
		p.hook = fn
	}
}

// WithDetectionThreshold sets the minimum confidence of a detection vote.
func WithDetectionThreshold(t float64) PageOption {
	return func(p *Page) {
		if t > 0 && t <= 1 {
			p.threshold = t
		}
	}
}

// WithSampleSize sets how many segments are sent for detection.
func WithSampleSize(n int) PageOption {
	return func(p *Page) {
		if n > 0 {
			p.sampleSize = n
		}
	}
}

// WithPageLogger sets the page logger.
func WithPageLogger(l *slog.Logger) PageOption {
	return func(p *Page) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPage creates a Page whose status follows the document marker:
// StatusTarget for a document marked translated, StatusSource otherwise.
// Call Init to reconcile it with the persisted state.
func NewPage(doc Document, client *Client, store StateStore, opts ...PageOption) *Page {
	p := &Page{
		doc:        doc,
		client:     client,
		store:      store,
		source:     DefaultSourceLang,
		target:     DefaultTargetLang,
		threshold:  DefaultDetectionThreshold,
		sampleSize: DefaultSampleSize,
		logger:     discardLogger(),
		status:     StatusSource,
	}

	for _, opt := range opts {
		opt(p)
	}

	if doc.IsMarkedTranslated() {
		p.status = StatusTarget
	}
	return p
}

// Status returns the current status.
func (p *Page) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// State returns the language the document is currently displayed in.
func (p *Page) State() LanguageState {
	if p.Status() == StatusTarget {
		return TargetState(p.target)
	}
	return SourceState(p.source)
}

// LastError returns the error of the last failed pass, or nil.
func (p *Page) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// LastStats returns the translation stats of the last successful pass.
func (p *Page) LastStats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastStats
}

// Render serializes the document.
func (p *Page) Render() (string, error) {
	return p.doc.Render()
}

// Init brings the document in line with the persisted state.
//
// With a stored state the document is translated to the stored language
// when the page marker disagrees with it. Without one, a sample of the page
// is sent for detection; content found to be in another language is
// translated to the source language, the source state is persisted and a
// NotifyNormalized notification is sent.
func (p *Page) Init(ctx context.Context) error {
	if !p.pass.TryLock() {
		return ErrBusy
	}
	defer p.pass.Unlock()

	saved, ok, err := p.store.Get(ctx)
	if err != nil {
		p.logger.Warn("reading language state failed, detecting instead", "error", err)
		ok = false
	}

	if ok {
		return p.restore(ctx, saved)
	}
	return p.normalize(ctx)
}

func (p *Page) restore(ctx context.Context, saved LanguageState) error {
	marked := p.doc.IsMarkedTranslated()
	wantTarget := saved.Translated && SameLanguage(saved.Lang, p.target)

	switch {
	case wantTarget && marked:
		p.setStatus(StatusTarget)
		return nil
	case wantTarget:
		p.logger.Info("restoring saved language", "lang", p.target)
		return p.switchTo(ctx, p.source, p.target, StatusSource, "")
	case marked:
		p.logger.Info("page marked translated but saved language is source, restoring", "lang", p.source)
		p.setStatus(StatusTarget)
		return p.switchTo(ctx, p.target, p.source, StatusTarget, "")
	default:
		p.setStatus(StatusSource)
		return nil
	}
}

func (p *Page) normalize(ctx context.Context) error {
	detected, err := p.detect(ctx)
	if err != nil {
		if !errors.Is(err, ErrDetectionInconclusive) {
			p.logger.Warn("language detection failed, assuming source", "error", err)
		}
		detected = p.source
	}

	if SameLanguage(detected, p.source) {
		// A leftover marker would make the next toggle run backwards.
		p.doc.MarkTranslated(p.source, false)
		p.setStatus(StatusSource)
		p.persist(ctx, SourceState(p.source))
		return nil
	}

	p.logger.Info("normalizing page content", "detected", detected, "lang", p.source)
	if err := p.switchTo(ctx, detected, p.source, StatusSource, NotifyNormalized); err != nil {
		p.doc.MarkTranslated(p.source, false)
		p.persist(ctx, SourceState(p.source))
		return err
	}
	return nil
}

// DetectLanguage samples the document and returns the language most
// samples agree on with enough confidence, or ErrDetectionInconclusive.
// The document is not modified.
func (p *Page) DetectLanguage(ctx context.Context) (string, error) {
	if !p.pass.TryLock() {
		return "", ErrBusy
	}
	defer p.pass.Unlock()
	return p.detect(ctx)
}

func (p *Page) detect(ctx context.Context) (string, error) {
	segs := p.doc.Segments()
	if len(segs) > detectionWindow {
		segs = segs[:detectionWindow]
	}

	filter := p.client.Filter()
	var samples []string
	for _, seg := range segs {
		if utf8.RuneCountInString(seg.Text) <= minSampleLength {
			continue
		}
		if filter.Skip(seg.Text) || filter.ContainsTerm(seg.Text) {
			continue
		}
		samples = append(samples, seg.Text)
		if len(samples) == p.sampleSize {
			break
		}
	}

	if len(samples) == 0 {
		return "", ErrDetectionInconclusive
	}

	detections, err := p.client.Detect(ctx, samples)
	if err != nil {
		return "", fmt.Errorf("detecting page language: %w", err)
	}
	if len(detections) == 0 {
		return "", ErrDetectionInconclusive
	}

	votes := make(map[string]int)
	for _, d := range detections {
		if d.Language == "" || d.Confidence <= p.threshold {
			continue
		}
		votes[BaseLang(d.Language)]++
	}

	for lang, n := range votes {
		if n*2 > len(detections) {
			return lang, nil
		}
	}
	return "", ErrDetectionInconclusive
}

// Toggle switches the document to the other language.
//
// Source to target uses the client; target to source re-translates through
// the client as well, which answers from the reverse cache entries when a
// cache is configured. Sources that share a translation all come back as
// the first of them.
func (p *Page) Toggle(ctx context.Context) error {
	if !p.pass.TryLock() {
		return ErrBusy
	}
	defer p.pass.Unlock()

	if p.Status() == StatusTarget {
		return p.switchTo(ctx, p.target, p.source, StatusTarget, NotifySuccess)
	}
	return p.switchTo(ctx, p.source, p.target, StatusSource, NotifySuccess)
}

// switchTo runs one extract, translate, apply pass from one language to
// another. prev is the stable status to fall back to on failure. kind is
// the notification sent on success; empty means silent.
func (p *Page) switchTo(ctx context.Context, from, to string, prev Status, kind NotificationKind) error {
	toTarget := SameLanguage(to, p.target) && !SameLanguage(to, p.source)

	p.setStatus(StatusTranslating)

	segs := p.doc.Segments()
	texts := make([]string, len(segs))
	for i, seg := range segs {
		texts[i] = seg.Text
	}

	tm, stats, err := p.client.TranslateWithStats(ctx, texts, from, to)
	if err != nil {
		p.fail(err, to, prev)
		return err
	}

	written := p.doc.Apply(segs, tm)
	p.doc.MarkTranslated(to, toTarget)

	next := StatusSource
	if toTarget {
		next = StatusTarget
	}

	p.mu.Lock()
	p.lastErr = nil
	p.lastStats = stats
	p.mu.Unlock()

	p.persist(ctx, LanguageState{Lang: to, Translated: toTarget})
	p.setStatus(next)

	p.logger.Info("page translated",
		"from", from, "to", to,
		"segments", len(segs), "written", written,
		"cached", stats.Cached, "translated", stats.Translated, "batches", stats.Batches)

	if kind != "" {
		p.notify(Notification{Kind: kind, TargetLang: to})
	}
	return nil
}

func (p *Page) fail(err error, to string, prev Status) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()

	p.setStatus(StatusError)

	kind := NotifyRemoteError
	if IsConfigurationError(err) {
		kind = NotifyConfigError
	}
	p.logger.Error("page translation failed", "to", to, "error", err)
	p.notify(Notification{Kind: kind, TargetLang: to, Err: err})

	p.setStatus(prev)
}

func (p *Page) persist(ctx context.Context, s LanguageState) {
	if err := p.store.Set(ctx, s); err != nil {
		p.logger.Warn("persisting language state failed", "lang", s.Lang, "error", err)
	}
}

func (p *Page) notify(n Notification) {
	if p.notifier != nil {
		p.notifier.Notify(n)
	}
}

func (p *Page) setStatus(to Status) {
	p.mu.Lock()
	from := p.status
	p.status = to
	p.mu.Unlock()

	if from != to && p.hook != nil {
		p.hook(from, to)
	}
}
