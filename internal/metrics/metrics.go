// Package metrics exposes Prometheus counters for provider calls, page
// transitions and HTTP requests.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrUltraEnder/pagelang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector of the process.
type Metrics struct {
	registry *prometheus.Registry

	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	ProviderTexts    *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagelang_provider_calls_total",
				Help: "Translation service calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagelang_provider_duration_seconds",
				Help:    "Duration of translation service calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		ProviderTexts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagelang_provider_texts_total",
				Help: "Strings sent to the translation service by target language",
			},
			[]string{"target"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagelang_page_transitions_total",
				Help: "Page status transitions",
			},
			[]string{"from", "to"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagelang_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	m.registry.MustRegister(
		m.ProviderCalls,
		m.ProviderDuration,
		m.ProviderTexts,
		m.Transitions,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// TransitionHook counts page status changes. Pass it to
// pagelang.WithTransitionHook.
func (m *Metrics) TransitionHook() func(from, to pagelang.Status) {
	return func(from, to pagelang.Status) {
		m.Transitions.WithLabelValues(string(from), string(to)).Inc()
	}
}

// Provider wraps p so that every call is counted and timed.
func (m *Metrics) Provider(p pagelang.Provider) pagelang.Provider {
	return &instrumentedProvider{provider: p, m: m}
}

type instrumentedProvider struct {
	provider pagelang.Provider
	m        *Metrics
}

func (p *instrumentedProvider) Translate(ctx context.Context, req pagelang.TranslateRequest) ([]string, error) {
	start := time.Now()
	out, err := p.provider.Translate(ctx, req)
	p.observe("translate", start, err)
	if err == nil {
		p.m.ProviderTexts.WithLabelValues(pagelang.BaseLang(req.TargetLang)).Add(float64(len(req.Texts)))
	}
	return out, err
}

func (p *instrumentedProvider) Detect(ctx context.Context, texts []string) ([]pagelang.Detection, error) {
	start := time.Now()
	out, err := p.provider.Detect(ctx, texts)
	p.observe("detect", start, err)
	return out, err
}

func (p *instrumentedProvider) observe(op string, start time.Time, err error) {
	p.m.ProviderDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	p.m.ProviderCalls.WithLabelValues(op, Outcome(err)).Inc()
}

// Outcome classifies an error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case pagelang.IsConfigurationError(err):
		return "config_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case pagelang.IsRemoteServiceError(err):
		return "remote_error"
	default:
		return "error"
	}
}
