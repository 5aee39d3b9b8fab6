// Package server exposes the translation proxy and the page endpoints over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/internal/logging"
	"github.com/MrUltraEnder/pagelang/internal/metrics"
	"github.com/MrUltraEnder/pagelang/notify"
	"github.com/MrUltraEnder/pagelang/processor"
)

// SessionCookie carries the id that keys the per-session language state.
const SessionCookie = "pagelang_session"

// Response headers of the page endpoints.
const (
	HeaderLang       = "X-Pagelang-Lang"
	HeaderTranslated = "X-Pagelang-Translated"
	HeaderStatus     = "X-Pagelang-Status"
	HeaderPersisted  = "X-Pagelang-Persisted"
)

// StoreFactory returns the state store of one session.
type StoreFactory func(ctx context.Context, session string) (pagelang.StateStore, error)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the page settings applied to every request.
type Config struct {
	SourceLang         string
	TargetLang         string
	DetectionThreshold float64
	SampleSize         int
	MaxBodyBytes       int64
	SecureCookies      bool
}

// Deps are the collaborators of a Server. Client, Provider, Stores and
// Localizer are required.
type Deps struct {
	Client    *pagelang.Client         // Page translations, with cache and filter
	Provider  pagelang.Provider        // Raw provider behind /api/translate and /api/detect
	Stores    StoreFactory             // Per-session language state
	Localizer *notify.Localizer        // Notification texts
	Metrics   *metrics.Metrics         // Optional; enables /metrics
	Limiter   *pagelang.RateLimiter    // Optional; rejects /api calls over the limit
	Health    map[string]Pinger        // Optional components checked by /healthz
	Processor *processor.HTMLProcessor // Optional; defaults to the built-in ignored tags
	Logger    *slog.Logger
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	deps   Deps
	log    *slog.Logger
	proc   *processor.HTMLProcessor
	passes sessionPasses
}

// New creates a Server.
func New(cfg Config, deps Deps) *Server {
	if cfg.SourceLang == "" {
		cfg.SourceLang = pagelang.DefaultSourceLang
	}
	if cfg.TargetLang == "" {
		cfg.TargetLang = pagelang.DefaultTargetLang
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 2 << 20
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	proc := deps.Processor
	if proc == nil {
		proc = processor.NewHTMLProcessor()
	}
	return &Server{cfg: cfg, deps: deps, log: logger, proc: proc}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Post("/translate", s.handleTranslate)
		r.Post("/detect", s.handleDetect)

		r.Route("/page", func(r chi.Router) {
			r.Post("/init", s.handlePageInit)
			r.Post("/toggle", s.handlePageToggle)
			r.Get("/state", s.handleStateGet)
			r.Delete("/state", s.handleStateClear)
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down within
// shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	srv.Handler = s.Handler()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type healthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "ok",
		Version:   pagelang.FullVersion(),
		Timestamp: time.Now(),
	}
	status := http.StatusOK

	if len(s.deps.Health) > 0 {
		resp.Components = make(map[string]string, len(s.deps.Health))
		for name, p := range s.deps.Health {
			if err := p.Ping(ctx); err != nil {
				s.log.Warn("health check failed", "component", name, "error", err)
				resp.Components[name] = "down"
				resp.Status = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Components[name] = "ok"
		}
	}

	writeJSON(w, status, resp)
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
