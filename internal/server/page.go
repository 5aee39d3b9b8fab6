package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/notify"
	"github.com/MrUltraEnder/pagelang/state"
)

const sessionMaxAge = 30 * 24 * time.Hour

type pageResponse struct {
	HTML          string           `json:"html"`
	Language      string           `json:"language"`
	Translated    bool             `json:"translated"`
	Status        pagelang.Status  `json:"status"`
	Stats         pagelang.Stats   `json:"stats"`
	Notifications []notify.Message `json:"notifications"`
	Error         string           `json:"error,omitempty"`
}

type stateResponse struct {
	Session    string `json:"session"`
	Language   string `json:"language,omitempty"`
	Translated bool   `json:"translated"`
	Saved      bool   `json:"saved"`
}

func (s *Server) handlePageInit(w http.ResponseWriter, r *http.Request) {
	s.runPage(w, r, (*pagelang.Page).Init)
}

func (s *Server) handlePageToggle(w http.ResponseWriter, r *http.Request) {
	s.runPage(w, r, (*pagelang.Page).Toggle)
}

// runPage parses the HTML body into a page bound to the caller's session,
// runs one pass and answers with the resulting document. Pass
// ?format=json to get the notifications and stats along with it.
func (s *Server) runPage(w http.ResponseWriter, r *http.Request, pass func(*pagelang.Page, context.Context) error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		s.log.Warn("reading page body failed", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := s.proc.Parse(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid HTML")
		return
	}

	session := s.session(w, r)

	// Each request builds its own Page, so the page-level busy check cannot
	// see a pass already running for the same session.
	if !s.passes.tryAcquire(session) {
		status, busy := providerErrorResponse(pagelang.ErrBusy)
		writeJSON(w, status, busy)
		return
	}
	defer s.passes.release(session)

	store, err := s.deps.Stores(r.Context(), session)
	if err != nil {
		s.log.Error("opening state store failed", "session", session, "error", err)
		writeError(w, http.StatusInternalServerError, "State store unavailable")
		return
	}
	store = state.WithMarker(store, state.MarkerFunc(func(lang string, on bool) {
		w.Header().Set(HeaderPersisted, lang)
	}))

	rec := notify.NewRecorder(s.deps.Localizer)
	notifier := notify.Multi{rec, notify.NewLogNotifier(s.deps.Localizer, s.log)}

	opts := []pagelang.PageOption{
		pagelang.WithLanguages(s.cfg.SourceLang, s.cfg.TargetLang),
		pagelang.WithNotifier(notifier),
		pagelang.WithDetectionThreshold(s.cfg.DetectionThreshold),
		pagelang.WithSampleSize(s.cfg.SampleSize),
		pagelang.WithPageLogger(s.log.With("session", session)),
	}
	if s.deps.Metrics != nil {
		opts = append(opts, pagelang.WithTransitionHook(s.deps.Metrics.TransitionHook()))
	}
	page := pagelang.NewPage(doc, s.deps.Client, store, opts...)

	passErr := pass(page, r.Context())

	html, err := page.Render()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	st := page.State()
	w.Header().Set(HeaderLang, pagelang.ToHTMLLang(st.Lang))
	w.Header().Set(HeaderTranslated, strconv.FormatBool(st.Translated))
	w.Header().Set(HeaderStatus, string(page.Status()))

	status := http.StatusOK
	var errBody errorResponse
	if passErr != nil {
		status, errBody = providerErrorResponse(passErr)
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, status, pageResponse{
			HTML:          html,
			Language:      st.Lang,
			Translated:    st.Translated,
			Status:        page.Status(),
			Stats:         page.LastStats(),
			Notifications: rec.Messages(),
			Error:         errBody.Error,
		})
		return
	}

	if passErr != nil {
		writeJSON(w, status, errBody)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, html) //nolint:errcheck
}

func (s *Server) handleStateGet(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	store, err := s.deps.Stores(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "State store unavailable")
		return
	}

	st, ok, err := store.Get(r.Context())
	if err != nil {
		s.log.Error("reading language state failed", "session", session, "error", err)
		writeError(w, http.StatusInternalServerError, "State store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		Session:    session,
		Language:   st.Lang,
		Translated: st.Translated,
		Saved:      ok,
	})
}

func (s *Server) handleStateClear(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	store, err := s.deps.Stores(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "State store unavailable")
		return
	}
	if err := store.Clear(r.Context()); err != nil {
		s.log.Error("clearing language state failed", "session", session, "error", err)
		writeError(w, http.StatusInternalServerError, "State store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session returns the caller's session id, issuing a new one when the
// cookie is missing or malformed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// sessionPasses tracks the sessions with a page pass in flight.
type sessionPasses struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func (p *sessionPasses) tryAcquire(session string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.active[session]; busy {
		return false
	}
	if p.active == nil {
		p.active = make(map[string]struct{})
	}
	p.active[session] = struct{}{}
	return true
}

func (p *sessionPasses) release(session string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.active, session)
}
