package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrUltraEnder/pagelang"
)

// Messages returned by the translation proxy for upstream rejections.
const (
	msgInvalidRequest = "Invalid API request. Check if the API key is correctly configured and the Cloud Translation API is enabled."
	msgForbidden      = "API key invalid or Cloud Translation API not enabled for this project."
	msgFailed         = "Translation failed"
)

// translateRequest mirrors the Google v2 body. q is a string or a list.
type translateRequest struct {
	Q      json.RawMessage `json:"q"`
	Source string          `json:"source"`
	Target string          `json:"target"`
	Format string          `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []translation `json:"translations"`
	} `json:"data"`
}

type translation struct {
	TranslatedText string `json:"translatedText"`
}

type detectRequest struct {
	Q json.RawMessage `json:"q"`
}

type detectResponse struct {
	Data struct {
		Detections [][]pagelang.Detection `json:"detections"`
	} `json:"data"`
}

// parseQ accepts `"text"` or `["a", "b"]`.
func parseQ(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("q is required")
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("q must be a string or a list of strings")
	}
	return []string{single}, nil
}

// handleTranslate proxies a Google-shaped request to the provider and
// answers in the same shape.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	texts, err := parseQ(req.Q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Target) == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}
	if req.Format != "" && req.Format != "text" && req.Format != "html" {
		writeError(w, http.StatusBadRequest, "format must be text or html")
		return
	}

	out, err := s.deps.Provider.Translate(r.Context(), pagelang.TranslateRequest{
		Texts:      texts,
		SourceLang: req.Source,
		TargetLang: req.Target,
	})
	if err != nil {
		s.writeProviderError(w, err)
		return
	}

	var resp translateResponse
	resp.Data.Translations = make([]translation, len(out))
	for i, t := range out {
		resp.Data.Translations[i] = translation{TranslatedText: t}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	texts, err := parseQ(req.Q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detections, err := s.deps.Provider.Detect(r.Context(), texts)
	if err != nil {
		s.writeProviderError(w, err)
		return
	}

	var resp detectResponse
	resp.Data.Detections = make([][]pagelang.Detection, len(detections))
	for i, d := range detections {
		resp.Data.Detections[i] = []pagelang.Detection{d}
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeProviderError maps a provider failure onto the proxy's status codes:
// 503 with a hint when credentials are missing, 400 and 403 passthrough,
// 500 for everything else.
func (s *Server) writeProviderError(w http.ResponseWriter, err error) {
	status, body := providerErrorResponse(err)
	if status >= 500 {
		s.log.Error("translation request failed", "status", status, "error", err)
	} else {
		s.log.Warn("translation request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func providerErrorResponse(err error) (int, errorResponse) {
	var cfgErr *pagelang.ConfigurationError
	if errors.As(err, &cfgErr) {
		return http.StatusServiceUnavailable, errorResponse{Error: cfgErr.Message, Hint: cfgErr.Hint}
	}

	var remoteErr *pagelang.RemoteServiceError
	if errors.As(err, &remoteErr) {
		switch remoteErr.StatusCode {
		case http.StatusBadRequest:
			return http.StatusBadRequest, errorResponse{Error: msgInvalidRequest}
		case http.StatusForbidden:
			return http.StatusForbidden, errorResponse{Error: msgForbidden}
		}
	}

	if errors.Is(err, pagelang.ErrBusy) {
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: msgFailed}
}
