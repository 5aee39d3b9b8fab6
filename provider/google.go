package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrUltraEnder/pagelang"
)

// DefaultGoogleBaseURL is the public Cloud Translation endpoint.
const DefaultGoogleBaseURL = "https://translation.googleapis.com"

// PlaceholderAPIKey is the value shipped in sample env files. It is treated
// like a missing key.
const PlaceholderAPIKey = "your_google_translate_api_key_here"

// GoogleProvider implements Provider using the Cloud Translation v2 REST API.
type GoogleProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	APIKey     string       // GOOGLE_TRANSLATE_API_KEY
	BaseURL    string       // Custom base URL (default: DefaultGoogleBaseURL)
	HTTPClient *http.Client // Custom client (default: 30s timeout)
}

// NewGoogleProvider creates a new Google provider. Credentials are checked
// on every call so that a misconfigured server still starts.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &GoogleProvider{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type googleTranslateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
}

type googleDetectRequest struct {
	Q []string `json:"q"`
}

type googleDetectResponse struct {
	Data struct {
		Detections [][]struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
}

type googleErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Translate translates a batch of texts in one request.
func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	body := googleTranslateRequest{
		Q:      req.Texts,
		Target: pagelang.BaseLang(req.TargetLang),
		Format: "text",
	}
	if req.SourceLang != "" {
		body.Source = pagelang.BaseLang(req.SourceLang)
	}

	var resp googleTranslateResponse
	if err := p.post(ctx, "/language/translate/v2", body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data.Translations) != len(req.Texts) {
		return nil, &pagelang.RemoteServiceError{
			Message: "malformed translation payload",
			Cause: &pagelang.CountMismatchError{
				Expected: len(req.Texts),
				Got:      len(resp.Data.Translations),
			},
		}
	}

	out := make([]string, len(resp.Data.Translations))
	for i, t := range resp.Data.Translations {
		out[i] = t.TranslatedText
	}
	return out, nil
}

// Detect returns the most likely language of each sample.
func (p *GoogleProvider) Detect(ctx context.Context, texts []string) ([]Detection, error) {
	if len(texts) == 0 {
		return []Detection{}, nil
	}

	var resp googleDetectResponse
	if err := p.post(ctx, "/language/translate/v2/detect", googleDetectRequest{Q: texts}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data.Detections) != len(texts) {
		return nil, &pagelang.RemoteServiceError{
			Message: "malformed detection payload",
			Cause: &pagelang.CountMismatchError{
				Expected: len(texts),
				Got:      len(resp.Data.Detections),
			},
		}
	}

	out := make([]Detection, len(resp.Data.Detections))
	for i, candidates := range resp.Data.Detections {
		if len(candidates) == 0 {
			continue
		}
		out[i] = Detection{
			Language:   candidates[0].Language,
			Confidence: candidates[0].Confidence,
		}
	}
	return out, nil
}

func (p *GoogleProvider) checkCredentials() error {
	if p.apiKey == "" || p.apiKey == PlaceholderAPIKey {
		return &pagelang.ConfigurationError{
			Message: "Translation service not configured properly. Please set a valid GOOGLE_TRANSLATE_API_KEY",
			Hint:    "The API key should not be the placeholder value",
		}
	}
	return nil
}

func (p *GoogleProvider) post(ctx context.Context, path string, in, out any) error {
	if err := p.checkCredentials(); err != nil {
		return err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	endpoint := p.baseURL + path + "?key=" + url.QueryEscape(p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", pagelang.UserAgent())

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &pagelang.RemoteServiceError{
			Message:   "Google Translate request failed",
			Cause:     err,
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return &pagelang.RemoteServiceError{
			Message:    "reading Google Translate response",
			StatusCode: resp.StatusCode,
			Cause:      err,
			Retryable:  true,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &pagelang.RemoteServiceError{
			Message:    errorMessage(resp.StatusCode, data),
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &pagelang.RemoteServiceError{
			Message:    "malformed Google Translate payload",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// retryAfter reads a Retry-After header given in seconds. HTTP dates are
// ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// errorMessage extracts the API error message, falling back to the status text.
func errorMessage(status int, body []byte) string {
	var apiErr googleErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("unexpected status %d", status)
}

// Verify GoogleProvider implements Provider
var _ Provider = (*GoogleProvider)(nil)
