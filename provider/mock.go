package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a scripted provider for tests and offline runs.
type MockProvider struct {
	Translations map[string]string    // Map of source text to translation
	Detections   map[string]Detection // Map of sample to detection
	FailOnCall   int                  // Fail the n-th Translate call (1-based); 0 never fails
	Err          error                // Error returned by the failing call

	mu          sync.Mutex
	callCount   int
	detectCount int
	lastRequest *TranslateRequest
	requests    []TranslateRequest
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                "Hola",
			"World":                "Mundo",
			"Hello World":          "Hola Mundo",
			"Hello world":          "Hola mundo",
			"Welcome to our site.": "Bienvenido a nuestro sitio.",
			"Projects":             "Proyectos",
			"About me":             "Sobre mí",
			"Contact":              "Contacto",
		},
		Detections: map[string]Detection{},
	}
}

// Translate returns scripted translations. Unknown texts come back
// bracketed; texts that are values of Translations map back to their key,
// which lets the mock serve both directions of a toggle.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.lastRequest = &req
	m.requests = append(m.requests, req)

	if m.FailOnCall > 0 && m.callCount == m.FailOnCall {
		if m.Err != nil {
			return nil, m.Err
		}
		return nil, fmt.Errorf("mock failure on call %d", m.callCount)
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
			continue
		}
		if original, ok := m.reverse(text); ok {
			results[i] = original
			continue
		}
		// Return bracketed text for unknown translations
		results[i] = fmt.Sprintf("[%s]", text)
	}

	return results, nil
}

// Detect returns scripted detections; unknown samples are reported as
// English with full confidence.
func (m *MockProvider) Detect(ctx context.Context, texts []string) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.detectCount++

	out := make([]Detection, len(texts))
	for i, text := range texts {
		if d, ok := m.Detections[text]; ok {
			out[i] = d
			continue
		}
		out[i] = Detection{Language: "en", Confidence: 1}
	}
	return out, nil
}

func (m *MockProvider) reverse(text string) (string, bool) {
	for src, dst := range m.Translations {
		if dst == text {
			return src, true
		}
	}
	return "", false
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// DetectCount returns the number of Detect calls.
func (m *MockProvider) DetectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detectCount
}

// LastRequest returns the last Translate request, or nil.
func (m *MockProvider) LastRequest() *TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Requests returns every Translate request in call order.
func (m *MockProvider) Requests() []TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TranslateRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears the recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.detectCount = 0
	m.lastRequest = nil
	m.requests = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
