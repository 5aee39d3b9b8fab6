package pagelang

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Message: "API key not configured"}
	if err.Error() != "configuration error: API key not configured" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	err2 := &ConfigurationError{Message: "API key not configured", Hint: "set GOOGLE_TRANSLATE_API_KEY"}
	if err2.Error() != "configuration error: API key not configured (set GOOGLE_TRANSLATE_API_KEY)" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestRemoteServiceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &RemoteServiceError{Message: "translate call failed", StatusCode: 502, Cause: cause, Retryable: true}

	if err.Error() != "remote service error: translate call failed (status 502): connection reset" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}

	// Without status or cause
	err2 := &RemoteServiceError{Message: "malformed payload"}
	if err2.Error() != "remote service error: malformed payload" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Message: "connection failed"}

	if err.Error() != "cache error: connection failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestProcessorError(t *testing.T) {
	err := &ProcessorError{Message: "parse failed", ContentType: "html"}

	if err.Error() != "processor error (html): parse failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestCountMismatchError(t *testing.T) {
	err := &CountMismatchError{Expected: 5, Got: 3}

	expected := "translation count mismatch: expected 5, got 3"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), expected)
	}
}

func TestErrorClassification(t *testing.T) {
	cfg := fmt.Errorf("toggle: %w", &ConfigurationError{Message: "missing key"})
	remote := fmt.Errorf("toggle: %w", &RemoteServiceError{Message: "boom", StatusCode: 500})

	if !IsConfigurationError(cfg) || IsRemoteServiceError(cfg) {
		t.Error("wrapped ConfigurationError misclassified")
	}
	if !IsRemoteServiceError(remote) || IsConfigurationError(remote) {
		t.Error("wrapped RemoteServiceError misclassified")
	}
	if IsConfigurationError(ErrBusy) || IsRemoteServiceError(ErrBusy) {
		t.Error("ErrBusy must not be classified as a service error")
	}
}
