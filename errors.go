package pagelang

import (
	"errors"
	"fmt"
	"time"
)

// ErrDetectionInconclusive is returned when a language sample yields no
// usable signal. Callers treat it as "the page is in the source language".
var ErrDetectionInconclusive = errors.New("language detection inconclusive")

// ErrBusy is returned by Page.Toggle while another pass is in flight.
var ErrBusy = errors.New("translation already in progress")

// ConfigurationError indicates missing or placeholder provider credentials.
// It is never retryable; the operator has to fix the setup.
type ConfigurationError struct {
	Message string
	Hint    string
}

func (e *ConfigurationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("configuration error: %s (%s)", e.Message, e.Hint)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// RemoteServiceError indicates a failed call to the translation service:
// a non-2xx response, a malformed payload or a transport failure.
type RemoteServiceError struct {
	Message    string
	StatusCode int // HTTP status, 0 when no response was received
	Cause      error
	Retryable  bool          // Whether the operation can be retried
	RetryAfter time.Duration // Delay asked for by the service, 0 when none
}

func (e *RemoteServiceError) Error() string {
	msg := "remote service error: " + e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the service returned a different number of translations than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsRemoteServiceError reports whether err is or wraps a RemoteServiceError.
func IsRemoteServiceError(err error) bool {
	var remoteErr *RemoteServiceError
	return errors.As(err, &remoteErr)
}
