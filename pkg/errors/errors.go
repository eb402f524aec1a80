package errors

import (
	"context"
	"errors"
	"fmt"
)

// maxBodyInError caps how much of a response body is echoed by DecodeError.Error
const maxBodyInError = 256

// TransportError is returned when the request never produced a readable response:
// connection failures, timeouts, context cancellation, or a truncated body.
// The library does not retry; IsRetriable is a hint for callers that do.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error calling %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetriable reports whether the caller may safely try again.
// A call the caller cancelled is not worth repeating.
func (e *TransportError) IsRetriable() bool {
	return !errors.Is(e.Err, context.Canceled)
}

// NewTransportError creates a new transport error
func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, Err: err}
}

// DecodeError is returned when the response body is not a JSON object.
// Body holds the raw bytes for diagnostics.
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	body := e.Body
	suffix := ""
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
		suffix = "..."
	}
	return fmt.Sprintf("decode error from %s (status %d): %v: %q%s", e.Endpoint, e.StatusCode, e.Err, body, suffix)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new decode error
func NewDecodeError(endpoint string, statusCode int, body []byte, err error) *DecodeError {
	return &DecodeError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
