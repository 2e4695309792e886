package apperrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// DefaultFailureMessage is shown when the backend rejects a request without a detail.
const DefaultFailureMessage = "Failed"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrSessionNotFound  = errors.New("session not found")
)

// Backend errors
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBackendRejected    = errors.New("backend rejected request")
	ErrDecodeFailed       = errors.New("failed to decode backend response")
	ErrSuperseded         = errors.New("superseded by a newer request")
)

// BackendError is a non-success response from the results backend.
type BackendError struct {
	StatusCode int
	Detail     string
}

// Error implements error interface
func (e *BackendError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return DefaultFailureMessage
}

// Unwrap implements errors.Unwrap interface
func (e *BackendError) Unwrap() error {
	return ErrBackendRejected
}

// NewBackendError builds a BackendError from a response status and its raw body.
// The body is expected to be a JSON object with a "detail" field. A string detail
// is used as is; any other JSON detail is rendered compactly.
func NewBackendError(statusCode int, body []byte) *BackendError {
	be := &BackendError{StatusCode: statusCode}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return be
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		be.Detail = detail
		return be
	}

	if raw := strings.TrimSpace(string(payload.Detail)); raw != "null" {
		be.Detail = raw
	}
	return be
}

// UnavailableError wraps a transport failure talking to the backend.
type UnavailableError struct {
	Err error
}

// Error implements error interface
func (e *UnavailableError) Error() string {
	return "backend unavailable: " + e.Err.Error()
}

// Unwrap lets errors.Is match both ErrBackendUnavailable and the transport cause.
func (e *UnavailableError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.Err}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error bound to a form field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// UserMessage reduces an error to the text shown in the status banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var be *BackendError
	if errors.As(err, &be) {
		return be.Error()
	}

	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "Backend did not respond in time"
	}

	var ue *UnavailableError
	if errors.As(err, &ue) {
		return fmt.Sprintf("Could not reach backend: %s", ue.Err)
	}

	if errors.Is(err, ErrDecodeFailed) {
		return "Backend returned an unreadable response"
	}

	return err.Error()
}
