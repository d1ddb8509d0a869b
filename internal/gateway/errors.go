package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized marks a 401; the session has already been torn down when it is returned.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	// ErrRejected covers the remaining 4xx business and validation rejections.
	ErrRejected = errors.New("rejected by backend")
	ErrServer   = errors.New("backend error")
	// ErrTransport means no response was received.
	ErrTransport = errors.New("transport failure")
	// ErrContract means a 2xx body did not match the expected response type.
	ErrContract = errors.New("response contract violation")
	// ErrInvalidRequest means the request body failed validation before it was sent.
	ErrInvalidRequest = errors.New("invalid request")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
	kind    error
}

func newAPIError(status int, message, method, path string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
		Method:  method,
		Path:    path,
		kind:    kindForStatus(status),
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrRejected
	}
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the backend's message carried by err, or "" when there is none
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
