package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when a lookup by id yields an empty page
	ErrNotFound = errors.New("article not found")

	// ErrNoToken is returned by authenticated calls when no token is stored
	ErrNoToken = errors.New("no authentication token stored")

	// ErrTokenMissing is returned when a login response lacks the token header
	ErrTokenMissing = errors.New("authentication token not found in response")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	// Message is the backend's message (or error) field, empty if the body had neither
	Message   string
	Body      string
	RequestID string
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, msg)
}

// IsUnauthorized reports a 401 or 403 response
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// TransportError is a failure to reach the backend at all
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// BackendMessage returns the backend-provided message carried by err, if any
func BackendMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
