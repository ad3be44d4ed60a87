package ux

import (
	"fmt"
	"strings"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions.
// Coded errors already carry their own suggestions and are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	if code := nerrors.CodeOf(err); code != "" {
		if code == nerrors.ErrCodeAPITransport {
			return NewErrorWithSuggestion(err,
				"Check that the backend is running, or point newsdesk at it with --api-url or NEWSDESK_API_URL")
		}
		return err
	}

	errMsg := err.Error()

	// Session storage errors
	if strings.Contains(errMsg, "permission denied") {
		if strings.Contains(errMsg, "session.json") {
			return NewErrorWithSuggestion(err,
				"The session file must be owned by you with mode 0600; remove it and log in again")
		}
		return NewErrorWithSuggestion(err,
			"Check file permissions and ensure you have access to the required files/directories")
	}

	if strings.Contains(errMsg, "message authentication failed") {
		return NewErrorWithSuggestion(err,
			"NEWSDESK_PASSPHRASE does not match the one used to seal the session; run 'newsdesk auth logout' to reset")
	}

	// Network errors
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check that the backend is running, or start a local one with 'newsdesk dev-server'")
	}

	if strings.Contains(errMsg, "no such host") {
		return NewErrorWithSuggestion(err,
			"Verify api.base_url with 'newsdesk config get api.base_url'")
	}

	// Authentication errors
	if strings.Contains(errMsg, "401") || strings.Contains(errMsg, "unauthorized") {
		return NewErrorWithSuggestion(err,
			"Your session may have expired; run 'newsdesk auth login --phone <number>'")
	}

	// Config errors
	if strings.Contains(errMsg, "config.yaml") {
		return NewErrorWithSuggestion(err,
			"Inspect the file with 'newsdesk config view' or remove it to fall back to defaults")
	}

	if strings.Contains(errMsg, "failed to") {
		return NewErrorWithSuggestion(err,
			"Run 'newsdesk doctor' to check your setup")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
