package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthTokenMissing   ErrorCode = "AUTH-001"
	ErrCodeAuthOTPRequest     ErrorCode = "AUTH-002"
	ErrCodeAuthLoginFailed    ErrorCode = "AUTH-003"
	ErrCodeAuthRegisterFailed ErrorCode = "AUTH-004"
	ErrCodeAuthNotLoggedIn    ErrorCode = "AUTH-005"
	ErrCodeAuthForbidden      ErrorCode = "AUTH-006"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionCancelled ErrorCode = "SESSION-001"
	ErrCodeSessionBusy      ErrorCode = "SESSION-002"
	ErrCodePhoneLocked      ErrorCode = "SESSION-003"

	// Validation errors (VALIDATION-001 to VALIDATION-099)
	ErrCodePhoneRequired    ErrorCode = "VALIDATION-001"
	ErrCodeOTPInvalid       ErrorCode = "VALIDATION-002"
	ErrCodeArticleRequired  ErrorCode = "VALIDATION-003"
	ErrCodeFieldRequired    ErrorCode = "VALIDATION-004"
	ErrCodeOTPNotRequested  ErrorCode = "VALIDATION-005"
	ErrCodeInvalidMediaType ErrorCode = "VALIDATION-006"

	// API errors (API-001 to API-099)
	ErrCodeAPIRequest   ErrorCode = "API-001"
	ErrCodeAPIResponse  ErrorCode = "API-002"
	ErrCodeAPITransport ErrorCode = "API-003"
	ErrCodeAPIContract  ErrorCode = "API-004"

	// Article errors (ARTICLE-001 to ARTICLE-099)
	ErrCodeArticleNotFound ErrorCode = "ARTICLE-001"
	ErrCodeNoDrafts        ErrorCode = "ARTICLE-002"
	ErrCodeQueueEmpty      ErrorCode = "ARTICLE-003"

	// Token store errors (STORE-001 to STORE-099)
	ErrCodeStoreRead    ErrorCode = "STORE-001"
	ErrCodeStoreWrite   ErrorCode = "STORE-002"
	ErrCodeStoreCorrupt ErrorCode = "STORE-003"
	ErrCodeStoreSealed  ErrorCode = "STORE-004"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound   ErrorCode = "IO-001"
	ErrCodeFileReadFailed ErrorCode = "IO-002"
	ErrCodeFileUnmarshal  ErrorCode = "IO-005"
)

// NewsdeskError represents an enhanced error with code, suggestions, and documentation
type NewsdeskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *NewsdeskError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *NewsdeskError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a NewsdeskError carrying the same code.
// This lets callers compare against the sentinel values below with errors.Is.
func (e *NewsdeskError) Is(target error) bool {
	t, ok := target.(*NewsdeskError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new NewsdeskError
func New(code ErrorCode, message string) *NewsdeskError {
	return &NewsdeskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new NewsdeskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *NewsdeskError {
	return &NewsdeskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *NewsdeskError) WithSuggestion(suggestion string) *NewsdeskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *NewsdeskError) WithSuggestions(suggestions ...string) *NewsdeskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// CodeOf returns the code of the first NewsdeskError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		if nErr, ok := err.(*NewsdeskError); ok {
			return nErr.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Common error constructors for frequently used errors

// NewPhoneRequiredError is returned before any OTP request with an empty phone number.
func NewPhoneRequiredError() *NewsdeskError {
	return New(ErrCodePhoneRequired, "Phone number is required").
		WithSuggestion("Pass the number with --phone")
}

// NewOTPInvalidError is returned locally when the OTP is not exactly six characters.
func NewOTPInvalidError() *NewsdeskError {
	return New(ErrCodeOTPInvalid, "Please enter a valid 6-digit OTP")
}

// NewTokenMissingError is returned when a login response lacks the token header.
func NewTokenMissingError() *NewsdeskError {
	return New(ErrCodeAuthTokenMissing, "Authentication token not found.").
		WithSuggestion("Check that the backend exposes the 'token' response header").
		WithSuggestion("Request a new OTP and try again")
}

// NewNotLoggedInError is returned by commands that need a stored token.
func NewNotLoggedInError() *NewsdeskError {
	return New(ErrCodeAuthNotLoggedIn, "you must be logged in").
		WithSuggestion("Run 'newsdesk auth login --phone <number>'")
}

// NewForbiddenError is returned when the route guard rejects a navigation.
func NewForbiddenError(path string) *NewsdeskError {
	return New(ErrCodeAuthForbidden, fmt.Sprintf("access to %s denied", path)).
		WithSuggestion("Run 'newsdesk auth status' to see your roles").
		WithSuggestion("Log in with an account that has the required role")
}

// NewArticleNotFoundError is the missing-data error for empty article lookups.
func NewArticleNotFoundError(id string) *NewsdeskError {
	msg := "Article not found"
	if id != "" {
		msg = fmt.Sprintf("Article not found: %s", id)
	}
	return New(ErrCodeArticleNotFound, msg)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *NewsdeskError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *NewsdeskError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
