package exitcode

import (
	"os"
	"strings"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, invalid input)
	UsageError = 2

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// NotFound indicates that the requested article does not exist
	NotFound = 7

	// Interrupted indicates the user cancelled the command (Ctrl+C)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Coded errors are mapped by family; anything else falls back to message matching.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if code := nerrors.CodeOf(err); code != "" {
		family := string(code)
		if i := strings.IndexByte(family, '-'); i > 0 {
			family = family[:i]
		}
		switch family {
		case "AUTH":
			return AuthError
		case "VALIDATION":
			return UsageError
		case "ARTICLE":
			if code == nerrors.ErrCodeArticleNotFound {
				return NotFound
			}
			return GeneralError
		case "API":
			if code == nerrors.ErrCodeAPITransport {
				return NetworkError
			}
		case "SESSION":
			if code == nerrors.ErrCodeSessionCancelled {
				return Interrupted
			}
		}
	}

	errMsg := strings.ToLower(err.Error())

	// Authentication errors
	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "forbidden") || strings.Contains(errMsg, "logged in") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or input)"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case NotFound:
		return "Not found"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
