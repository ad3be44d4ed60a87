package session

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/newsdesk/internal/contract"
	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
)

// ErrPhoneLocked is returned when the phone number is edited after an OTP was sent
var ErrPhoneLocked = nerrors.New(nerrors.ErrCodePhoneLocked, "phone number cannot be changed after the OTP was sent")

// ErrBusy is returned when a flow step is submitted while another is outstanding
var ErrBusy = nerrors.New(nerrors.ErrCodeSessionBusy, "a request is already in progress")

func cancelled(ctx context.Context) error {
	return nerrors.Wrap(nerrors.ErrCodeSessionCancelled, "request cancelled, response dropped", ctx.Err())
}

// APIFailure turns a backend client error into a coded error whose message is
// the backend's message when it sent one, else fallback.
func APIFailure(err error, code nerrors.ErrorCode, fallback string) error {
	msg := client.BackendMessage(err)
	if msg == "" {
		msg = fallback
	}

	switch {
	case contract.IsViolation(err):
		code = nerrors.ErrCodeAPIContract
	case errors.Is(err, client.ErrNoToken):
		return nerrors.NewNotLoggedInError()
	default:
		var tErr *client.TransportError
		if errors.As(err, &tErr) {
			code = nerrors.ErrCodeAPITransport
		}
	}

	wrapped := nerrors.Wrap(code, msg, err)

	// outside the auth calls a refusal means the session went stale or lacks a role
	var aErr *client.APIError
	if code == nerrors.ErrCodeAPIResponse && errors.As(err, &aErr) && aErr.IsUnauthorized() {
		wrapped.WithSuggestion("Your session may have expired or lack the required role. Run 'newsdesk auth login' again")
	}
	return wrapped
}

// UserMessage returns the text a view shows for err: the coded message
// without code, cause or suggestions.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var nErr *nerrors.NewsdeskError
	if errors.As(err, &nErr) {
		return nErr.Message
	}
	return err.Error()
}
