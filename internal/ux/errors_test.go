package ux

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
		wantNil    bool
	}{
		{
			name:       "nil error returns nil",
			err:        nil,
			suggestion: "some suggestion",
			wantNil:    true,
		},
		{
			name:       "error with suggestion",
			err:        errors.New("something failed"),
			suggestion: "try this fix",
		},
		{
			name:       "error without suggestion",
			err:        errors.New("something failed"),
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewErrorWithSuggestion(tt.err, tt.suggestion)
			if tt.wantNil {
				if result != nil {
					t.Errorf("NewErrorWithSuggestion() = %v, want nil", result)
				}
				return
			}

			if result == nil {
				t.Fatal("NewErrorWithSuggestion() returned nil, want error")
			}

			errMsg := result.Error()
			if !strings.Contains(errMsg, tt.err.Error()) {
				t.Errorf("Error message %q does not contain original error %q", errMsg, tt.err.Error())
			}

			if tt.suggestion != "" && !strings.Contains(errMsg, tt.suggestion) {
				t.Errorf("Error message %q does not contain suggestion %q", errMsg, tt.suggestion)
			}
		})
	}
}

func TestErrorWithSuggestionUnwrap(t *testing.T) {
	original := errors.New("original")
	wrapped := NewErrorWithSuggestion(original, "fix it")

	if !errors.Is(wrapped, original) {
		t.Error("errors.Is should find the original error")
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
	}{
		{
			name:           "session file permission",
			err:            errors.New("open /home/me/.newsdesk/session.json: permission denied"),
			wantSuggestion: "mode 0600",
		},
		{
			name:           "generic permission",
			err:            errors.New("open /tmp/x: permission denied"),
			wantSuggestion: "Check file permissions",
		},
		{
			name:           "sealed session mismatch",
			err:            errors.New("cipher: message authentication failed"),
			wantSuggestion: "NEWSDESK_PASSPHRASE",
		},
		{
			name:           "connection refused",
			err:            errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"),
			wantSuggestion: "dev-server",
		},
		{
			name:           "unknown host",
			err:            errors.New("dial tcp: lookup news.invalid: no such host"),
			wantSuggestion: "api.base_url",
		},
		{
			name:           "unauthorized",
			err:            errors.New("server returned 401"),
			wantSuggestion: "auth login",
		},
		{
			name:           "config file",
			err:            errors.New("yaml: line 3 in config.yaml"),
			wantSuggestion: "config view",
		},
		{
			name:           "failed to",
			err:            errors.New("failed to do something"),
			wantSuggestion: "newsdesk doctor",
		},
		{
			name:           "transport code",
			err:            nerrors.Wrap(nerrors.ErrCodeAPITransport, "request failed", errors.New("EOF")),
			wantSuggestion: "--api-url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceError(tt.err).Error()
			if !strings.Contains(got, tt.wantSuggestion) {
				t.Errorf("EnhanceError() = %q, want suggestion containing %q", got, tt.wantSuggestion)
			}
		})
	}
}

func TestEnhanceErrorPassthrough(t *testing.T) {
	if EnhanceError(nil) != nil {
		t.Error("EnhanceError(nil) should be nil")
	}

	coded := nerrors.NewOTPInvalidError()
	if EnhanceError(coded) != error(coded) {
		t.Error("coded errors should pass through unchanged")
	}

	plain := errors.New("nothing to add")
	if EnhanceError(plain) != plain {
		t.Error("unrecognised errors should pass through unchanged")
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil, "ctx") != nil {
		t.Error("FormatError(nil) should be nil")
	}

	err := FormatError(fmt.Errorf("boom"), "listing drafts")
	if !strings.HasPrefix(err.Error(), "listing drafts: boom") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
