// Package tokenstore persists the bearer token and the cached user profile
// between newsdesk invocations.
package tokenstore

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// Keys under which session data is stored
const (
	KeyToken = "token"
	KeyUser  = "loggedInUser"
)

// Store reads and writes session data through a Backend.
// It never validates the token; presence is the only signal.
type Store struct {
	backend Backend
	logger  *log.Logger
}

// New creates a Store on top of backend
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{backend: backend, logger: logger.With("component", "tokenstore")}
}

// Token returns the stored token and whether one is present
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	token, ok, err := s.backend.Get(ctx, KeyToken)
	if err != nil {
		return "", false, err
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// SetToken overwrites the stored token
func (s *Store) SetToken(ctx context.Context, token string) error {
	if err := s.backend.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "token stored", "fingerprint", Fingerprint(token))
	return nil
}

// ClearToken removes the token. The cached profile is left in place.
func (s *Store) ClearToken(ctx context.Context) error {
	if err := s.backend.Delete(ctx, KeyToken); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "token cleared")
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	_, ok, err := s.Token(ctx)
	return ok, err
}

// SetUserData overwrites the cached profile snapshot
func (s *Store) SetUserData(ctx context.Context, user types.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to encode user profile", err)
	}
	return s.backend.Set(ctx, KeyUser, string(data))
}

// ClearUserData removes the cached profile
func (s *Store) ClearUserData(ctx context.Context) error {
	if err := s.backend.Delete(ctx, KeyUser); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "user profile cleared")
	return nil
}

// UserData returns the cached profile snapshot, or nil when none is stored
func (s *Store) UserData(ctx context.Context) (*types.UserProfile, error) {
	raw, ok, err := s.backend.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" || raw == "null" {
		return nil, nil
	}

	var user types.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreCorrupt, "cached user profile is not valid JSON", err)
	}
	return &user, nil
}

// Fingerprint returns a short, non-reversible identifier for a token, safe to log
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake3.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
