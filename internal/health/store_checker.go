package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/felixgeelhaar/newsdesk/internal/tokenstore"
)

// TokenStoreChecker verifies the session file can be read and is private.
type TokenStoreChecker struct {
	store *tokenstore.Store
	path  string
}

// NewTokenStoreChecker creates a checker. path may be empty for non-file stores.
func NewTokenStoreChecker(store *tokenstore.Store, path string) *TokenStoreChecker {
	return &TokenStoreChecker{store: store, path: path}
}

// Name returns the name of this health check.
func (c *TokenStoreChecker) Name() string {
	return "token-store"
}

// Check returns:
//   - Healthy with a stored token
//   - Degraded when logged out or the file is readable by others
//   - Unhealthy when the store cannot be read
func (c *TokenStoreChecker) Check(ctx context.Context) *Result {
	if c.path != "" {
		info, err := os.Stat(c.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return Degraded("not logged in").
				WithDetail("path", c.path).
				WithDetail("suggestion", "Run 'newsdesk auth login --phone <number>'")
		case err != nil:
			return Unhealthy("session file cannot be inspected").
				WithDetail("path", c.path).
				WithDetail("error", err.Error())
		case info.Mode().Perm()&0o077 != 0:
			return Degraded("session file is readable by other users").
				WithDetail("path", c.path).
				WithDetail("mode", fmt.Sprintf("%#o", info.Mode().Perm())).
				WithDetail("suggestion", fmt.Sprintf("chmod 600 %s", c.path))
		}
	}

	token, ok, err := c.store.Token(ctx)
	if err != nil {
		return Unhealthy("session store cannot be read").
			WithDetail("path", c.path).
			WithDetail("error", err.Error()).
			WithDetail("suggestion", "Run 'newsdesk auth logout' and log in again")
	}
	if !ok {
		return Degraded("not logged in").
			WithDetail("path", c.path).
			WithDetail("suggestion", "Run 'newsdesk auth login --phone <number>'")
	}

	r := Healthy("token stored").
		WithDetail("path", c.path).
		WithDetail("fingerprint", tokenstore.Fingerprint(token))
	if user, err := c.store.UserData(ctx); err == nil && user != nil {
		r.WithDetail("user", user.Username)
	}
	return r
}
