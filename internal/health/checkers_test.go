package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/newsdesk/internal/tokenstore"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

func TestBackendChecker(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(types.Page{TotalElements: 4})
		}
	}))
	defer srv.Close()

	c := NewBackendChecker(client.New(srv.URL, nil), srv.URL)
	assert.Equal(t, "backend-api", c.Name())

	r := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, int64(4), r.Details["published_articles"])

	status = http.StatusInternalServerError
	r = c.Check(context.Background())
	assert.Equal(t, StatusDegraded, r.Status)
	assert.Equal(t, http.StatusInternalServerError, r.Details["status_code"])

	srv.Close()
	r = c.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, r.Status)
	assert.Contains(t, r.Details["suggestion"], "dev-server")
}

func TestTokenStoreChecker(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := tokenstore.New(tokenstore.NewFileBackend(path), nil)
	c := NewTokenStoreChecker(store, path)

	assert.Equal(t, StatusDegraded, c.Check(ctx).Status, "missing file means logged out")

	require.NoError(t, store.SetToken(ctx, "T"))
	require.NoError(t, store.SetUserData(ctx, types.UserProfile{Username: "alice"}))
	r := c.Check(ctx)
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, tokenstore.Fingerprint("T"), r.Details["fingerprint"])
	assert.Equal(t, "alice", r.Details["user"])

	require.NoError(t, os.Chmod(path, 0o644))
	r = c.Check(ctx)
	assert.Equal(t, StatusDegraded, r.Status)
	assert.Contains(t, r.Details["suggestion"], "chmod 600")

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Equal(t, StatusUnhealthy, c.Check(ctx).Status)
}

func TestTokenStoreCheckerMemory(t *testing.T) {
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	c := NewTokenStoreChecker(store, "")

	assert.Equal(t, StatusDegraded, c.Check(context.Background()).Status)
}

func TestConfigChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	c := NewConfigChecker(path)

	r := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Contains(t, r.Message, "defaults")

	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://x\n"), 0o600))
	assert.Equal(t, StatusHealthy, c.Check(context.Background()).Status)

	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed\n"), 0o600))
	assert.Equal(t, StatusUnhealthy, c.Check(context.Background()).Status)
}

func TestContractChecker(t *testing.T) {
	r := NewContractChecker("http://localhost:8080").Check(context.Background())
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, 9, r.Details["operations"])
}
