package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/newsdesk/internal/authz"
	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/health"
)

func decodeRoute(t *testing.T, out string) authz.NavigationResult {
	t.Helper()
	var res authz.NavigationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func TestRouteAnonymous(t *testing.T) {
	h := newHarness(t)

	res := decodeRoute(t, h.mustRun("route", "/create-article", "--format", "json"))
	assert.Equal(t, "create-article", res.Route)
	assert.False(t, res.Decision.Allowed)
	assert.Equal(t, authz.RedirectPath, res.Decision.Redirect)

	res = decodeRoute(t, h.mustRun("route", "/tag/politics", "--format", "json"))
	assert.Equal(t, "tag", res.Route)
	assert.Equal(t, "politics", res.Params["tag"])
	assert.True(t, res.Decision.Allowed)

	res = decodeRoute(t, h.mustRun("route", "/no/such/page", "--format", "json"))
	assert.Equal(t, authz.NotFound, res.Route)
	assert.True(t, res.Decision.Allowed)
}

func TestRouteCheck(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("route", "/review-article/a1", "--check", "--no-color")
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeAuthNotLoggedIn, nerrors.CodeOf(err))
	assert.Contains(t, out, "refused")
	assert.Contains(t, out, "Param:    id=a1")

	h.login(alicePhone)
	_, err = h.run("route", "/review-article/a1", "--check")
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeAuthForbidden, nerrors.CodeOf(err))

	out = h.mustRun("route", "/edit-article/a1", "--check", "--no-color")
	assert.Contains(t, out, "allowed")
}

func TestDoctor(t *testing.T) {
	h := newHarness(t)
	h.login(alicePhone)

	out := h.mustRun("doctor", "--format", "json")
	var report health.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)

	names := map[string]health.Status{}
	for _, c := range report.Checks {
		names[c.Name] = c.Status
	}
	require.Len(t, names, 4)
	assert.Equal(t, health.StatusHealthy, names["config"])
	assert.Equal(t, health.StatusHealthy, names["backend-api"])
	assert.Contains(t, names, "token-store")
	assert.Contains(t, names, "api-contract")
}

func TestDoctorBrokenConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.home, "config.yaml"), []byte("api: [unclosed"), 0o600))

	_, err := h.run("doctor", "--no-color")
	require.Error(t, err)
}

func TestParsePublishDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-11-03", time.Date(2026, 11, 3, 0, 0, 0, 0, time.Local)},
		{"2026-11-03 14:30", time.Date(2026, 11, 3, 14, 30, 0, 0, time.Local)},
		{"2026-11-03T14:30:00Z", time.Date(2026, 11, 3, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePublishDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	_, err := parsePublishDate("tomorrow")
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeFieldRequired, nerrors.CodeOf(err))
}
