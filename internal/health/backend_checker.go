package health

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// Lister is the one client call the backend check needs.
type Lister interface {
	ListArticles(ctx context.Context, q types.ArticleQuery) (*types.Page, error)
}

// BackendChecker probes the public article listing.
type BackendChecker struct {
	api     Lister
	baseURL string
}

// NewBackendChecker creates a checker against api, reporting baseURL in details.
func NewBackendChecker(api Lister, baseURL string) *BackendChecker {
	return &BackendChecker{api: api, baseURL: baseURL}
}

// Name returns the name of this health check.
func (c *BackendChecker) Name() string {
	return "backend-api"
}

// Check returns:
//   - Healthy when the listing answers 2xx
//   - Degraded when the backend answers with an error status
//   - Unhealthy when the backend cannot be reached
func (c *BackendChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	page, err := c.api.ListArticles(ctx, types.PublishedFeed("", 1))
	latency := time.Since(start)

	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return Degraded("backend answered with an error").
				WithDetail("base_url", c.baseURL).
				WithDetail("status_code", apiErr.StatusCode).
				WithDetail("error", err.Error()).
				WithLatency(latency)
		}
		return Unhealthy("backend is unreachable").
			WithDetail("base_url", c.baseURL).
			WithDetail("error", err.Error()).
			WithDetail("suggestion", "Start a local backend with 'newsdesk dev-server' or set --api-url").
			WithLatency(latency)
	}

	return Healthy("backend is reachable").
		WithDetail("base_url", c.baseURL).
		WithDetail("published_articles", page.TotalElements).
		WithLatency(latency)
}
