// Package client is a Go client for the news portal backend.
//
// Usage:
//
//	c := client.New("http://localhost:8080", tokenStore)
//	page, err := c.ListArticles(ctx, types.PublishedFeed("science", 0))
//
// Every method is a single HTTP round trip. The client never retries and keeps no cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is used when no backend URL is configured
const DefaultBaseURL = "http://localhost:8080"

// RequestIDHeader carries the per-call correlation ID
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for authenticated endpoints
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

// StaticToken is a TokenSource that always returns the same token
type StaticToken string

// Token implements TokenSource
func (s StaticToken) Token(context.Context) (string, bool, error) {
	return string(s), s != "", nil
}

// Config holds optional client settings
type Config struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// Transport replaces http.DefaultTransport, e.g. with a validating round tripper
	Transport http.RoundTripper
	// UserAgent is sent with every request
	UserAgent string
	// Logger receives one debug record per request
	Logger *slog.Logger
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		UserAgent: "newsdesk-go",
	}
}

// Client talks to the portal backend
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// New creates a client with the default configuration
func New(baseURL string, tokens TokenSource) *Client {
	return NewWithConfig(baseURL, tokens, nil)
}

// NewWithConfig creates a client with custom configuration
func NewWithConfig(baseURL string, tokens TokenSource, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tokens == nil {
		tokens = StaticToken("")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultConfig().UserAgent
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// BaseURL returns the backend URL the client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call
type request struct {
	method  string
	path    string
	query   url.Values
	headers map[string]string
	auth    bool

	// body is JSON-encoded unless raw is set
	body        interface{}
	raw         io.Reader
	contentType string
}

// do performs the request and returns the raw response. The caller owns resp.Body.
func (c *Client) do(ctx context.Context, r request) (*http.Response, string, error) {
	var reqBody io.Reader
	contentType := r.contentType
	switch {
	case r.raw != nil:
		reqBody = r.raw
	case r.body != nil:
		jsonBody, err := json.Marshal(r.body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
		contentType = "application/json"
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	if r.auth {
		token, ok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, requestID, fmt.Errorf("failed to read token: %w", err)
		}
		if !ok {
			return nil, requestID, ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			"method", r.method, "path", r.path, "request_id", requestID, "error", err)
		return nil, requestID, &TransportError{Method: r.method, Path: r.path, Err: err}
	}

	c.logger.DebugContext(ctx, "api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	return resp, requestID, nil
}

// call performs the request and decodes a JSON response into target
func (c *Client) call(ctx context.Context, r request, target interface{}) (http.Header, error) {
	resp, requestID, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := parseResponse(resp, requestID, target); err != nil {
		return nil, err
	}
	return resp.Header, nil
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseResponse parses the response body into the target struct.
// An empty 2xx body leaves target untouched.
func parseResponse(resp *http.Response, requestID string, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}

		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Message != "" {
				apiErr.Message = errResp.Message
			} else {
				apiErr.Message = errResp.Error
			}
		}
		if apiErr.Message == "" {
			apiErr.Body = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
