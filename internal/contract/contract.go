// Package contract validates outgoing backend requests against the embedded
// OpenAPI description of the portal API.
package contract

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var specYAML []byte

// Document loads and validates the embedded contract, with its server set to baseURL
func Document(ctx context.Context, baseURL string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load API contract: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid API contract: %w", err)
	}

	if baseURL != "" {
		doc.Servers = openapi3.Servers{{URL: strings.TrimRight(baseURL, "/")}}
	}

	return doc, nil
}

// ViolationError is returned when a request does not match the contract
type ViolationError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface
func (e *ViolationError) Error() string {
	return fmt.Sprintf("request %s %s violates the API contract: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying validation error
func (e *ViolationError) Unwrap() error {
	return e.Err
}

// Validator checks requests against the contract
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewValidator builds a validator for requests addressed to baseURL
func NewValidator(ctx context.Context, baseURL string) (*Validator, error) {
	doc, err := Document(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build contract router: %w", err)
	}

	return &Validator{doc: doc, router: router}, nil
}

// ValidateRequest checks method, path, parameters and body of req.
// Multipart bodies are not inspected. req.Body is left readable.
func (v *Validator) ValidateRequest(ctx context.Context, req *http.Request) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return &ViolationError{Method: req.Method, Path: req.URL.Path, Err: err}
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			MultiError:         true,
		},
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		input.Options.ExcludeRequestBody = true
	}

	if err := openapi3filter.ValidateRequest(ctx, input); err != nil {
		return &ViolationError{Method: req.Method, Path: req.URL.Path, Err: err}
	}

	return nil
}

// Operations lists "METHOD path" for every operation in the contract
func (v *Validator) Operations() []string {
	var ops []string
	for path, item := range v.doc.Paths.Map() {
		for method := range item.Operations() {
			ops = append(ops, method+" "+path)
		}
	}
	sort.Strings(ops)
	return ops
}

// Transport is an http.RoundTripper that refuses requests violating the contract
type Transport struct {
	Validator *Validator
	// Base performs the request once validated; http.DefaultTransport when nil
	Base http.RoundTripper
}

// NewTransport wraps base with contract validation for requests to baseURL
func NewTransport(ctx context.Context, baseURL string, base http.RoundTripper) (*Transport, error) {
	v, err := NewValidator(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	return &Transport{Validator: v, Base: base}, nil
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to buffer request body: %w", err)
		}
	}

	check := req.Clone(req.Context())
	check.Body = io.NopCloser(bytes.NewReader(body))
	if err := t.Validator.ValidateRequest(req.Context(), check); err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	return base.RoundTrip(out)
}

// IsViolation reports whether err came from contract validation
func IsViolation(err error) bool {
	var v *ViolationError
	return errors.As(err, &v)
}
