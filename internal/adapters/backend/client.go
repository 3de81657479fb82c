package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors mapped from backend HTTP statuses.
var (
	// ErrUnauthorized covers 401 and 403: the bearer token is missing,
	// expired, or revoked. Handlers clear the session and redirect to login.
	ErrUnauthorized = errors.New("backend rejected credentials")
	// ErrNotFound covers 404 on entity endpoints.
	ErrNotFound = errors.New("entity not found")
)

// APIError is a non-2xx backend response that is not an auth or not-found
// condition. Message is extracted from a {"message": ...} body when present,
// else the HTTP status text.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Message)
}

// contextKey is an unexported type for context keys in this package.
type contextKey string

const tokenContextKey contextKey = "bearer_token"

// ContextWithToken returns a context carrying the bearer token for
// outgoing backend calls.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext extracts the bearer token from the context, if any.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// DefaultTimeout bounds every backend call. The original left timeouts to
// transport defaults; a hung backend must not pin console request handlers.
const DefaultTimeout = 15 * time.Second

// Client is the authenticated REST client for the admin backend. Every
// request carries the bearer token from the context when one is present;
// without a token the request is sent bare and the backend's auth rejection
// is surfaced as ErrUnauthorized. No retry, refresh, or queueing.
type Client struct {
	httpClient *http.Client
	baseURL    string // admin API base, e.g. http://backend:8080/api/admin
	observer   Observer
}

// Observer receives the timing of each completed backend call. status is
// 0 when the call failed before a response arrived.
type Observer func(method, path string, status int, elapsed time.Duration)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver installs a call timing observer.
func WithObserver(fn Observer) Option {
	return func(c *Client) { c.observer = fn }
}

// New creates a backend Client rooted at baseURL.
// PRE: baseURL is non-empty, without a trailing slash requirement
// POST: Returns a ready-to-use client with a bounded timeout
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured admin API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes a JSON body into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE. An empty 2xx body is success; a body-bearing 2xx
// is also success and is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do performs one backend call.
// PRE: method and path are valid; body is JSON-marshalable or nil
// POST: on 2xx, out is populated when the response carries a body;
// an empty body with a non-nil out leaves out untouched
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.observer != nil {
			c.observer(method, path, 0, time.Since(start))
		}
		return fmt.Errorf("backend call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if c.observer != nil {
		c.observer(method, path, resp.StatusCode, time.Since(start))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		// Empty success body: nothing to decode.
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// statusError maps a non-2xx response to a sentinel or APIError.
func statusError(status int, raw []byte) error {
	msg := extractMessage(raw)
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return &APIError{StatusCode: status, Message: msg}
}

// extractMessage pulls the message field out of an error body, tolerating
// non-JSON bodies.
func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}
