// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the DreamHub API client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries is the number of attempts for transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize limits response bodies to prevent memory
	// exhaustion from a misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024

	// userAgent identifies the client to the backend.
	userAgent = "dreamhub-tui/0.1.0"
)

// sharedTransport pools connections across all clients.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// TokenProvider returns the current bearer token, or "" when the
// session is unauthenticated.
type TokenProvider func() string

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to a DreamHub backend. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter

	token          TokenProvider
	onUnauthorized func()
}

// NewClient creates a client for the given base URL, e.g.
// "https://hub.example.com". The /api/v1 prefix is appended per request.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		maxRetries: DefaultMaxRetries,
		// Gentle client-side ceiling so a tight UI loop cannot hammer
		// the backend: 10 req/s sustained, bursts of 20.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithMaxRetries sets the maximum number of attempts for transient errors.
func (c *Client) WithMaxRetries(n int) *Client {
	if n < 1 {
		n = 1
	}
	c.maxRetries = n
	return c
}

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// SetTokenProvider wires the session's token source. Requests to
// authenticated endpoints read the token at send time, so a login or
// logout takes effect immediately.
func (c *Client) SetTokenProvider(tp TokenProvider) {
	c.token = tp
}

// SetUnauthorizedHook registers the callback fired when any
// authenticated endpoint answers 401. The session layer uses it to
// force a logout regardless of which action hit the expired token.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST CORE
// =============================================================================

// do executes one API call with retry and typed error mapping.
// authed selects bearer-token injection and 401-hook semantics; body
// may be nil for GET/DELETE; out may be nil to discard the response.
func (c *Client) do(ctx context.Context, method, path string, authed bool, contentType string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := c.baseURL + "/api/v1" + path

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		err := c.doOnce(ctx, method, url, authed, contentType, body, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doOnce performs a single HTTP round trip.
func (c *Client) doOnce(ctx context.Context, method, url string, authed bool, contentType string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", userAgent)
	if authed && c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	logResponse(resp, time.Since(start))

	respBody, err := readLimited(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp.StatusCode, respBody, authed)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: malformed response body: %v", ErrNetwork, err)
		}
	}
	return nil
}

// errorResponse is the backend's error envelope. Some handlers nest an
// object under "error", others send a flat string.
type errorResponse struct {
	Error   json.RawMessage `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

// errorFromResponse maps an HTTP error to the client taxonomy and
// fires the unauthorized hook for expired tokens.
func (c *Client) errorFromResponse(status int, body []byte, authed bool) error {
	apiErr := &APIError{Status: status, Message: strings.TrimSpace(string(body))}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Code
		if envelope.Message != "" {
			apiErr.Message = envelope.Message
		} else if len(envelope.Error) > 0 {
			// "error" is either a plain string or an object with its
			// own message field.
			var s string
			if json.Unmarshal(envelope.Error, &s) == nil {
				apiErr.Message = s
			} else {
				var nested struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				}
				if json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "" {
					apiErr.Code = nested.Code
					apiErr.Message = nested.Message
				}
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		if authed {
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		}
		return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	default:
		return apiErr
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// readLimited reads a response body with a size cap.
func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded %d bytes", MaxResponseSize)
	}
	return body, nil
}

// isRetryable reports whether a request error warrants another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}
	// Transport-level failures may be transient.
	return errors.Is(err, ErrNetwork)
}

// backoff returns the delay before retry attempt n (1-based).
func backoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// logRequest logs method and path only - never headers or bodies,
// which can carry tokens and message content.
func logRequest(req *http.Request) {
	log.Printf("api request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status and duration only.
func logResponse(resp *http.Response, d time.Duration) {
	log.Printf("api response: %d (%v)", resp.StatusCode, d)
}

// getJSON issues an authenticated GET and decodes the response.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, true, "", nil, out)
}

// postJSON issues a POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, authed bool, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, authed, "application/json", body, out)
}

// putJSON issues an authenticated PUT with a JSON body.
func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, true, "application/json", body, out)
}

// deleteJSON issues an authenticated DELETE.
func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, true, "", nil, out)
}
