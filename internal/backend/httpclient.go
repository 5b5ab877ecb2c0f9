// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"portal/cli/internal/config"
	perrors "portal/cli/internal/errors"
	"portal/cli/internal/logging"
)

// ErrUnauthorized is returned when the API answers 401.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError describes a non-2xx response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.Status, e.Body)
}

// Unwrap maps 401 onto ErrUnauthorized.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// HTTP implements API over REST endpoints.
// Default headers set through SetBearer are applied to every request it sends.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://portal.example.com/api")
	baseURL string
	// endpoints contains the URL paths for various API endpoints
	endpoints config.Endpoints
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	// userAgent identifies the CLI build
	userAgent string
	log       *logging.Logger

	mu       sync.RWMutex
	defaults http.Header
}

// Option customizes an HTTP client.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option { return func(h *HTTP) { h.client = c } }

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option { return func(h *HTTP) { h.userAgent = ua } }

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option { return func(h *HTTP) { h.log = l } }

// New creates a new HTTP client with the given base URL and endpoints.
func New(baseURL string, endpoints config.Endpoints, timeout time.Duration, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
		userAgent: "portal-cli",
		log:       logging.Discard(),
		defaults:  http.Header{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetBearer makes every following request carry "Authorization: Bearer <token>".
func (h *HTTP) SetBearer(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.defaults.Set("Authorization", "Bearer "+token)
}

// ClearBearer deletes the default Authorization header.
func (h *HTTP) ClearBearer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.defaults.Del("Authorization")
}

// Bearer returns the token currently attached to requests, or "".
func (h *HTTP) Bearer() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return parseBearerToken(h.defaults.Get("Authorization"))
}

// do applies the default headers, a request id and the user agent, then sends req.
func (h *HTTP) do(req *http.Request) (*http.Response, error) {
	h.mu.RLock()
	for k, vals := range h.defaults {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	h.mu.RUnlock()

	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("User-Agent", h.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.log.WithError(err).Debug("request failed", "method", req.Method, "path", req.URL.Path, "request_id", reqID)
		return nil, err
	}
	h.log.Debug("request", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))
	return resp, nil
}

// statusError drains a failed response into a StatusError.
func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Op: op, Status: resp.StatusCode, Body: logging.Mask(strings.TrimSpace(string(b)))}
}

// networkFailure tags transport and status errors so callers can tell them from decode errors.
func networkFailure(op string, err error) error {
	return perrors.Wrap(perrors.NetworkFailure, op, err)
}

// GetVersion calls GET <version> and returns the version string when available.
// No authentication required. This can be used to check connectivity to the API.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Version, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.do(req)
	if err != nil {
		return "", networkFailure("version", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}
