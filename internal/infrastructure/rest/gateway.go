// Package rest is the single egress point for all back-office API
// calls. The Client attaches the stored bearer token to every request,
// unwraps the response envelope, and converts failures into the domain
// error taxonomy. Resource repositories in this package adapt the core
// ports onto the REST surface.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/infrastructure/metrics"
	"github.com/storegate/backoffice/internal/pkg/eventbus"
)

const defaultTimeout = 15 * time.Second

// Client implements ports.Gateway over HTTP.
type Client struct {
	base  string
	http  *http.Client
	store ports.TokenStore
	bus   eventbus.Bus
	log   zerolog.Logger
}

var _ ports.Gateway = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a gateway against baseURL. The token store is read
// immediately before each request; the bus (optional) receives
// TopicSessionExpired when a carried token is rejected.
func NewClient(baseURL string, store ports.TokenStore, bus eventbus.Bus, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: defaultTimeout},
		store: store,
		bus:   bus,
		log:   log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The store is consulted immediately before transmission; requests
	// proceed without a credential when none is present.
	token, hadToken := c.store.Get()
	if hadToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "network_error").Inc()
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "network_error").Inc()
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrNetworkUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.RequestsTotal.WithLabelValues(method, "success").Inc()
		if out == nil {
			return nil
		}
		if err := decodePayload(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
		return nil
	}

	return c.failure(method, path, resp.StatusCode, data, hadToken)
}

// failure maps a non-2xx response to the domain error taxonomy.
//
// A 401 is a session-invalidity signal only when the request carried a
// token; a credential-less 401 (the login call) is a plain rejection.
// Expiry handling never issues requests of its own, so a stale token
// can neither silently succeed nor loop.
func (c *Client) failure(method, path string, status int, body []byte, hadToken bool) error {
	detail := errorDetail(body, http.StatusText(status))

	switch status {
	case http.StatusUnauthorized:
		if hadToken {
			metrics.RequestsTotal.WithLabelValues(method, "session_expired").Inc()
			metrics.SessionExpiriesTotal.Inc()
			c.log.Warn().Str("method", method).Str("path", path).Msg("stored token rejected by backend")
			if c.bus != nil {
				c.bus.Publish(eventbus.TopicSessionExpired)
			}
			return fmt.Errorf("%s %s: %w", method, path, domain.ErrSessionExpired)
		}
		metrics.RequestsTotal.WithLabelValues(method, "auth_rejected").Inc()
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrAuthRejected)
	case http.StatusForbidden:
		metrics.RequestsTotal.WithLabelValues(method, "backend_error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrForbidden)
	case http.StatusNotFound:
		metrics.RequestsTotal.WithLabelValues(method, "backend_error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	}

	metrics.RequestsTotal.WithLabelValues(method, "backend_error").Inc()
	c.log.Debug().Str("method", method).Str("path", path).Int("status", status).Str("detail", detail).Msg("backend error")
	return fmt.Errorf("%s %s: %w", method, path, &domain.BackendError{Status: status, Detail: detail})
}
