// Package api is the single gateway to the LifeLink backend. All page
// controllers go through Client.Call instead of talking to net/http directly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lifelink/lifelink-web/internal/metrics"
)

// localHosts is the fixed hostname set that selects the local backend.
var localHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
}

// ResolveBaseURL picks the upstream base by comparing host against the
// local hostname set. No other parameterization.
func ResolveBaseURL(host, localBase, prodBase string) string {
	if localHosts[host] {
		return localBase
	}
	return prodBase
}

// TokenSource supplies the stored admin bearer token for the browser
// session carried by ctx. An empty string means no token is stored.
type TokenSource interface {
	AdminToken(ctx context.Context) string
}

// CallOptions mirror the options of the original apiCall wrapper.
type CallOptions struct {
	Method string // GET when empty
	Body   any    // serialized to JSON for non-GET methods
	Auth   bool   // attach the stored admin bearer token, when present
}

// Envelope is the backend's uniform response shape. Data stays raw so each
// controller decodes only the slice it needs.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	logger *slog.Logger
}

func NewClient(base string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		base:   base,
		http:   &http.Client{}, // no global timeout; callers bound via ctx
		tokens: tokens,
		logger: logger.With("component", "api_client"),
	}
}

// BaseURL returns the resolved upstream base.
func (c *Client) BaseURL() string { return c.base }

// Call performs exactly one round trip against base+endpoint. The response
// body is parsed on success and failure alike; a non-2xx status yields an
// *Error carrying the backend message when present. No retries, and the
// session store is never mutated here; 401 handling belongs to callers.
func (c *Client) Call(ctx context.Context, endpoint string, opts CallOptions) (*Envelope, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if opts.Body != nil && method != http.MethodGet {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if opts.Auth {
		// Absence of a token is not a local short-circuit: the request
		// still goes out and the backend decides.
		if token := c.tokens.AdminToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	status := fmt.Sprintf("%d", resp.StatusCode)
	metrics.UpstreamRequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(method, status).Inc()

	env := &Envelope{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			// Non-JSON bodies still surface as an error on non-2xx below.
			env = &Envelope{Data: raw}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: errorMessage(env.Message, resp.StatusCode),
			Data:    raw,
		}
	}

	return env, nil
}

func errorMessage(backendMsg string, status int) string {
	if backendMsg != "" {
		return backendMsg
	}
	return fmt.Sprintf("API Error (%d)", status)
}

// Ping reports whether the upstream answers at all; any HTTP response,
// whatever the status, counts as reachable. Used by the readiness checker.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/requests/search?limit=1", nil)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping upstream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
