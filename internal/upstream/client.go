// Package upstream provides the typed HTTP client for the backend REST API.
//
// Every proxied call goes through Client.Do, which owns deadline handling,
// bearer-token attachment, envelope parsing and error normalization. The
// error taxonomy lives in internal/domain.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/careport/clinicgate/internal/domain"
	"github.com/careport/clinicgate/internal/resilience"
)

// DefaultTimeout is the hard deadline applied when a request sets none.
const DefaultTimeout = 30 * time.Second

const maxLoggedBody = 256

// Request describes one upstream call.
type Request struct {
	Method   string
	Path     string      // upstream path, e.g. /api/v1/appointments
	RawQuery string      // forwarded verbatim
	Body     []byte      // pre-serialized JSON for POST/PUT
	Header   http.Header // extra headers, e.g. forwarded Authorization
	Timeout  time.Duration
}

// Result is one normalized upstream response.
// Body is the raw payload; Envelope its parsed form.
type Result struct {
	Status   int
	Body     []byte
	Envelope Envelope
}

// Client talks to the upstream REST backend.
// Each call is independent; Client holds no per-request state and is safe
// for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.Breaker
	log        *slog.Logger
	timeout    time.Duration
}

// New creates an upstream client. baseURL must be set; an empty value is a
// configuration error surfaced immediately rather than on first call.
func New(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, &domain.ConfigError{Setting: "backend.base_url", Reason: "upstream base URL is not set"}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		// The per-call deadline is enforced via context, not http.Client.Timeout,
		// so each request can carry its own budget.
		httpClient: &http.Client{},
		log:        log,
		timeout:    timeout,
	}, nil
}

// SetBreaker attaches a circuit breaker to the transport layer of all calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Do performs one upstream call and normalizes the outcome.
//
// Failure modes, in the order they are detected:
//   - *domain.TimeoutError: the deadline expired; the in-flight request is
//     cancelled and its connection released.
//   - *domain.MalformedResponseError: the body is not a JSON envelope.
//   - *domain.UpstreamError: non-2xx status; carries the envelope message
//     and the raw body for verbatim passthrough.
//   - *domain.ApplicationError: 2xx status but success=false.
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	budget := req.Timeout
	if budget <= 0 {
		budget = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	url := c.baseURL + req.Path
	if req.RawQuery != "" {
		url += "?" + req.RawQuery
	}

	c.log.Debug("upstream request", "method", req.Method, "url", url)

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.send(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.log.Warn("upstream timeout", "method", req.Method, "url", url, "budget", budget)
			return nil, &domain.TimeoutError{Budget: budget}
		}
		c.log.Error("upstream unreachable", "method", req.Method, "url", url, "error", err)
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &domain.TimeoutError{Budget: budget}
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Error("upstream malformed response",
			"method", req.Method, "url", url,
			"status", resp.StatusCode, "body", truncate(data))
		return nil, &domain.MalformedResponseError{Status: resp.StatusCode, StatusText: resp.Status}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.ErrorMessage(fmt.Sprintf("HTTP %d", resp.StatusCode))
		c.log.Warn("upstream error response",
			"method", req.Method, "url", url, "status", resp.StatusCode, "message", msg)
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Message: msg, Body: data}
	}

	if !env.Success {
		msg := env.ErrorMessage("upstream reported failure")
		c.log.Warn("upstream application error",
			"method", req.Method, "url", url, "status", resp.StatusCode, "message", msg)
		return nil, &domain.ApplicationError{Status: resp.StatusCode, Message: msg, Body: data}
	}

	c.log.Debug("upstream response", "method", req.Method, "url", url, "status", resp.StatusCode)
	return &Result{Status: resp.StatusCode, Body: data, Envelope: env}, nil
}

// send runs the transport call, through the breaker when one is attached.
// Only transport-level failures count against the breaker; protocol-level
// errors (non-2xx, bad envelopes) come from a reachable upstream.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}

	var resp *http.Response
	err := c.breaker.Execute(func() error {
		var callErr error
		resp, callErr = c.httpClient.Do(req)
		return callErr
	})
	return resp, err
}

// Get performs a GET and decodes the envelope data into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, *Pagination, error) {
	var out T
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return out, nil, err
	}
	if res.Envelope.Data != nil {
		if err := json.Unmarshal(res.Envelope.Data, &out); err != nil {
			return out, nil, fmt.Errorf("decode %s data: %w", path, err)
		}
	}
	return out, res.Envelope.Pagination, nil
}

// truncate shortens body excerpts for log lines. Bodies can carry PII, so
// only a short prefix is ever logged.
func truncate(b []byte) string {
	if len(b) <= maxLoggedBody {
		return string(b)
	}
	return string(b[:maxLoggedBody]) + "..."
}
