// internal/common/services/client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ecommerce-gateway/internal/common/metrics"
)

// ErrorKind classifies the failure of a single downstream call.
type ErrorKind string

const (
	KindTimeout           ErrorKind = "TIMEOUT"
	KindUnreachable       ErrorKind = "UNREACHABLE"
	KindMalformedResponse ErrorKind = "MALFORMED_UPSTREAM_RESPONSE"
)

// CallError is the classified failure of one downstream call. It never
// escalates past the call that produced it; the coordinator records it per
// service entry.
type CallError struct {
	Service string
	Kind    ErrorKind
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s[%s]: %s", e.Service, e.Kind, e.Message)
}

// AsCallError unwraps err into a *CallError, wrapping unknown errors as
// UNREACHABLE so callers always get a classified result.
func AsCallError(service string, err error) *CallError {
	if ce, ok := err.(*CallError); ok {
		return ce
	}
	return &CallError{Service: service, Kind: KindUnreachable, Message: err.Error()}
}

// Client is one downstream HTTP service endpoint with its own per-call timeout.
type Client struct {
	name       string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(name, baseURL string, timeout time.Duration) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Name() string { return c.name }

// GetJSON performs a GET with the per-call timeout layered under ctx and
// returns the raw JSON payload.
func (c *Client) GetJSON(ctx context.Context, path string) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil, "")
}

// PostJSON marshals body and performs a POST with the per-call timeout.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &CallError{Service: c.name, Kind: KindMalformedResponse, Message: fmt.Sprintf("encode request: %v", err)}
	}
	return c.doJSON(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json")
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	payload, err := c.roundTrip(callCtx, method, path, body, contentType)
	metrics.DownstreamCallDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	if err != nil {
		ce := AsCallError(c.name, err)
		metrics.DownstreamCalls.WithLabelValues(c.name, strings.ToLower(string(ce.Kind))).Inc()
		return nil, ce
	}
	metrics.DownstreamCalls.WithLabelValues(c.name, "success").Inc()
	return payload, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &CallError{Service: c.name, Kind: KindUnreachable, Message: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, c.classifyTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CallError{
			Service: c.name,
			Kind:    KindMalformedResponse,
			Message: fmt.Sprintf("upstream returned %d: %s", resp.StatusCode, truncate(string(raw), 256)),
		}
	}

	if !json.Valid(raw) {
		return nil, &CallError{
			Service: c.name,
			Kind:    KindMalformedResponse,
			Message: "upstream body is not valid JSON",
		}
	}

	return json.RawMessage(raw), nil
}

// Forward performs a passthrough call and returns the upstream status and body
// verbatim. Transport failures are classified like any other call.
func (c *Client) Forward(ctx context.Context, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, &CallError{Service: c.name, Kind: KindUnreachable, Message: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.DownstreamCallDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	if err != nil {
		ce := c.classifyTransportError(callCtx, err)
		metrics.DownstreamCalls.WithLabelValues(c.name, strings.ToLower(string(ce.Kind))).Inc()
		return 0, nil, ce
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		ce := c.classifyTransportError(callCtx, err)
		metrics.DownstreamCalls.WithLabelValues(c.name, strings.ToLower(string(ce.Kind))).Inc()
		return 0, nil, ce
	}

	metrics.DownstreamCalls.WithLabelValues(c.name, "success").Inc()
	return resp.StatusCode, raw, nil
}

func (c *Client) classifyTransportError(ctx context.Context, err error) *CallError {
	if ctx.Err() == context.DeadlineExceeded ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline") ||
		strings.Contains(err.Error(), "Client.Timeout") {
		return &CallError{Service: c.name, Kind: KindTimeout, Message: "call exceeded timeout"}
	}
	return &CallError{Service: c.name, Kind: KindUnreachable, Message: err.Error()}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
