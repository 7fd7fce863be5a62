package console

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

	"curator/internal/catalog"
)

const userAgent = "Curator/1.0"

const defaultTimeout = 30 * time.Second

// ResultCode is the console's per-request business outcome. Zero means the
// request was accepted; any other value is a rejection the console explains
// in its own audit log.
type ResultCode int

// Accepted reports whether the console accepted the request.
func (c ResultCode) Accepted() bool { return c == 0 }

func (c ResultCode) String() string {
	if c == 0 {
		return "accepted"
	}
	return fmt.Sprintf("rejected (code %d)", int(c))
}

// Service is the console surface the sync engine depends on.
type Service interface {
	// ListUncategorized returns inventory records awaiting categorization,
	// in console order.
	ListUncategorized(ctx context.Context) ([]catalog.Record, error)
	// Summary returns the console's current categorization counters.
	Summary(ctx context.Context) (catalog.Summary, error)
	// SubmitCategorization asks the console to categorize one record. A
	// non-zero code with a nil error is a per-record rejection, not a
	// transport failure.
	SubmitCategorization(ctx context.Context, key string) (ResultCode, error)
	// RequestCatalogSync asks the console to refresh its catalog. Consoles
	// rate-limit this internally, so rejections are routine.
	RequestCatalogSync(ctx context.Context) (ResultCode, error)
}

// Client talks to the console's HTTP API.
type Client struct {
	endpoint   Endpoint
	token      string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a console client for the resolved endpoint. The timeout
// applies per request; zero or negative values select the default.
func New(endpoint Endpoint, token string, timeout time.Duration, opts ...Option) (*Client, error) {
	endpoint.BaseURL = strings.TrimRight(strings.TrimSpace(endpoint.BaseURL), "/")
	if endpoint.BaseURL == "" {
		return nil, errors.New("console base url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &Client{
		endpoint:   endpoint,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type listResponse struct {
	Records []catalog.Record `json:"records"`
}

type submitRequest struct {
	Key string `json:"key"`
}

type resultResponse struct {
	ResultCode ResultCode `json:"result_code"`
}

func (c *Client) ListUncategorized(ctx context.Context) ([]catalog.Record, error) {
	var payload listResponse
	if err := c.get(ctx, "/api/inventory/uncategorized", &payload, "list uncategorized", ErrUnreachable); err != nil {
		return nil, err
	}
	return payload.Records, nil
}

func (c *Client) Summary(ctx context.Context) (catalog.Summary, error) {
	var payload catalog.Summary
	if err := c.get(ctx, "/api/inventory/summary", &payload, "read summary", ErrUnreachable); err != nil {
		return catalog.Summary{}, err
	}
	return payload, nil
}

func (c *Client) SubmitCategorization(ctx context.Context, key string) (ResultCode, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, Wrap(ErrSubmission, "submit categorization", "record key is required", nil)
	}
	var payload resultResponse
	if err := c.post(ctx, "/api/categorization/requests", submitRequest{Key: key}, &payload, "submit categorization", ErrSubmission); err != nil {
		return 0, err
	}
	return payload.ResultCode, nil
}

func (c *Client) RequestCatalogSync(ctx context.Context) (ResultCode, error) {
	var payload resultResponse
	if err := c.post(ctx, "/api/catalog/sync", nil, &payload, "request catalog sync", ErrSubmission); err != nil {
		return 0, err
	}
	return payload.ResultCode, nil
}

func (c *Client) get(ctx context.Context, path string, out any, operation string, marker error) error {
	return c.do(ctx, http.MethodGet, path, nil, out, operation, marker)
}

func (c *Client) post(ctx context.Context, path string, body, out any, operation string, marker error) error {
	return c.do(ctx, http.MethodPost, path, body, out, operation, marker)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, operation string, marker error) error {
	endpoint, err := url.Parse(c.endpoint.BaseURL + path)
	if err != nil {
		return Wrap(marker, operation, "parse console url", err)
	}
	if c.endpoint.Site != "" {
		params := url.Values{}
		params.Set("site", c.endpoint.Site)
		endpoint.RawQuery = params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Wrap(marker, operation, "encode request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return Wrap(marker, operation, "create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return Wrap(marker, operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := strings.TrimSpace(string(data))
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return Wrap(marker, operation, fmt.Sprintf("console returned status %d (latency=%v): %s", resp.StatusCode, latency, detail), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Wrap(marker, operation, "decode response", err)
	}
	return nil
}
