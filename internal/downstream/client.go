// Package downstream is a thin client for the food-ordering REST API the
// bridge forwards tool calls to.
package downstream

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

	"github.com/mwiater/orderbridge/internal/logging"
)

const (
	// DefaultTimeout applies when the caller does not supply one.
	DefaultTimeout = 10 * time.Second
	// maxErrorBody caps how much of a failed response body is kept.
	maxErrorBody = 512
)

var (
	// ErrNotConfigured is returned when no base URL was configured.
	ErrNotConfigured = errors.New("downstream base URL is not configured")
	// ErrNetwork wraps transport-level failures reaching the API.
	ErrNetwork = errors.New("downstream unreachable")
	// ErrBadJSON wraps responses whose body is not valid JSON.
	ErrBadJSON = errors.New("downstream returned invalid JSON")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Address  string `json:"address"`
}

// Client issues the three calls the bridge needs. The zero value is unusable; use New.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New returns a client for baseURL. An empty baseURL yields a client whose
// calls fail with ErrNotConfigured.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// GetMenu fetches GET /menu, forwarding category as a query parameter when set.
func (c *Client) GetMenu(ctx context.Context, category string) (any, error) {
	path := "/menu"
	if category = strings.TrimSpace(category); category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// CreateOrder posts an order to POST /orders.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (any, error) {
	return c.do(ctx, http.MethodPost, "/orders", order)
}

// GetOrderStatus fetches GET /orders/{orderID}.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (any, error) {
	return c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (any, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	target := c.baseURL + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		logging.LogRequest("BRIDGE->API", method+" "+target, "", data)
	} else {
		logging.LogRequest("BRIDGE->API", method+" "+target, "", nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %v", ErrNetwork, method, target, err)
	}
	logging.LogRequest("API->BRIDGE", method+" "+target, "", raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(raw), maxErrorBody),
		}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrBadJSON, method, target, err)
	}
	return doc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
