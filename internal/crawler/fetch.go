package crawler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default fetch client settings.
const (
	// defaultUserAgent identifies linkinator in HTTP requests. A
	// descriptive User-Agent lets operators recognize checker traffic
	// in their logs.
	defaultUserAgent = "linkinator/1.0 (+https://github.com/davidhauck/linkinator)"

	// defaultMaxBodySize limits how much of an HTML response is read
	// for link extraction. 5MB covers any realistic page while
	// preventing memory exhaustion from unexpectedly large responses.
	defaultMaxBodySize = 5 * 1024 * 1024
)

// Client performs liveness checks against single URLs.
//
// Design decision: We take an external *http.Client rather than building
// one internally because:
//  1. Timeout and transport configuration belong to the caller
//  2. Connection pooling can be shared across a whole crawl
//  3. Tests can inject httptest servers and custom transports
type Client struct {
	// hc is the underlying HTTP client.
	hc *http.Client

	// userAgent is the User-Agent header sent on every request.
	userAgent string

	// maxBodySize limits the bytes read from HTML responses.
	maxBodySize int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientUserAgent sets a custom User-Agent header.
func WithClientUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size read for parsing.
func WithMaxBodySize(size int64) ClientOption {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// NewClient creates a fetch client on top of the given HTTP client.
// If hc is nil, a client with a 10 second timeout is used.
func NewClient(hc *http.Client, opts ...ClientOption) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		hc:          hc,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is the outcome of a single liveness check.
type Response struct {
	// Status is the HTTP status code of the final attempt.
	Status int

	// ContentType is the Content-Type header of the response.
	ContentType string

	// Body holds the response body for parsed fetches, nil otherwise.
	Body []byte
}

// Check performs a liveness check without retrieving the body.
//
// The primary attempt uses HEAD to minimize payload transfer. When the
// server rejects the method itself (405 Method Not Allowed or 501 Not
// Implemented), exactly one GET retry is made against the same URL.
// Transport-level failures are returned as-is and are never retried.
func (c *Client) Check(ctx context.Context, url string) (*Response, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusMethodNotAllowed || resp.Status == http.StatusNotImplemented {
		return c.do(ctx, http.MethodGet, url)
	}
	return resp, nil
}

// Fetch performs a GET and returns the response body up to the
// configured size limit. Used for pages that will be parsed for links,
// where a HEAD-then-GET pair would cost a second round trip.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	return c.doWithBody(ctx, url)
}

// do issues a bodiless request with the given method.
func (c *Client) do(ctx context.Context, method, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// doWithBody issues a GET and reads the body up to maxBodySize.
func (c *Client) doWithBody(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// setHeaders applies the standard request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
}

// isHTML reports whether a Content-Type header denotes an HTML document.
func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml+xml")
}
