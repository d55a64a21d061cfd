// Package httpclient wraps http.Client with the fixed per-request timeout
// and browser-identifying headers the scrapers need.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// defaultUserAgent avoids 403/406 responses from sites that reject the Go
// default User-Agent.
const defaultUserAgent = "Mozilla/5.0"

// Client wraps an http.Client with a hard per-request timeout. The timeout
// is the only cancellation mechanism for item-level work.
type Client struct {
	client *http.Client
}

// New creates a client with the given request timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

// Get fetches a URL with optional query params and extra headers, returning
// the response body. Non-2xx statuses are errors.
func (c *Client) Get(ctx context.Context, rawURL string, params, headers map[string]string) ([]byte, string, error) {
	target := rawURL
	if len(params) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, "", fmt.Errorf("parse URL: %w", err)
		}
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetch %s: unexpected status code: %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
