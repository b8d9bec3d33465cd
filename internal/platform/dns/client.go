// Package dns provides a minimal client for the dynamic DNS update
// endpoint that maps provisioned node names to their addresses.
package dns

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client issues record updates against an nsupdate-style HTTP endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given update base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateError reports a non-success response from the update endpoint.
type UpdateError struct {
	Name       string
	StatusCode int
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("dns update for %q failed with status %d", e.Name, e.StatusCode)
}

// Update points the record for name at ip. Any non-2xx status is an
// *UpdateError: a node without a stable hostname is not provisioned.
func (c *Client) Update(ctx context.Context, name, ip string) error {
	query := url.Values{}
	query.Set("name", name)
	query.Set("ip", ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build dns update request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dns update for %q: %w", name, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpdateError{Name: name, StatusCode: resp.StatusCode}
	}
	return nil
}
