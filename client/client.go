package client

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where the question bank API listens in local development.
	DefaultBaseURL = "http://localhost:8000/api/v1"

	// DefaultTimeout bounds every call, including reading the response body.
	DefaultTimeout = 30 * time.Second
)

// Client is a thin HTTP client for the question bank REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new API client. An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }
