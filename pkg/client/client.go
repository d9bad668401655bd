// Package client is the typed HTTP client for the Clipstream engagement API.
// A Client is constructed explicitly and passed to whoever needs it; there is
// no package-level singleton, so tests can point separate instances at
// separate servers.
package client

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

// Options configures a Client
type Options struct {
	BaseURL   string
	Token     string        // bearer token; empty means unauthenticated
	Timeout   time.Duration // zero means the 30s default
	UserAgent string
}

// Client talks to the engagement API
type Client struct {
	http *resty.Client
}

// New builds a Client from options
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "clipstream-go/0.1.0"
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	if opts.Token != "" {
		httpClient.SetAuthToken(opts.Token)
	}

	return &Client{http: httpClient}
}

// SetToken replaces the bearer token, e.g. after a login or refresh
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}
