// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client is a shared HTTP client for outbound service calls (the entity
// recognition service is the main consumer). Connection reuse matters there
// because the parser can fan out one request per resume.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Do executes the request. Deadlines ride on the request context, with the
// client timeout as the outer bound.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
