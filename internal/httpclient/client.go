// Package httpclient is a thin wrapper over net/http that runs request
// modifiers (authorizers) before dispatch and shares a retrying
// transport across the provider clients.
package httpclient

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/appfetch/appfetch-cli/internal/httpclient/modifier"
)

// Client dispatches requests through its modifiers and the underlying
// http.Client. Use Do directly; provider clients own their status-code
// handling.
type Client struct {
	modifiers []modifier.Modifier
	client    *http.Client
}

// NewClient creates an instance of Client.
// Use the shared retrying transport as the default value if c is nil.
// Modifiers modify the request before sending it.
func NewClient(c *http.Client, modifiers ...modifier.Modifier) *Client {
	client := &Client{
		client: c,
	}
	if client.client == nil {
		client.client = Default()
	}
	if len(modifiers) > 0 {
		client.modifiers = modifiers
	}
	return client
}

// Do applies all modifiers in order, then sends the request.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for _, m := range c.modifiers {
		if err := m.Modify(req); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("method", req.Method).Stringer("url", req.URL).Msg("dispatching request")
	return c.client.Do(req)
}

// Default returns an http.Client backed by a retryablehttp transport.
// Transient 5xx and connection failures are retried a couple of times;
// 4xx responses are returned as-is so callers can map them to error
// kinds.
func Default() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = nil
	return rc.StandardClient()
}
