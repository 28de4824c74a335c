// Package nodered implements ports.Publisher against the Node-RED
// admin HTTP API. The translated node array is POSTed to /flows as a
// full deployment; everything past that call is the runtime's own
// concern.
package nodered

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Publisher posts translated flows to a Node-RED admin endpoint.
type Publisher struct {
	baseURL string
	client  *http.Client
	token   string
}

type Option func(*Publisher)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Publisher) {
		if c != nil {
			p.client = c
		}
	}
}

// WithToken sets a bearer token for secured admin APIs.
func WithToken(token string) Option {
	return func(p *Publisher) { p.token = token }
}

// NewPublisher creates a publisher for the given Node-RED base URL,
// e.g. "http://localhost:1880".
func NewPublisher(baseURL string, opts ...Option) *Publisher {
	p := &Publisher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish imports the node array into the runtime, replacing the
// current deployment.
func (p *Publisher) Publish(ctx context.Context, nodes any) error {
	body, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("failed to marshal flow nodes: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/flows", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Node-RED-Deployment-Type", "full")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("runtime rejected flow import: %s", resp.Status)
	}
	return nil
}
