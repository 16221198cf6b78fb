package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultURL is the autocomplete endpoint used when none is configured.
const DefaultURL = "https://652f91320b8d8ddac0b2b62b.mockapi.io/autocomplete"

// HTTP fetches suggestions from a JSON endpoint.
type HTTP struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// HTTPOption configures the HTTP provider.
type HTTPOption func(*HTTP)

// WithHTTPURL sets the endpoint URL.
func WithHTTPURL(url string) HTTPOption {
	return func(h *HTTP) { h.URL = url }
}

// WithHTTPTimeout sets the request timeout.
func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(h *HTTP) { h.Timeout = timeout }
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.Client = c }
}

// NewHTTP creates a new HTTP provider.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		URL:     DefaultURL,
		Timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fetch requests the suggestion list.
func (h *HTTP) Fetch(ctx context.Context) ([]Suggestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: h.Timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read suggestions: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestions endpoint: %s: %s", resp.Status, string(body))
	}
	return Decode(body)
}
