// Package prefclient calls the preference service's save/delete endpoints.
package prefclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/monicalopezucha/practica-final/internal/models"
)

const userAgent = "vehidash-dashboard/1.0"

// StatusError is returned when the service answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Client talks to a preference service at a fixed base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client for the service at baseURL. A zero timeout means the
// call waits for as long as the request context allows.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &userAgentTransport{base: http.DefaultTransport},
		},
	}
}

// userAgentTransport wraps an http.RoundTripper to inject the dashboard's
// User-Agent header on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(req)
}

// SaveBrand notifies the service that name was added and returns its
// confirmation message.
func (c *Client) SaveBrand(ctx context.Context, name string) (string, error) {
	msg, err := c.post(ctx, "/save_brand/", name)
	if err != nil {
		return "", fmt.Errorf("save brand %q: %w", name, err)
	}
	return msg, nil
}

// DeleteBrand notifies the service that name was removed and returns its
// confirmation message.
func (c *Client) DeleteBrand(ctx context.Context, name string) (string, error) {
	msg, err := c.post(ctx, "/delete_brand/", name)
	if err != nil {
		return "", fmt.Errorf("delete brand %q: %w", name, err)
	}
	return msg, nil
}

func (c *Client) post(ctx context.Context, path, name string) (string, error) {
	body, err := json.Marshal(models.FavoriteRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("calling preference service", "url", req.URL.String(), "name", name)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out models.FavoriteResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	return out.Message, nil
}
