// Package dispatch is the boundary to the external HR backend. It
// translates a completed ActionRecord into the request shape of the
// matching backend operation and interprets the backend's status flag and
// message. It performs no retries: a blind retry could duplicate a leave or
// punch request.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrBackendUnavailable wraps transport-level failures reaching the HR
// backend, as opposed to backend-reported rejections.
var ErrBackendUnavailable = errors.New("hr backend unavailable")

// Client is the HTTP client for the HR backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Config holds backend connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 20 * time.Second,
	}
}

// NewClient creates a backend client.
func NewClient(config Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// backendResponse is the opaque status envelope every operation returns.
type backendResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// post sends a JSON payload and decodes the status envelope. The raw body
// is returned alongside so failures can be surfaced verbatim.
func (c *Client) post(ctx context.Context, path string, payload any) (backendResponse, string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return backendResponse{}, "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return backendResponse{}, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return backendResponse{}, "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return backendResponse{}, "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	raw := string(body)
	var parsed backendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Non-JSON body: treat the HTTP status as the verdict and keep the
		// body verbatim as the message.
		return backendResponse{
			Status:  resp.StatusCode >= 200 && resp.StatusCode < 300,
			Message: raw,
		}, raw, nil
	}
	return parsed, raw, nil
}
