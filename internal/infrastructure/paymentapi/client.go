// Package paymentapi talks to the backend that creates gateway orders and
// verifies completed payments.
package paymentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/savedeities/contribute/internal/shared/config"
	"github.com/savedeities/contribute/internal/shared/logger"
)

const (
	defaultTimeout = 15 * time.Second
	// Maximum response body size accepted from the backend (64KB)
	maxResponseSize = 64 << 10
)

// Client is the shared HTTP plumbing of the order and verification clients.
type Client struct {
	baseURL    string
	orderPath  string
	verifyPath string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg config.BackendConfig, log logger.Interface) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		orderPath:  cfg.OrderPath,
		verifyPath: cfg.VerifyPath,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// backendResponse is the envelope both endpoints answer with.
type backendResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
	Order   *orderPayload `json:"order,omitempty"`
	KeyID   string        `json:"key_id,omitempty"`
}

// reason is the backend's own explanation of a failure, if it gave one.
func (r *backendResponse) reason() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// postJSON sends body to path and decodes the envelope. A non-2xx status
// with a decodable envelope is returned without error so callers can use
// the backend's message.
func (c *Client) postJSON(ctx context.Context, path string, body any) (*backendResponse, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var out backendResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return &out, resp.StatusCode, nil
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}
