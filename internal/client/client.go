// Package client talks to the chat proxy over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"friday-chat/internal/models"
)

// ErrMalformedResponse is returned when a 2xx reply cannot be decoded or
// lacks the expected fields.
var ErrMalformedResponse = errors.New("malformed response from server")

// APIError is a non-2xx reply from the proxy.
type APIError struct {
	StatusCode int
	Label      string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Label)
	}
	return fmt.Sprintf("server returned %d: %s: %s", e.StatusCode, e.Label, e.Details)
}

// Client is a thin proxy client. Each call is attempted once.
type Client struct {
	resty *resty.Client
}

// New returns a client for the proxy at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "friday-chat/1.0")
	return &Client{resty: r}
}

// Send posts one user turn and returns the generated reply.
func (c *Client) Send(ctx context.Context, message string, history []models.Message) (string, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(models.ChatRequest{Message: message, History: history}).
		Post("/api/chat")
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}

	var out struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Response == nil {
		return "", fmt.Errorf("%w: missing response field", ErrMalformedResponse)
	}
	return *out.Response, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Diagnostics calls GET /api/test.
func (c *Client) Diagnostics(ctx context.Context) (*models.DiagnosticsResponse, error) {
	var out models.DiagnosticsResponse
	if err := c.get(ctx, "/api/test", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.resty.R().SetContext(ctx).Get(path)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		apiErr.Label = body.Error
		apiErr.Details = body.Details
	} else {
		apiErr.Label = resp.Status()
	}
	return apiErr
}
