package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client is a Product Publisher API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// do sends a request and decodes a JSON response into result
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		// The server reads fields without decoding escapes, so &, < and > go out literally
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = &buf
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// Health returns nil if the server reports healthy
func (c *Client) Health(ctx context.Context) error {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if result.Status != "healthy" {
		return fmt.Errorf("health check: status %q", result.Status)
	}
	return nil
}

// Publish submits a product for publication
func (c *Client) Publish(ctx context.Context, p *ProductFile) (*PublishResult, error) {
	var result PublishResult
	if err := c.do(ctx, http.MethodPost, "/publish", p, &result); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	return &result, nil
}

// Stats fetches publishing statistics
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var result Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &result); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &result, nil
}

// LoadProductFile reads a generated product JSON file
func LoadProductFile(path string) (*ProductFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read product file: %w", err)
	}

	var p ProductFile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse product file: %w", err)
	}
	return &p, nil
}
