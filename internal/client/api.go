// Package client implements the terminal client's side of the review
// exchange: an HTTP API client and the guarded submission lifecycle that
// drives it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ServerError is a response the server actually produced, as opposed to a
// transport failure where no response arrived.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// APIClient talks to the review API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates an API client for the given base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Per-request deadlines come from the caller's context; this is
			// a hard backstop only.
			Timeout: 5 * time.Minute,
		},
	}
}

// SetBaseURL sets the base URL for testing purposes
func (c *APIClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type reviewRequestBody struct {
	Code string `json:"code"`
}

type reviewResponseBody struct {
	Review       string `json:"review"`
	Success      bool   `json:"success"`
	Timestamp    string `json:"timestamp"`
	ResponseTime string `json:"responseTime"`
	CodeLength   int    `json:"codeLength"`
	Error        string `json:"error"`
	Message      string `json:"message"`
}

// GetReview submits code for review and returns the review text. A non-200
// response becomes a *ServerError carrying the server's message.
func (c *APIClient) GetReview(ctx context.Context, code string) (string, error) {
	payload, err := json.Marshal(reviewRequestBody{Code: code})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ai/get-review", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed reviewResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return "", &ServerError{StatusCode: httpResp.StatusCode, Message: string(respBody)}
		}
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", &ServerError{StatusCode: httpResp.StatusCode, Message: parsed.Message}
	}

	return parsed.Review, nil
}

// Status mirrors the /ai/status response.
type Status struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	HasAPIKey bool   `json:"hasApiKey"`
	Timestamp string `json:"timestamp"`
}

// GetStatus queries the service's capability probe.
func (c *APIClient) GetStatus(ctx context.Context) (Status, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/ai/status", nil)
	if err != nil {
		return Status{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Status{}, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return Status{}, &ServerError{StatusCode: httpResp.StatusCode, Message: string(body)}
	}

	var status Status
	if err := json.NewDecoder(httpResp.Body).Decode(&status); err != nil {
		return Status{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return status, nil
}
