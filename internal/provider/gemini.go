package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	breaker    *gobreaker.CircuitBreaker
}

// NewGeminiClient creates a Gemini client for the given credential and model.
// The credential may be empty; callers are expected to gate on it before
// invoking Generate.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	settings := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	}

	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		tracer:  otel.Tracer("gemini-client"),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// SetBaseURL sets the base URL for testing purposes
func (c *GeminiClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *GeminiClient) Name() string { return "gemini" }

// Generate performs one generateContent call. The circuit breaker fails fast
// when the provider has been failing consecutively; it never adds calls.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	ctx, span := c.tracer.Start(ctx, "gemini.generate_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("model", c.model),
		attribute.Int("prompt_chars", len(req.UserPrompt)),
	)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generateInternal(ctx, req)
	})
	if err != nil {
		span.RecordError(err)
		return GenerateResponse{}, err
	}

	resp := result.(GenerateResponse)
	span.SetAttributes(attribute.Int("tokens_used", resp.TokensUsed))

	return resp, nil
}

// generateInternal performs the actual HTTP request
func (c *GeminiClient) generateInternal(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: req.SystemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: req.UserPrompt}},
			},
		},
		GenerationConfig: &geminiGenConfig{
			MaxOutputTokens: req.MaxOutputTokens,
			TopK:            req.TopK,
		},
	}
	if req.Temperature > 0 {
		body.GenerationConfig.Temperature = &req.Temperature
	}
	if req.TopP > 0 {
		body.GenerationConfig.TopP = &req.TopP
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to call provider: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return GenerateResponse{}, &CredentialError{Message: errorMessage(respBody)}
	}
	if httpResp.StatusCode != http.StatusOK {
		return GenerateResponse{}, &APIError{
			StatusCode: httpResp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	// An empty candidate list is a successful empty completion, not an error.
	var text string
	if len(result.Candidates) > 0 {
		for _, part := range result.Candidates[0].Content.Parts {
			text += part.Text
		}
	}

	return GenerateResponse{
		Text:       text,
		TokensUsed: result.UsageMetadata.TotalTokenCount,
	}, nil
}

// errorMessage extracts the human-readable message from a Gemini error body,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var e geminiErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return string(body)
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	TopK            int      `json:"topK,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata geminiUsage       `json:"usageMetadata"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiUsage struct {
	TotalTokenCount int `json:"totalTokenCount"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
