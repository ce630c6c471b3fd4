package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient(t *testing.T) {
	client := NewGeminiClient("test-key", "gemini-3-flash-preview")

	assert.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.tracer)
	assert.NotNil(t, client.breaker)
	assert.Equal(t, "gemini", client.Name())
	assert.Contains(t, client.baseURL, "generativelanguage.googleapis.com")
}

func TestGeminiClient_Generate(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedError  string
		expectedText   string
		expectedTokens int
	}{
		{
			name: "successful_generation",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "/gemini-3-flash-preview:generateContent", r.URL.Path)
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				// Verify the prompt envelope
				var req geminiRequest
				err := json.NewDecoder(r.Body).Decode(&req)
				assert.NoError(t, err)
				require.NotNil(t, req.SystemInstruction)
				assert.Equal(t, "system prompt", req.SystemInstruction.Parts[0].Text)
				require.Len(t, req.Contents, 1)
				assert.Equal(t, "user", req.Contents[0].Role)
				assert.Equal(t, "user prompt", req.Contents[0].Parts[0].Text)
				require.NotNil(t, req.GenerationConfig)
				assert.Equal(t, 1500, req.GenerationConfig.MaxOutputTokens)
				assert.Equal(t, 10, req.GenerationConfig.TopK)
				require.NotNil(t, req.GenerationConfig.Temperature)
				assert.Equal(t, 0.5, *req.GenerationConfig.Temperature)
				require.NotNil(t, req.GenerationConfig.TopP)
				assert.Equal(t, 0.7, *req.GenerationConfig.TopP)

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(geminiResponse{
					Candidates: []geminiCandidate{
						{Content: geminiContent{Parts: []geminiPart{{Text: "## Summary\n"}, {Text: "Quality: High"}}}},
					},
					UsageMetadata: geminiUsage{TotalTokenCount: 57},
				})
			},
			expectedText:   "## Summary\nQuality: High",
			expectedTokens: 57,
		},
		{
			name: "empty_candidates_is_successful_empty_completion",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(geminiResponse{})
			},
			expectedText: "",
		},
		{
			name: "invalid_json_response",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte("invalid json"))
			},
			expectedError: "failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := NewGeminiClient("test-key", "gemini-3-flash-preview")
			client.SetBaseURL(server.URL)

			temp := 0.5
			topP := 0.7
			resp, err := client.Generate(context.Background(), GenerateRequest{
				SystemPrompt:    "system prompt",
				UserPrompt:      "user prompt",
				MaxOutputTokens: 1500,
				Temperature:     temp,
				TopK:            10,
				TopP:            topP,
			})

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedText, resp.Text)
			assert.Equal(t, tt.expectedTokens, resp.TokensUsed)
		})
	}
}

func TestGeminiClient_Generate_ErrorTyping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "unauthorized_becomes_credential_error",
			statusCode: http.StatusUnauthorized,
			body:       `{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`,
			check: func(t *testing.T, err error) {
				var credErr *CredentialError
				require.ErrorAs(t, err, &credErr)
				assert.Equal(t, "API key not valid", credErr.Message)
			},
		},
		{
			name:       "forbidden_becomes_credential_error",
			statusCode: http.StatusForbidden,
			body:       `{"error":{"code":403,"message":"permission denied"}}`,
			check: func(t *testing.T, err error) {
				var credErr *CredentialError
				require.ErrorAs(t, err, &credErr)
			},
		},
		{
			name:       "rate_limit_keeps_status",
			statusCode: http.StatusTooManyRequests,
			body:       `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
				assert.Equal(t, "quota exceeded", apiErr.Message)
			},
		},
		{
			name:       "unknown_model_keeps_status",
			statusCode: http.StatusNotFound,
			body:       `{"error":{"code":404,"message":"model not found"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
			},
		},
		{
			name:       "unparseable_error_body_falls_back_to_raw",
			statusCode: http.StatusInternalServerError,
			body:       "upstream exploded",
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "upstream exploded", apiErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewGeminiClient("test-key", "gemini-3-flash-preview")
			client.SetBaseURL(server.URL)

			_, err := client.Generate(context.Background(), GenerateRequest{UserPrompt: "hi"})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGeminiClient_Generate_SingleCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-3-flash-preview")
	client.SetBaseURL(server.URL)

	_, err := client.Generate(context.Background(), GenerateRequest{UserPrompt: "hi"})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "no retries at this layer")
}
