package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_GetReview(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedReview string
		expectedStatus int // non-zero means a *ServerError is expected
		expectedErrMsg string
	}{
		{
			name: "successful_review",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "/ai/get-review", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req reviewRequestBody
				err := json.NewDecoder(r.Body).Decode(&req)
				assert.NoError(t, err)
				assert.Equal(t, "x := 1", req.Code)

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]interface{}{
					"review":       "## Summary\nQuality: High",
					"success":      true,
					"timestamp":    "2025-01-19T12:00:00Z",
					"responseTime": "812ms",
					"codeLength":   6,
				})
			},
			expectedReview: "## Summary\nQuality: High",
		},
		{
			name: "validation_error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":     "Validation Error",
					"message":   "Code cannot be empty",
					"success":   false,
					"timestamp": "2025-01-19T12:00:00Z",
				})
			},
			expectedStatus: http.StatusBadRequest,
			expectedErrMsg: "Code cannot be empty",
		},
		{
			name: "non_json_error_body",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("bad gateway"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedErrMsg: "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			api := NewAPIClient(server.URL)

			review, err := api.GetReview(context.Background(), "x := 1")

			if tt.expectedStatus != 0 {
				require.Error(t, err)
				var srvErr *ServerError
				require.ErrorAs(t, err, &srvErr)
				assert.Equal(t, tt.expectedStatus, srvErr.StatusCode)
				assert.Equal(t, tt.expectedErrMsg, srvErr.Message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedReview, review)
		})
	}
}

func TestAPIClient_GetReview_ConnectionFailure(t *testing.T) {
	// A closed server: the transport error must not look like a ServerError.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	api := NewAPIClient(server.URL)
	_, err := api.GetReview(context.Background(), "x := 1")

	require.Error(t, err)
	var srvErr *ServerError
	assert.NotErrorAs(t, err, &srvErr)
}

func TestAPIClient_GetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/ai/status", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Status{
			Status:    "ready",
			Message:   "AI service is ready to process requests",
			HasAPIKey: true,
			Timestamp: "2025-01-19T12:00:00Z",
		})
	}))
	defer server.Close()

	api := NewAPIClient(server.URL)
	status, err := api.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ready", status.Status)
	assert.True(t, status.HasAPIKey)
}

func TestAPIClient_SetBaseURL(t *testing.T) {
	api := NewAPIClient("http://localhost:3000")
	api.SetBaseURL("http://example.test")
	assert.Equal(t, "http://example.test", api.baseURL)
}
