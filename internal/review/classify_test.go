package review

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens-ai/codelens/internal/provider"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedKind   Kind
		expectedStatus int
	}{
		{
			name:           "typed_credential_error",
			err:            &provider.CredentialError{Message: "key rejected"},
			expectedKind:   KindMissingCredential,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "wrapped_credential_error",
			err:            fmt.Errorf("generate: %w", &provider.CredentialError{Message: "no key"}),
			expectedKind:   KindMissingCredential,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "transport_429",
			err:            &provider.APIError{StatusCode: 429, Message: "resource exhausted"},
			expectedKind:   KindQuotaExceeded,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "transport_404_surfaced_as_500",
			err:            &provider.APIError{StatusCode: 404, Message: "not found"},
			expectedKind:   KindProviderUnavailable,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "substring_api_key",
			err:            errors.New("request failed: invalid API key supplied"),
			expectedKind:   KindMissingCredential,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "substring_quota",
			err:            errors.New("quota exceeded for project"),
			expectedKind:   KindQuotaExceeded,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "substring_model",
			err:            errors.New("unknown model name"),
			expectedKind:   KindProviderUnavailable,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "untyped_api_error_falls_to_substring",
			err:            &provider.APIError{StatusCode: 503, Message: "quota exhausted"},
			expectedKind:   KindQuotaExceeded,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "unknown_error",
			err:            errors.New("connection reset by peer"),
			expectedKind:   KindUnknown,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(tt.err)

			require.NotNil(t, classified)
			assert.Equal(t, tt.expectedKind, classified.Kind)
			assert.Equal(t, tt.expectedStatus, classified.HTTPStatus)
			assert.NotEmpty(t, classified.Message)
		})
	}
}

func TestClassify_CredentialMessagePassesThrough(t *testing.T) {
	classified := Classify(&provider.CredentialError{Message: "GOOGLE_GEMINI_KEY environment variable is not set"})
	assert.Equal(t, "GOOGLE_GEMINI_KEY environment variable is not set", classified.Message)
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// "API key" outranks "quota" and "model" when all appear.
	classified := Classify(errors.New("API key quota model"))
	assert.Equal(t, KindMissingCredential, classified.Kind)

	// "quota" outranks "model".
	classified = Classify(errors.New("model quota"))
	assert.Equal(t, KindQuotaExceeded, classified.Kind)
}

func TestClassify_UnknownCarriesDetail(t *testing.T) {
	classified := Classify(errors.New("something odd"))
	assert.Equal(t, "Failed to generate review: something odd", classified.Message)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Validation Error", KindInvalidInput.Label())
	assert.Equal(t, "Internal Server Error", KindUnknown.Label())
}
