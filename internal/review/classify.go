package review

import (
	"errors"
	"net/http"
	"strings"

	"github.com/codelens-ai/codelens/internal/provider"
)

// Classify maps a raw provider or transport failure onto exactly one
// ClassifiedError. Structured signals (typed provider errors carrying the
// transport status) are checked first; substring matching on the message is
// the fallback for untyped failures. Rules run in order, first match wins.
func Classify(err error) *ClassifiedError {
	var credErr *provider.CredentialError
	if errors.As(err, &credErr) {
		return &ClassifiedError{
			Kind:       KindMissingCredential,
			HTTPStatus: http.StatusInternalServerError,
			Message:    credErr.Message,
		}
	}

	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return quotaExceeded()
		case http.StatusNotFound:
			return providerUnavailable()
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return &ClassifiedError{
			Kind:       KindMissingCredential,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "Invalid Google Gemini API key",
		}
	case strings.Contains(msg, "quota"):
		return quotaExceeded()
	case strings.Contains(msg, "model"):
		return providerUnavailable()
	default:
		return &ClassifiedError{
			Kind:       KindUnknown,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "Failed to generate review: " + err.Error(),
		}
	}
}

func quotaExceeded() *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindQuotaExceeded,
		HTTPStatus: http.StatusTooManyRequests,
		Message:    "API quota exceeded. Please try again later.",
	}
}

// providerUnavailable is detected at transport 404 but surfaced to clients
// as a 500: a bad model reference is a deployment problem, not one the
// caller can route around.
func providerUnavailable() *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindProviderUnavailable,
		HTTPStatus: http.StatusInternalServerError,
		Message:    "Model not found. Check the configured Gemini model name.",
	}
}
