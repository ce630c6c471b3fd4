package review

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"
)

// MaxCodeChars is the application-level cap on submitted code, measured in
// characters rather than bytes.
const MaxCodeChars = 50000

// ParseRequest validates a raw request body and produces either a valid
// Request or an InvalidInput rejection. Checks run in order and the first
// failure wins; a rejected request never reaches the provider.
func ParseRequest(body []byte) (Request, *ClassifiedError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Request{}, invalidInput("Invalid JSON in request body")
	}

	raw, ok := fields["code"]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return Request{}, invalidInput("Code is required in request body")
	}

	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		return Request{}, invalidInput("Code must be a string")
	}

	if strings.TrimSpace(code) == "" {
		return Request{}, invalidInput("Code cannot be empty")
	}

	if utf8.RuneCountInString(code) > MaxCodeChars {
		return Request{}, invalidInput("Code is too large (max 50,000 characters)")
	}

	return Request{Code: code}, nil
}

func invalidInput(message string) *ClassifiedError {
	return &ClassifiedError{
		Kind:       KindInvalidInput,
		HTTPStatus: http.StatusBadRequest,
		Message:    message,
	}
}
