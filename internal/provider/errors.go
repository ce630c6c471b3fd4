package provider

import "fmt"

// APIError is a non-2xx response from the provider. StatusCode preserves the
// transport status so the error classifier can key on it instead of matching
// message substrings.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider API error (status %d): %s", e.StatusCode, e.Message)
}

// CredentialError means the provider rejected or never received a credential.
type CredentialError struct {
	Message string
}

func (e *CredentialError) Error() string {
	return "provider credential error: " + e.Message
}
