// Package provider implements the outbound client for the generative
// language service that produces review text.
//
// The wire client makes exactly one generateContent call per invocation and
// never retries; failures are returned as typed errors carrying the transport
// status so callers can classify them without parsing message text.
package provider

import "context"

// GenerateRequest contains the prompt envelope sent to the model.
type GenerateRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxOutputTokens int
	Temperature     float64
	TopK            int
	TopP            float64
}

// GenerateResponse contains the extracted completion.
type GenerateResponse struct {
	Text       string
	TokensUsed int
}

// Generator is the provider abstraction. The review service depends on this
// interface so tests can substitute a stub without network access.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
