package review

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/codelens-ai/codelens/internal/provider"
)

// Service generates reviews for validated requests. The provider is injected
// so tests can substitute a stub and count calls.
type Service struct {
	generator     provider.Generator
	hasCredential bool
}

// NewService creates a review service. hasCredential reflects whether a
// provider credential was configured at startup; when false, Generate fails
// before any network call.
func NewService(generator provider.Generator, hasCredential bool) *Service {
	return &Service{
		generator:     generator,
		hasCredential: hasCredential,
	}
}

// HasCredential reports whether the provider credential is configured. Used
// by the status endpoint as a cheap capability probe.
func (s *Service) HasCredential() bool {
	return s.hasCredential
}

// Generate builds the fixed prompt envelope around the request's code and
// invokes the provider exactly once. An empty completion is a successful
// empty review, not an error. No retries happen at this layer.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if !s.hasCredential {
		return Result{}, &provider.CredentialError{
			Message: "GOOGLE_GEMINI_KEY environment variable is not set",
		}
	}

	start := time.Now()

	resp, err := s.generator.Generate(ctx, provider.GenerateRequest{
		SystemPrompt:    SystemPrompt(),
		UserPrompt:      BuildUserPrompt(req.Code),
		MaxOutputTokens: generationMaxOutputTokens,
		Temperature:     generationTemperature,
		TopK:            generationTopK,
		TopP:            generationTopP,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		ReviewText:  resp.Text,
		GeneratedAt: time.Now().UTC(),
		ElapsedMs:   time.Since(start).Milliseconds(),
		InputLength: utf8.RuneCountInString(req.Code),
	}, nil
}
