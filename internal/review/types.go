// Package review implements the review request pipeline: validation of
// inbound requests, the fixed prompt envelope sent to the provider, and
// classification of provider failures into a small closed error taxonomy.
package review

import "time"

// Request is a validated review request.
type Request struct {
	Code string
}

// Result is a completed review. Produced once per successful request and
// never retained server-side.
type Result struct {
	ReviewText  string
	GeneratedAt time.Time
	ElapsedMs   int64
	InputLength int
}

// Kind identifies one of the stable error classes.
type Kind string

const (
	KindInvalidInput        Kind = "InvalidInput"
	KindMissingCredential   Kind = "MissingCredential"
	KindQuotaExceeded       Kind = "QuotaExceeded"
	KindProviderUnavailable Kind = "ProviderUnavailable"
	KindUnknown             Kind = "Unknown"
)

// Label returns the error name used in HTTP responses.
func (k Kind) Label() string {
	switch k {
	case KindInvalidInput:
		return "Validation Error"
	case KindMissingCredential:
		return "Configuration Error"
	case KindQuotaExceeded:
		return "Quota Exceeded"
	case KindProviderUnavailable:
		return "Provider Unavailable"
	default:
		return "Internal Server Error"
	}
}

// ClassifiedError is a raw failure mapped onto the error taxonomy. It is the
// only error shape the gateway turns into a response body.
type ClassifiedError struct {
	Kind       Kind
	HTTPStatus int
	Message    string
}

func (e *ClassifiedError) Error() string {
	return e.Message
}
