// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, not_found) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes (e.g., analysis_failed, no_text_recovered) are reserved
//     for business logic errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Usage:
//   - Handlers select the most specific matching code and pass it to `fail()` along
//     with the corresponding HTTP status and message.
//   - Clients are expected to branch on these codes for programmatic error handling.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "no_text_recovered",
//	  "message": "no text could be recovered from the images"
//	}
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	// ErrCodeRateLimited mirrors the body the rate limiter middleware emits.
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeAnalysisFailed    = "analysis_failed"
	ErrCodeRecognitionFailed = "recognition_failed"
	ErrCodeNoTextRecovered   = "no_text_recovered"
	ErrCodeInvalidProfile    = "invalid_profile"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)
