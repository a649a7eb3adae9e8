// Package services defines the business logic for product analysis, scan
// recognition, history, and profiles. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import (
	"errors"

	"github.com/nutrismart/go-nutrition-backend/internal/nutrition"
)

var (
	// ErrBadInput is returned when an analyze request is missing its profile
	// or its product text. Rejected before any external call is made.
	ErrBadInput = errors.New("profile and product text are required")

	// ErrNoTextRecovered is surfaced when both OCR passes produced no text;
	// generation is never attempted in that case.
	ErrNoTextRecovered = nutrition.ErrNoTextRecovered

	// ErrGenerationFailed wraps transport or service failures of the external
	// generation call. It is not retried automatically.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrRecognitionFailed wraps transport or service failures of the external
	// text-recognition call.
	ErrRecognitionFailed = errors.New("text recognition failed")

	// ErrInvalidProfile is returned when a profile update carries values
	// outside the allowed domains (unknown enums, non-positive measures).
	ErrInvalidProfile = errors.New("invalid profile values")

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRecordNotFound indicates that the requested analysis record does not
	// exist or is not accessible to the current user. Deleting an already
	// deleted record reports this distinctly so callers can tell "already
	// gone" from "deletion failed".
	ErrRecordNotFound = errors.New("analysis record not found")
)
