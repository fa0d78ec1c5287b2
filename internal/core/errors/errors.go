// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Input validation errors.
var (
	// ErrEmptyInput indicates the source text is empty after sanitization.
	ErrEmptyInput = errors.New("source text is empty")

	// ErrInputTooLong indicates the source text exceeds the accepted length cap.
	ErrInputTooLong = errors.New("source text exceeds maximum length")

	// ErrInvalidOptions indicates the request options could not be normalized.
	ErrInvalidOptions = errors.New("invalid generation options")
)

// Pipeline errors.
var (
	// ErrSegmentationExhausted indicates no non-empty segment could be produced.
	ErrSegmentationExhausted = errors.New("segmentation produced no usable segments")
)

// Backend errors.
var (
	// ErrBackendUnavailable indicates the remote backend is not configured or its circuit is open.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrAllBackendsFailed indicates every registered backend failed.
	ErrAllBackendsFailed = errors.New("all generation backends failed")

	// ErrMalformedResponse indicates the remote backend returned output that does not match the thread schema.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrRateLimited indicates rate limiting was triggered.
	ErrRateLimited = errors.New("rate limited")
)

// Storage errors.
var (
	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
