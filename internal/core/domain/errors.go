package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input. Requests
	// failing validation are rejected before a session exists.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotFound indicates the search session does not exist
	// or has already been torn down.
	ErrSessionNotFound = errors.New("search session not found")

	// ErrAuthFailed indicates the remote host rejected the credential.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrForbidden indicates access was denied for reasons other than
	// rate limiting.
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound indicates the repository, branch or path is absent.
	ErrNotFound = errors.New("not found")
)

// RateLimitError carries the reset metadata of an exhausted quota.
// It wraps ErrRateLimited.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap makes errors.Is(err, ErrRateLimited) hold.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// APIError represents a non-2xx response that does not map to a more
// specific sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a transport-level failure, including timeouts.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrorKind maps an error to the errorType string carried in Warning
// and Error event payloads.
func ErrorKind(err error) string {
	var apiErr *APIError
	var netErr *NetworkError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "validation"
	case errors.Is(err, ErrAuthFailed):
		return "authentication"
	case errors.Is(err, ErrRateLimited):
		return "rate_limit"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &apiErr):
		return "api"
	default:
		return "internal"
	}
}
