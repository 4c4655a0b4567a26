package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found, or exists but is not
	// owned by the caller. The two causes are deliberately not distinguished
	// so responses never leak the existence of other users' records.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors for backwards compatibility - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// LimitExceededError is returned when a free-tier customer attempts to create
// a prompt at or above the plan cap. It is a structured error kind so callers
// can branch on the condition directly instead of pattern-matching message
// text, and it carries the limit value for display.
type LimitExceededError struct {
	Limit int
	Tier  string
}

// Error implements the error interface
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("free users can create up to %d prompts; upgrade to Pro for unlimited prompts", e.Limit)
}

// StatusCode implements the HTTPError interface
func (e *LimitExceededError) StatusCode() int {
	return http.StatusPaymentRequired
}
