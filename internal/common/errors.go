// Package common defines shared constants and sentinel errors used across
// brimon layers. Callers should use errors.Is to match these values.
package common

import "errors"

// AuthError is a recoverable authentication failure that is shown to the
// user. Code is a stable machine-readable identifier.
type AuthError struct {
	Code string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Code
}

var (
	// Auth errors.
	ErrUserNotFound       = &AuthError{Code: "user_not_found"}
	ErrInvalidCredentials = &AuthError{Code: "invalid_credentials"}
	ErrUsernameTaken      = &AuthError{Code: "username_taken"}

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Authorization errors.
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidTransition = errors.New("invalid status transition")

	// Validation errors (malformed records at the persistence boundary).
	ErrValidation = errors.New("validation error")

	// The stored session token failed to parse or verify.
	ErrInvalidToken = errors.New("invalid session token")

	// Credential derivation did not finish before the context deadline.
	ErrTimeout = errors.New("operation timed out")
)
