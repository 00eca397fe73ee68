// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match sentinel values
// and errors.As to extract a ValidationError.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIncorrectPassword  = errors.New("incorrect current password")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError carries the full ordered list of policy violations for a
// rejected input, plus the user-facing summary line. All rules are evaluated
// before the error is built, so the caller always sees every violated rule
// at once.
type ValidationError struct {
	Message    string
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.ToLower(e.Message) + ": " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from a summary line and a
// non-empty violation list.
func NewValidationError(message string, violations []string) *ValidationError {
	return &ValidationError{Message: message, Violations: violations}
}
