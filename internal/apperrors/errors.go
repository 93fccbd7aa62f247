// Package apperrors defines the failure taxonomy shared by repositories,
// services and HTTP handlers.
package apperrors

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid covers malformed, forged and expired tokens alike.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrNotFound also covers records owned by someone else.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Validation(msg string) error {
	return &ValidationError{Message: msg}
}
