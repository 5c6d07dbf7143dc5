package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Specific causes wrap it, so errors.Is(err, ErrValidation) holds for all of them.
	ErrValidation = errors.New("validation failed")

	ErrEmptyID          = validationError("id cannot be empty")
	ErrEmptyName        = validationError("name cannot be empty")
	ErrEmptyOwner       = validationError("owner id cannot be empty")
	ErrNegativePrice    = validationError("price must be non-negative")
	ErrNegativeQuantity = validationError("quantity must be zero or greater")
	ErrInvalidRole      = validationError("invalid role")
	ErrInvalidOwnerType = validationError("invalid owner type")
	ErrEmptyEmail       = validationError("email cannot be empty")
	ErrEmptyPassword    = validationError("password cannot be empty")
)

type domainError struct {
	msg string
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return ErrValidation }

func validationError(msg string) error {
	return &domainError{msg: msg}
}
