package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every rule violation a service reports wraps exactly one of
// these, and the API layer maps the kind to an HTTP status.
var (
	// ErrBadRequest indicates invalid input. Maps to 400.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates missing or wrong credentials. Maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller may not perform the action. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the target record does not exist. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or quota rule was violated. Maps to 409.
	ErrConflict = errors.New("conflict")

	// ErrInvalidFile indicates an uploaded file was rejected. Maps to 400.
	ErrInvalidFile = errors.New("invalid file")
)

// Error is a rule violation with a message safe to show to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) error {
	return newError(ErrBadRequest, format, args...)
}

func unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

func forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func notFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func invalidFile(format string, args ...any) error {
	return newError(ErrInvalidFile, format, args...)
}

// ServiceError wraps an unexpected failure from a dependency with the
// service and operation that hit it. The API layer reports it as a 500.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) error {
	return &ServiceError{Service: service, Op: op, Err: err}
}
