package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/service"
	"github.com/phrazzld/buyone/internal/service/auth"
	"github.com/phrazzld/buyone/internal/store"
)

// fileTooLargeMessage is reported when a multipart body exceeds the upload limit.
const fileTooLargeMessage = "File exceeds 2MB size limit."

// MapErrorToStatusCode maps internal errors to HTTP status codes. Anything
// it does not recognise is a 500.
func MapErrorToStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, service.ErrBadRequest),
		errors.Is(err, service.ErrInvalidFile),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message shown to the client. Rule
// violations carry their own message; internal failures show only the
// redacted root cause.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred [No root cause]"
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return fileTooLargeMessage
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	}

	return fmt.Sprintf("An unexpected error occurred [%s]", redact.Error(rootCause(err)))
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// HandleAPIError maps err to a status, writes the error envelope and logs
// the redacted detail. A non-empty message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden || status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns a decode or validator failure into a
// message that names the field without echoing the input.
func SanitizeValidationError(err error) string {
	if errors.Is(err, shared.ErrEmptyBody) {
		return "Request body is required"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), getValidationTagMessage(fe.Tag()))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("Invalid %s: wrong type", typeErr.Field)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Invalid request format"
	}
	return "Validation error"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}

// NotFoundHandler answers unknown routes with the error envelope.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "No handler found for "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowedHandler answers a known route used with the wrong verb.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("method not allowed", "method", r.Method, "path", r.URL.Path)
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method Not Allowed: "+r.Method)
}
