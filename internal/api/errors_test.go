package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/service"
	"github.com/phrazzld/buyone/internal/service/auth"
	"github.com/phrazzld/buyone/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &service.Error{Kind: service.ErrBadRequest, Message: "x"}, http.StatusBadRequest},
		{"invalid file", &service.Error{Kind: service.ErrInvalidFile, Message: "x"}, http.StatusBadRequest},
		{"unauthorized", &service.Error{Kind: service.ErrUnauthorized, Message: "x"}, http.StatusUnauthorized},
		{"forbidden", &service.Error{Kind: service.ErrForbidden, Message: "x"}, http.StatusForbidden},
		{"not found", &service.Error{Kind: service.ErrNotFound, Message: "x"}, http.StatusNotFound},
		{"conflict", &service.Error{Kind: service.ErrConflict, Message: "x"}, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("outer: %w", &service.Error{Kind: service.ErrConflict}), http.StatusConflict},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"store not found", store.ErrProductNotFound, http.StatusNotFound},
		{"store duplicate", store.ErrEmailExists, http.StatusConflict},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"service failure", service.NewServiceError("product", "create", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("rule violation keeps its message", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", &service.Error{Kind: service.ErrNotFound, Message: "Product not found with ID: p1"})
		assert.Equal(t, "Product not found with ID: p1", GetSafeErrorMessage(err))
	})

	t.Run("internal error shows redacted root cause", func(t *testing.T) {
		cause := errors.New("dial postgres://admin:hunter2@db:5432/buyone failed")
		msg := GetSafeErrorMessage(service.NewServiceError("user", "get", cause))

		assert.Contains(t, msg, "An unexpected error occurred [")
		assert.NotContains(t, msg, "hunter2")
		assert.NotContains(t, msg, "user service")
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred [No root cause]", GetSafeErrorMessage(nil))
	})

	t.Run("oversized body", func(t *testing.T) {
		assert.Equal(t, "File exceeds 2MB size limit.", GetSafeErrorMessage(&http.MaxBytesError{Limit: 1}))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
	}
	v := validator.New()

	assert.Equal(t, "Invalid email: required field", SanitizeValidationError(v.Struct(req{})))
	assert.Equal(t, "Invalid email: invalid email format", SanitizeValidationError(v.Struct(req{Email: "nope"})))
	assert.Equal(t, "Request body is required", SanitizeValidationError(shared.ErrEmptyBody))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	w, env := serve(t, http.HandlerFunc(MethodNotAllowedHandler), newRequest(t, http.MethodDelete, "/health", nil, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method Not Allowed: DELETE", env.Message)
	assert.Equal(t, "Method Not Allowed", env.Error)

	w, env = serve(t, http.HandlerFunc(NotFoundHandler), newRequest(t, http.MethodGet, "/nowhere", nil, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/nowhere", env.Path)
}

func TestSanitizeValidationError_DecodeErrors(t *testing.T) {
	var v struct {
		Quantity int `json:"quantity"`
	}
	err := json.Unmarshal([]byte(`{"quantity":"many"}`), &v)
	assert.Equal(t, "Invalid quantity: wrong type", SanitizeValidationError(err))

	err = json.Unmarshal([]byte(`{nope`), &v)
	assert.Equal(t, "Invalid request format", SanitizeValidationError(err))
}
