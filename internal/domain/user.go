package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. PasswordHash is only ever a bcrypt hash.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a user with a fresh id. The caller hashes the password.
func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmptyEmail
	}
	if passwordHash == "" {
		return nil, ErrEmptyPassword
	}
	if role == "" {
		role = RoleClient
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
