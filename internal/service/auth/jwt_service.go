// Package auth issues and verifies the HMAC-signed access tokens shared by
// the user service and the gateway, and hashes passwords with bcrypt.
package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the identity.
	GenerateToken(ctx context.Context, identity Identity) (string, error)

	// ValidateToken verifies signature and time claims and returns the claims.
	// Returns ErrInvalidToken, ErrExpiredToken or ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Identity is what a token asserts about its holder.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	UserID    string    `json:"uid,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
