package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/service/auth"
)

// AuthMiddleware verifies bearer tokens at the gateway and turns the claims
// into the identity headers the services trust.
type AuthMiddleware struct {
	jwtService auth.JWTService
	public     func(*http.Request) bool
}

// NewAuthMiddleware creates an AuthMiddleware. Requests for which public
// returns true may proceed without a token.
func NewAuthMiddleware(jwtService auth.JWTService, public func(*http.Request) bool) *AuthMiddleware {
	if public == nil {
		public = func(*http.Request) bool { return false }
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		public:     public,
	}
}

func stripIdentity(r *http.Request) {
	r.Header.Del(shared.HeaderUserID)
	r.Header.Del(shared.HeaderUserRole)
	r.Header.Del(shared.HeaderUserEmail)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Authenticate strips client-supplied identity headers, validates the token
// and, when valid, sets X-USER-ID, X-USER-ROLE and X-USER-EMAIL.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stripIdentity(r)
		public := m.public(r)

		token, ok := bearerToken(r)
		if !ok {
			if public {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("Authorization") == "" {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			} else {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			}
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if public {
				next.ServeHTTP(w, r)
				return
			}
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		r.Header.Set(shared.HeaderUserID, claims.UserID)
		r.Header.Set(shared.HeaderUserRole, claims.Role)
		r.Header.Set(shared.HeaderUserEmail, claims.Email)

		caller := domain.Caller{ID: claims.UserID, Role: domain.Role(claims.Role), Email: claims.Email}
		next.ServeHTTP(w, r.WithContext(shared.WithCaller(r.Context(), caller)))
	})
}
