package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/service"
	"github.com/phrazzld/buyone/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, "User registered successfully", user)
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, message string, user *domain.User) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	token, err := h.jwtService.GenerateToken(r.Context(), auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithSuccess(w, r, status, message, AuthResponse{
		Message: message,
		Token:   token,
		User:    userToResponse(user),
	})
}
