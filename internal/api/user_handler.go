package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/service"
)

// emailUpdateNotice is sent on PUT /api/users/me, which never changes the email.
const emailUpdateNotice = "Email changes require admin privileges"

// UserHandler serves the /api/users routes.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Users fetched successfully", usersToResponse(users))
}

// Sellers handles GET /api/users/sellers.
func (h *UserHandler) Sellers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, domain.RoleSeller, "Sellers fetched successfully")
}

// Clients handles GET /api/users/clients.
func (h *UserHandler) Clients(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, domain.RoleClient, "Clients fetched successfully")
}

func (h *UserHandler) listByRole(w http.ResponseWriter, r *http.Request, role domain.Role, message string) {
	users, err := h.users.ListByRole(r.Context(), role)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, message, usersToResponse(users))
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "User fetched successfully", userToResponse(user))
}

// Me handles GET /api/users/me using the email from the identity headers.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetByEmail(r.Context(), caller.Email)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "User fetched successfully", userToResponse(user))
}

// UpdateMe handles PUT /api/users/me. Only name, password and avatar change.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), caller.Email, service.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("X-Email-Update", emailUpdateNotice)
	shared.RespondWithSuccess(w, r, http.StatusOK, "Profile updated successfully", userToResponse(user))
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), caller, chi.URLParam(r, "id"), service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Avatar:   req.Avatar,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "User updated successfully", userToResponse(user))
}

// Delete handles DELETE /api/users/{id} and answers 204.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.users.Delete(r.Context(), caller, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("user deleted", slog.String("user_id", id), slog.String("by", caller.ID))
	w.WriteHeader(http.StatusNoContent)
}
