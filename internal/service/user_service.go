package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/service/auth"
	"github.com/phrazzld/buyone/internal/store"
)

// RegisterInput carries a new account. Role defaults to CLIENT.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput is a patch for PUT /api/users/{id}. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Avatar   *string
}

// UpdateProfileInput is the self-service patch. Email and role cannot change here.
type UpdateProfileInput struct {
	Name     *string
	Password *string
	Avatar   *string
}

// UserService is the user account rule engine.
type UserService interface {
	// Register creates an account with a bcrypt-hashed password.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Authenticate checks credentials. Unknown email and wrong password
	// produce the same ErrUnauthorized error.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List fails with ErrNotFound when there are no users.
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// Update patches the account. Callers may change their own account;
	// admins may change any account and are the only ones who may change roles.
	Update(ctx context.Context, caller domain.Caller, id string, in UpdateUserInput) (*domain.User, error)

	// UpdateProfile patches the account identified by email.
	UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*domain.User, error)

	Delete(ctx context.Context, caller domain.Caller, id string) error
}

type userServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) UserService {
	return &userServiceImpl{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger.With("component", "user_service"),
	}
}

func (s *userServiceImpl) hash(password string) (string, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return "", NewServiceError("user", "hash password", err)
	}
	return hashed, nil
}

func (s *userServiceImpl) emailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return false, nil
		}
		return false, NewServiceError("user", "check email", err)
	}
	return existing.ID != excludeID, nil
}

func (s *userServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if domain.IsBlank(in.Email) {
		return nil, badRequest("Email cannot be empty")
	}
	email := strings.TrimSpace(in.Email)

	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflict("Email already exists")
	}

	if domain.IsBlank(in.Password) {
		return nil, badRequest("Password cannot be empty")
	}

	role := domain.RoleClient
	if !domain.IsBlank(in.Role) {
		parsed, err := domain.ParseRole(in.Role)
		if err != nil || parsed == domain.RoleAdmin {
			return nil, badRequest("Role must be CLIENT or SELLER")
		}
		role = parsed
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(strings.TrimSpace(in.Name), email, hashed, role)
	if err != nil {
		return nil, badRequest("Invalid user: %v", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, conflict("Email already exists")
		}
		s.logger.Error("failed to save user",
			"error", redact.Error(err))
		return nil, NewServiceError("user", "create", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"role", user.Role)
	return user, nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if domain.IsBlank(email) || password == "" {
		return nil, unauthorized("Invalid email or password")
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("login for unknown email")
			return nil, unauthorized("Invalid email or password")
		}
		return nil, NewServiceError("user", "authenticate", err)
	}

	if err := s.verifier.Compare(user.PasswordHash, password); err != nil {
		s.logger.Debug("login with wrong password", "user_id", user.ID)
		return nil, unauthorized("Invalid email or password")
	}
	return user, nil
}

func (s *userServiceImpl) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("User not found with ID: %s", id)
		}
		return nil, NewServiceError("user", "get", err)
	}
	return user, nil
}

func (s *userServiceImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if domain.IsBlank(email) {
		return nil, badRequest("Email must not be empty")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("No user found with email: %s", email)
		}
		return nil, NewServiceError("user", "get by email", err)
	}
	return user, nil
}

func (s *userServiceImpl) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, NewServiceError("user", "list", err)
	}
	if len(users) == 0 {
		return nil, notFound("No users found")
	}
	return users, nil
}

func (s *userServiceImpl) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, NewServiceError("user", "list by role", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func canModifyAccount(caller domain.Caller, id string) bool {
	return caller.Role == domain.RoleAdmin || (caller.ID != "" && caller.ID == id)
}

func (s *userServiceImpl) Update(ctx context.Context, caller domain.Caller, id string, in UpdateUserInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModifyAccount(caller, id) {
		return nil, forbidden("You can only modify your own account")
	}

	if in.Email != nil && *in.Email != user.Email {
		taken, err := s.emailTaken(ctx, strings.TrimSpace(*in.Email), user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, conflict("Email already exists")
		}
	}
	if in.Email != nil && domain.IsBlank(*in.Email) {
		return nil, badRequest("Email cannot be blank")
	}
	if in.Password != nil && domain.IsBlank(*in.Password) {
		return nil, badRequest("Password cannot be blank")
	}

	if in.Role != nil {
		role, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, badRequest("Invalid role: %s", *in.Role)
		}
		if role != user.Role && caller.Role != domain.RoleAdmin {
			return nil, forbidden("Only admins can change roles")
		}
		user.Role = role
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Password != nil {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if in.Password != nil && domain.IsBlank(*in.Password) {
		return nil, badRequest("Password cannot be blank")
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Password != nil {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) save(ctx context.Context, user *domain.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return conflict("Email already exists")
		case store.IsNotFoundError(err):
			return notFound("User not found with ID: %s", user.ID)
		}
		s.logger.Error("failed to update user",
			"error", redact.Error(err),
			"user_id", user.ID)
		return NewServiceError("user", "update", err)
	}
	s.logger.Info("user updated", "user_id", user.ID)
	return nil
}

func (s *userServiceImpl) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return notFound("Cannot delete — user not found with ID: %s", id)
		}
		return NewServiceError("user", "delete", err)
	}
	if !canModifyAccount(caller, id) {
		return forbidden("You can only modify your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return notFound("Cannot delete — user not found with ID: %s", id)
		}
		s.logger.Error("failed to delete user",
			"error", redact.Error(err),
			"user_id", id)
		return NewServiceError("user", "delete", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
