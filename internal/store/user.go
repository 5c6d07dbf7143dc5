package store

import (
	"context"

	"github.com/phrazzld/buyone/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Implementations store the password hash as given and never hash themselves.
type UserStore interface {
	// Create saves a new user. Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail matches the email exactly as stored.
	// Returns ErrUserNotFound if no user has it.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns every user ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// ListByRole returns the users holding role.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// Update overwrites name, email, password hash, role and avatar.
	// Returns ErrUserNotFound or ErrEmailExists.
	Update(ctx context.Context, user *domain.User) error

	// Delete returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id string) error
}
