package mocks

import (
	"context"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ListFn       func(ctx context.Context) ([]*domain.User, error)
	ListByRoleFn func(ctx context.Context, role domain.Role) ([]*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error
	DeleteFn     func(ctx context.Context, id string) error

	// Data for default implementation, in insertion order
	Users []*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a store holding the given users
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	return &MockUserStore{Users: users}
}

func (m *MockUserStore) find(match func(*domain.User) bool) int {
	for i, u := range m.Users {
		if match(u) {
			return i
		}
	}
	return -1
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.find(func(u *domain.User) bool { return u.Email == user.Email }) >= 0 {
		return store.ErrEmailExists
	}
	m.Users = append(m.Users, user)
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if i := m.find(func(u *domain.User) bool { return u.ID == id }); i >= 0 {
		return m.Users[i], nil
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if i := m.find(func(u *domain.User) bool { return u.Email == email }); i >= 0 {
		return m.Users[i], nil
	}
	return nil, store.ErrUserNotFound
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	out := make([]*domain.User, len(m.Users))
	copy(out, m.Users)
	return out, nil
}

// ListByRole implements the UserStore interface
func (m *MockUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role)
	}
	out := []*domain.User{}
	for _, u := range m.Users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	i := m.find(func(u *domain.User) bool { return u.ID == user.ID })
	if i < 0 {
		return store.ErrUserNotFound
	}
	if j := m.find(func(u *domain.User) bool { return u.Email == user.Email }); j >= 0 && j != i {
		return store.ErrEmailExists
	}
	m.Users[i] = user
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	i := m.find(func(u *domain.User) bool { return u.ID == id })
	if i < 0 {
		return store.ErrUserNotFound
	}
	m.Users = append(m.Users[:i], m.Users[i+1:]...)
	return nil
}
