package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/store"
)

// MockMediaStore implements store.MediaStore for testing.
// WithTx returns the same mock, so transactional writes land in Media too.
type MockMediaStore struct {
	CreateFn       func(ctx context.Context, media *domain.Media) error
	GetByIDFn      func(ctx context.Context, id string) (*domain.Media, error)
	ListByOwnerFn  func(ctx context.Context, ownerID string, ownerType domain.OwnerType) ([]*domain.Media, error)
	CountByOwnerFn func(ctx context.Context, ownerID string, ownerType domain.OwnerType) (int, error)
	UpdateFn       func(ctx context.Context, media *domain.Media) error
	DeleteFn       func(ctx context.Context, id string) error

	// Data for default implementation, in insertion order
	Media   []*domain.Media
	TxCalls int
}

var _ store.MediaStore = (*MockMediaStore)(nil)

// NewMockMediaStore creates a store holding the given records
func NewMockMediaStore(media ...*domain.Media) *MockMediaStore {
	return &MockMediaStore{Media: media}
}

func (m *MockMediaStore) index(id string) int {
	for i, r := range m.Media {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// WithTx implements the MediaStore interface
func (m *MockMediaStore) WithTx(*sql.Tx) store.MediaStore {
	m.TxCalls++
	return m
}

// Create implements the MediaStore interface
func (m *MockMediaStore) Create(ctx context.Context, media *domain.Media) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, media)
	}
	m.Media = append(m.Media, media)
	return nil
}

// GetByID implements the MediaStore interface
func (m *MockMediaStore) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if i := m.index(id); i >= 0 {
		return m.Media[i], nil
	}
	return nil, store.ErrMediaNotFound
}

// ListByOwner implements the MediaStore interface
func (m *MockMediaStore) ListByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) ([]*domain.Media, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, ownerType)
	}
	out := []*domain.Media{}
	for _, r := range m.Media {
		if r.OwnerID == ownerID && r.OwnerType == ownerType {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountByOwner implements the MediaStore interface
func (m *MockMediaStore) CountByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (int, error) {
	if m.CountByOwnerFn != nil {
		return m.CountByOwnerFn(ctx, ownerID, ownerType)
	}
	list, err := m.ListByOwner(ctx, ownerID, ownerType)
	return len(list), err
}

// Update implements the MediaStore interface
func (m *MockMediaStore) Update(ctx context.Context, media *domain.Media) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, media)
	}
	i := m.index(media.ID)
	if i < 0 {
		return store.ErrMediaNotFound
	}
	m.Media[i] = media
	return nil
}

// Delete implements the MediaStore interface
func (m *MockMediaStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	i := m.index(id)
	if i < 0 {
		return store.ErrMediaNotFound
	}
	m.Media = append(m.Media[:i], m.Media[i+1:]...)
	return nil
}
