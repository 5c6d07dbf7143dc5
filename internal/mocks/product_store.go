package mocks

import (
	"context"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/store"
)

// MockProductStore implements store.ProductStore for testing
type MockProductStore struct {
	CreateFn      func(ctx context.Context, product *domain.Product) error
	GetByIDFn     func(ctx context.Context, id string) (*domain.Product, error)
	ListFn        func(ctx context.Context) ([]*domain.Product, error)
	ListByOwnerFn func(ctx context.Context, ownerID string) ([]*domain.Product, error)
	NameTakenFn   func(ctx context.Context, ownerID, name, excludeID string) (bool, error)
	UpdateFn      func(ctx context.Context, product *domain.Product) error
	DeleteFn      func(ctx context.Context, id string) error

	// Data for default implementation, in insertion order
	Products    []*domain.Product
	DeleteCalls int
}

var _ store.ProductStore = (*MockProductStore)(nil)

// NewMockProductStore creates a store holding the given products
func NewMockProductStore(products ...*domain.Product) *MockProductStore {
	return &MockProductStore{Products: products}
}

func (m *MockProductStore) index(id string) int {
	for i, p := range m.Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Create implements the ProductStore interface
func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}
	m.Products = append(m.Products, product)
	return nil
}

// GetByID implements the ProductStore interface
func (m *MockProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if i := m.index(id); i >= 0 {
		return m.Products[i], nil
	}
	return nil, store.ErrProductNotFound
}

// List implements the ProductStore interface
func (m *MockProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	out := make([]*domain.Product, len(m.Products))
	copy(out, m.Products)
	return out, nil
}

// ListByOwner implements the ProductStore interface
func (m *MockProductStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	out := []*domain.Product{}
	for _, p := range m.Products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// NameTaken implements the ProductStore interface
func (m *MockProductStore) NameTaken(ctx context.Context, ownerID, name, excludeID string) (bool, error) {
	if m.NameTakenFn != nil {
		return m.NameTakenFn(ctx, ownerID, name, excludeID)
	}
	for _, p := range m.Products {
		if p.OwnerID == ownerID && p.ID != excludeID && p.SameName(name) {
			return true, nil
		}
	}
	return false, nil
}

// Update implements the ProductStore interface
func (m *MockProductStore) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, product)
	}
	i := m.index(product.ID)
	if i < 0 {
		return store.ErrProductNotFound
	}
	m.Products[i] = product
	return nil
}

// Delete implements the ProductStore interface
func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	m.DeleteCalls++
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	i := m.index(id)
	if i < 0 {
		return store.ErrProductNotFound
	}
	m.Products = append(m.Products[:i], m.Products[i+1:]...)
	return nil
}

// MockCategoryStore implements store.CategoryStore for testing
type MockCategoryStore struct {
	CreateFn  func(ctx context.Context, category *domain.Category) error
	GetByIDFn func(ctx context.Context, id string) (*domain.Category, error)
	ListFn    func(ctx context.Context) ([]*domain.Category, error)
	UpdateFn  func(ctx context.Context, category *domain.Category) error
	DeleteFn  func(ctx context.Context, id string) error

	Categories []*domain.Category
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// NewMockCategoryStore creates a store holding the given categories
func NewMockCategoryStore(categories ...*domain.Category) *MockCategoryStore {
	return &MockCategoryStore{Categories: categories}
}

func (m *MockCategoryStore) index(id string) int {
	for i, c := range m.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Create implements the CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	for _, c := range m.Categories {
		if c.Slug == category.Slug {
			return store.ErrSlugExists
		}
	}
	m.Categories = append(m.Categories, category)
	return nil
}

// GetByID implements the CategoryStore interface
func (m *MockCategoryStore) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if i := m.index(id); i >= 0 {
		return m.Categories[i], nil
	}
	return nil, store.ErrCategoryNotFound
}

// List implements the CategoryStore interface
func (m *MockCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	out := make([]*domain.Category, len(m.Categories))
	copy(out, m.Categories)
	return out, nil
}

// Update implements the CategoryStore interface
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}
	i := m.index(category.ID)
	if i < 0 {
		return store.ErrCategoryNotFound
	}
	m.Categories[i] = category
	return nil
}

// Delete implements the CategoryStore interface
func (m *MockCategoryStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	i := m.index(id)
	if i < 0 {
		return store.ErrCategoryNotFound
	}
	m.Categories = append(m.Categories[:i], m.Categories[i+1:]...)
	return nil
}
