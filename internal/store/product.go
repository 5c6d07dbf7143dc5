package store

import (
	"context"

	"github.com/phrazzld/buyone/internal/domain"
)

// ProductStore persists catalog products.
type ProductStore interface {
	// Create inserts a new product.
	// Returns ErrProductNameExists if the seller already has a product with
	// the same name ignoring case.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID returns ErrProductNotFound if no product has the id.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns every product, newest first. An empty store yields an empty slice.
	List(ctx context.Context) ([]*domain.Product, error)

	// ListByOwner returns the seller's products, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error)

	// NameTaken reports whether the seller has another product named name
	// (case-insensitive). excludeID is skipped so an update can keep its own name.
	NameTaken(ctx context.Context, ownerID, name, excludeID string) (bool, error)

	// Update overwrites every mutable column of an existing product.
	// Returns ErrProductNotFound or ErrProductNameExists.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes the product. Returns ErrProductNotFound.
	Delete(ctx context.Context, id string) error
}

// CategoryStore persists product categories.
type CategoryStore interface {
	// Create returns ErrSlugExists when the slug is taken.
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}
