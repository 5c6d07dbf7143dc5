package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/buyone/internal/domain"
)

// MediaStore persists media records. Binaries live in object storage.
type MediaStore interface {
	Create(ctx context.Context, media *domain.Media) error

	// GetByID returns ErrMediaNotFound if the record does not exist.
	GetByID(ctx context.Context, id string) (*domain.Media, error)

	// ListByOwner returns the owner's media, oldest first.
	ListByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) ([]*domain.Media, error)

	// CountByOwner returns how many records the owner holds.
	CountByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (int, error)

	// Update overwrites path and content type in place, keeping the id.
	Update(ctx context.Context, media *domain.Media) error

	// Delete returns ErrMediaNotFound if the record does not exist.
	Delete(ctx context.Context, id string) error

	// WithTx returns a MediaStore bound to tx so a replace can delete and
	// insert atomically.
	WithTx(tx *sql.Tx) MediaStore
}
