package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/store"
)

const productColumns = `id, name, description, price, quantity, owner_id, category_id, images, created_at, updated_at`

// PostgresProductStore implements store.ProductStore.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a product store over db. A nil logger uses the default.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*PostgresProductStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var images []byte
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.OwnerID,
		&p.CategoryID,
		&images,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decode product images: %w", err)
		}
	}
	return &p, nil
}

func encodeImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}

// Create implements store.ProductStore.Create.
func (s *PostgresProductStore) Create(ctx context.Context, p *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	images, err := encodeImages(p.Images)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Description, p.Price, p.Quantity, p.OwnerID, p.CategoryID, images, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", p.ID),
			slog.String("owner_id", p.OwnerID))
		return MapUniqueViolation(err, store.ErrProductNameExists)
	}

	log.Debug("product created", slog.String("product_id", p.ID))
	return nil
}

// GetByID implements store.ProductStore.GetByID.
func (s *PostgresProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get product",
			slog.String("error", err.Error()),
			slog.String("product_id", id))
		return nil, MapError(err)
	}
	return p, nil
}

// List implements store.ProductStore.List.
func (s *PostgresProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	return s.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

// ListByOwner implements store.ProductStore.ListByOwner.
func (s *PostgresProductStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	return s.query(ctx, `SELECT `+productColumns+` FROM products WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (s *PostgresProductStore) query(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list products", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, MapError(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return products, nil
}

// NameTaken implements store.ProductStore.NameTaken.
func (s *PostgresProductStore) NameTaken(ctx context.Context, ownerID, name, excludeID string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE owner_id = $1 AND lower(name) = lower($2) AND id <> $3
		)`, ownerID, name, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, MapError(err)
	}
	return taken, nil
}

// Update implements store.ProductStore.Update.
func (s *PostgresProductStore) Update(ctx context.Context, p *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	images, err := encodeImages(p.Images)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, quantity = $4,
		    category_id = $5, images = $6, updated_at = $7
		WHERE id = $8`,
		p.Name, p.Description, p.Price, p.Quantity, p.CategoryID, images, p.UpdatedAt, p.ID,
	)
	if err != nil {
		log.Error("failed to update product",
			slog.String("error", err.Error()),
			slog.String("product_id", p.ID))
		return MapUniqueViolation(err, store.ErrProductNameExists)
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}

// Delete implements store.ProductStore.Delete.
func (s *PostgresProductStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete product",
			slog.String("error", err.Error()),
			slog.String("product_id", id))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}
