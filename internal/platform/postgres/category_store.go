package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/store"
)

// PostgresCategoryStore implements store.CategoryStore.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a category store over db.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

func (s *PostgresCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, slug, name, icon, description) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Slug, c.Name, c.Icon, c.Description,
	)
	if err != nil {
		return MapUniqueViolation(err, store.ErrSlugExists)
	}
	return nil
}

func (s *PostgresCategoryStore) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, name, icon, description FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Slug, &c.Name, &c.Icon, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, MapError(err)
	}
	return &c, nil
}

func (s *PostgresCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, name, icon, description FROM categories ORDER BY name`)
	if err != nil {
		s.logger.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []*domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Icon, &c.Description); err != nil {
			return nil, MapError(err)
		}
		categories = append(categories, &c)
	}
	return categories, MapError(rows.Err())
}

func (s *PostgresCategoryStore) Update(ctx context.Context, c *domain.Category) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, icon = $2, description = $3 WHERE id = $4`,
		c.Name, c.Icon, c.Description, c.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

func (s *PostgresCategoryStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}
