package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/store"
)

const mediaColumns = `id, owner_id, owner_type, path, content_type, created_at`

// PostgresMediaStore implements store.MediaStore.
type PostgresMediaStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMediaStore creates a media store over db.
func NewPostgresMediaStore(db store.DBTX, logger *slog.Logger) *PostgresMediaStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMediaStore{
		db:     db,
		logger: logger.With(slog.String("component", "media_store")),
	}
}

var _ store.MediaStore = (*PostgresMediaStore)(nil)

// WithTx implements store.MediaStore.WithTx.
func (s *PostgresMediaStore) WithTx(tx *sql.Tx) store.MediaStore {
	return &PostgresMediaStore{db: tx, logger: s.logger}
}

func scanMedia(row rowScanner) (*domain.Media, error) {
	var m domain.Media
	var ownerType string
	if err := row.Scan(&m.ID, &m.OwnerID, &ownerType, &m.Path, &m.ContentType, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.OwnerType = domain.OwnerType(ownerType)
	return &m, nil
}

func (s *PostgresMediaStore) Create(ctx context.Context, m *domain.Media) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media (`+mediaColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.OwnerID, string(m.OwnerType), m.Path, m.ContentType, m.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create media",
			slog.String("error", err.Error()),
			slog.String("media_id", m.ID))
		return MapError(err)
	}
	return nil
}

func (s *PostgresMediaStore) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMediaNotFound
		}
		return nil, MapError(err)
	}
	return m, nil
}

func (s *PostgresMediaStore) ListByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) ([]*domain.Media, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+mediaColumns+` FROM media
		WHERE owner_id = $1 AND owner_type = $2
		ORDER BY created_at`, ownerID, string(ownerType))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	media := []*domain.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, MapError(err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return media, nil
}

func (s *PostgresMediaStore) CountByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM media WHERE owner_id = $1 AND owner_type = $2`, ownerID, string(ownerType),
	).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

func (s *PostgresMediaStore) Update(ctx context.Context, m *domain.Media) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE media SET path = $1, content_type = $2 WHERE id = $3`,
		m.Path, m.ContentType, m.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrMediaNotFound)
}

func (s *PostgresMediaStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrMediaNotFound)
}
