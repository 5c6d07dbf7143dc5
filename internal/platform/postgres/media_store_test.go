package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMediaStore(t *testing.T) (*PostgresMediaStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresMediaStore(db, nil), mock
}

func TestPostgresMediaStore_ListAndCount(t *testing.T) {
	s, mock := newMockMediaStore(t)
	now := time.Now().UTC()
	cols := []string{"id", "owner_id", "owner_type", "path", "content_type", "created_at"}

	mock.ExpectQuery("SELECT (.+) FROM media").
		WithArgs("p1", "PRODUCT").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("m1", "p1", "PRODUCT", "product/p1/m1", "image/png", now))
	mock.ExpectQuery("SELECT count").
		WithArgs("p1", "PRODUCT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	media, err := s.ListByOwner(context.Background(), "p1", domain.OwnerProduct)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, domain.OwnerProduct, media[0].OwnerType)

	n, err := s.CountByOwner(context.Background(), "p1", domain.OwnerProduct)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPostgresMediaStore_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPostgresMediaStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM media").WithArgs("old").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).Delete(ctx, "old")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMediaStore_GetByIDNotFound(t *testing.T) {
	s, mock := newMockMediaStore(t)
	mock.ExpectQuery("SELECT (.+) FROM media WHERE id").
		WithArgs("m404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "owner_type", "path", "content_type", "created_at"}))

	_, err := s.GetByID(context.Background(), "m404")
	assert.ErrorIs(t, err, store.ErrMediaNotFound)
}
