package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offlinekit/offlinekit/internal/logger"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &DB{DB: conn, logger: logger.Nop()}, mock
}

func TestMetadataRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMetadataRepository(db, logger.Nop())

	at := time.Now().UTC()
	mock.ExpectExec("INSERT INTO cache_metadata").
		WithArgs("last_sync:catalogs", at.Format(time.RFC3339Nano), at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), "last_sync:catalogs", at.Format(time.RFC3339Nano), at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetadataRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMetadataRepository(db, logger.Nop())

	at := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"key", "value", "updated_at"}).
		AddRow("last_sync:catalogs", at.Format(time.RFC3339Nano), at)
	mock.ExpectQuery("SELECT key, value, updated_at").
		WithArgs("last_sync:catalogs").
		WillReturnRows(rows)

	meta, err := repo.Get(context.Background(), "last_sync:catalogs")
	require.NoError(t, err)
	assert.Equal(t, "last_sync:catalogs", meta.Key)
	assert.Equal(t, at.Format(time.RFC3339Nano), meta.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetadataRepository_GetMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMetadataRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT key, value, updated_at").
		WithArgs("last_sync:unknown").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	_, err := repo.Get(context.Background(), "last_sync:unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Real-database round trip alongside the sqlmock expectations.
func TestMetadataRepository_RoundTrip(t *testing.T) {
	repo := NewMetadataRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	first := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Upsert(ctx, "last_sync:items:sec-1", first.Format(time.RFC3339Nano), first))

	second := time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx, "last_sync:items:sec-1", second.Format(time.RFC3339Nano), second))

	meta, err := repo.Get(ctx, "last_sync:items:sec-1")
	require.NoError(t, err)
	assert.Equal(t, second.Format(time.RFC3339Nano), meta.Value, "upsert must overwrite the previous value")
}
