// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), config.Storage{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func record(id, scope, title string) models.CachedRecord {
	return models.CachedRecord{
		ID:        id,
		Scope:     scope,
		Title:     title,
		Payload:   []byte(`{"k":"v"}`),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRecordRepository_SaveAndGet(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	rec := record("cat-1", "", "Catalog One")
	require.NoError(t, repo.Save(ctx, models.StoreCatalogs, rec))

	got, err := repo.Get(ctx, models.StoreCatalogs, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Title, got.Title)
	assert.JSONEq(t, string(rec.Payload), string(got.Payload))
	assert.WithinDuration(t, rec.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestRecordRepository_SaveUpsertsByID(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.StoreCatalogs, record("cat-1", "", "Old Title")))
	require.NoError(t, repo.Save(ctx, models.StoreCatalogs, record("cat-1", "", "New Title")))

	got, err := repo.Get(ctx, models.StoreCatalogs, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)

	n, err := repo.Count(ctx, models.StoreCatalogs)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordRepository_GetNotFound(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t), logger.Nop())

	_, err := repo.Get(context.Background(), models.StoreCatalogs, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordRepository_PartitionsAreIsolated(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.StoreCatalogs, record("shared-id", "", "catalog")))
	require.NoError(t, repo.Save(ctx, models.StoreSections, record("shared-id", "cat-1", "section")))

	got, err := repo.Get(ctx, models.StoreSections, "shared-id")
	require.NoError(t, err)
	assert.Equal(t, "section", got.Title)

	require.NoError(t, repo.Clear(ctx, models.StoreSections))

	n, err := repo.Count(ctx, models.StoreSections)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Count(ctx, models.StoreCatalogs)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "clearing one partition must not touch another")
}

func TestRecordRepository_ReplaceScope_RemovesOrphans(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.StoreSections,
		record("sec-1", "cat-1", "keep"),
		record("sec-2", "cat-1", "orphan"),
		record("sec-3", "cat-2", "other parent"),
	))

	// Fresh pull for cat-1 no longer contains sec-2.
	fresh := []models.CachedRecord{
		record("sec-1", "cat-1", "keep updated"),
		record("sec-4", "cat-1", "new"),
	}
	require.NoError(t, repo.ReplaceScope(ctx, models.StoreSections, "cat-1", fresh))

	inScope, err := repo.GetByScope(ctx, models.StoreSections, "cat-1")
	require.NoError(t, err)
	require.Len(t, inScope, 2)

	ids := []string{inScope[0].ID, inScope[1].ID}
	assert.ElementsMatch(t, []string{"sec-1", "sec-4"}, ids)

	_, err = repo.Get(ctx, models.StoreSections, "sec-2")
	assert.ErrorIs(t, err, ErrNotFound, "orphan from the previous pull must be gone")

	other, err := repo.GetByScope(ctx, models.StoreSections, "cat-2")
	require.NoError(t, err)
	require.Len(t, other, 1, "records of a different parent are untouched")
	assert.Equal(t, "sec-3", other[0].ID)
}

func TestRecordRepository_ReplaceScope_EmptyFetchClearsScope(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t), logger.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.StoreItems, record("item-1", "sec-1", "stale")))
	require.NoError(t, repo.ReplaceScope(ctx, models.StoreItems, "sec-1", nil))

	inScope, err := repo.GetByScope(ctx, models.StoreItems, "sec-1")
	require.NoError(t, err)
	assert.Empty(t, inScope)
}

func TestRecordRepository_DeleteAbsentIsNoError(t *testing.T) {
	repo := NewRecordRepository(newTestDB(t), logger.Nop())

	assert.NoError(t, repo.Delete(context.Background(), models.StoreItems, "never-existed"))
}
