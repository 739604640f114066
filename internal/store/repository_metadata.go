package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/models"
)

// metadataRepository is the SQLite-backed implementation of
// [MetadataRepository]. It keeps one row per scope-or-purpose key; the
// synchronizer writes a row only after a fully successful pull.
type metadataRepository struct {
	*DB
	logger *logger.Logger
}

func NewMetadataRepository(db *DB, logger *logger.Logger) MetadataRepository {
	return &metadataRepository{
		DB:     db,
		logger: logger,
	}
}

func (m *metadataRepository) Upsert(ctx context.Context, key, value string, updatedAt time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := m.DB.ExecContext(ctx, upsertMetadata, key, value, updatedAt); err != nil {
		log.Err(err).
			Str("func", "metadataRepository.Upsert").
			Str("key", key).
			Msg("failed to upsert cache metadata")
		return fmt.Errorf("failed to upsert cache metadata (key=%s): %w", key, err)
	}

	return nil
}

func (m *metadataRepository) Get(ctx context.Context, key string) (models.CacheMetadata, error) {
	log := logger.FromContext(ctx)

	var meta models.CacheMetadata
	row := m.DB.QueryRowContext(ctx, getMetadata, key)
	if err := row.Scan(&meta.Key, &meta.Value, &meta.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CacheMetadata{}, fmt.Errorf("cache metadata %s: %w", key, ErrNotFound)
		}
		log.Err(err).
			Str("func", "metadataRepository.Get").
			Str("key", key).
			Msg("failed to scan cache metadata row")
		return models.CacheMetadata{}, fmt.Errorf("failed to scan cache metadata row: %w", err)
	}

	return meta, nil
}
