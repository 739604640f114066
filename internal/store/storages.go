package store

import (
	"context"
	"fmt"

	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/logger"
)

// Storages groups the local repositories into a single value handed to the
// service layer. All three share one SQLite handle.
type Storages struct {
	// Records is the partitioned store for cached reference data.
	Records RecordRepository
	// Queue is the durable pending-operation log.
	Queue QueueRepository
	// Metadata is per-scope sync bookkeeping.
	Metadata MetadataRepository

	db *DB
}

// NewStorages initialises the local storage layer:
//  1. Opens the SQLite database at cfg.DSN, creating the file if missing.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires the repositories, decorating record reads with the in-memory
//     cache unless cfg.ReadCacheDisabled is set.
//
// Returns [ErrStorageUnavailable] (wrapped) when no persistent engine can be
// opened; callers should disable offline features in that case.
func NewStorages(cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	records := NewRecordRepository(db, log)
	if !cfg.ReadCacheDisabled {
		records = NewCachedRecordRepository(records, log)
	}

	return &Storages{
		Records:  records,
		Queue:    NewQueueRepository(db, log),
		Metadata: NewMetadataRepository(db, log),
		db:       db,
	}, nil
}

// Close releases the underlying database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
