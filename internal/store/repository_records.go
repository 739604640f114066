// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/models"
)

// recordRepository is the SQLite-backed implementation of [RecordRepository].
// All cached kinds share one "records" table partitioned by the store column;
// the (store, scope) index serves list-by-scope reads.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// Save upserts records by (store, id).
func (r *recordRepository) Save(ctx context.Context, storeName string, records ...models.CachedRecord) error {
	log := logger.FromContext(ctx)

	for _, rec := range records {
		_, err := r.DB.ExecContext(ctx, upsertRecord,
			storeName,
			rec.ID,
			rec.Scope,
			rec.Title,
			string(rec.Payload),
			rec.UpdatedAt,
		)
		if err != nil {
			log.Err(err).
				Str("func", "recordRepository.Save").
				Str("store", storeName).
				Str("id", rec.ID).
				Msg("failed to execute upsert for cached record")
			return fmt.Errorf("failed to save cached record (id=%s): %w", rec.ID, err)
		}
	}

	return nil
}

// Get returns the latest committed record or [ErrNotFound].
func (r *recordRepository) Get(ctx context.Context, storeName, id string) (models.CachedRecord, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, getRecord, storeName, id)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CachedRecord{}, fmt.Errorf("cached record %s/%s: %w", storeName, id, ErrNotFound)
		}
		log.Err(err).
			Str("func", "recordRepository.Get").
			Str("store", storeName).
			Str("id", id).
			Msg("failed to scan cached record row")
		return models.CachedRecord{}, fmt.Errorf("failed to scan cached record row: %w", err)
	}

	return rec, nil
}

func (r *recordRepository) GetAll(ctx context.Context, storeName string) ([]models.CachedRecord, error) {
	return r.queryRecords(ctx, "recordRepository.GetAll", getAllRecords, storeName)
}

// GetByScope returns every record of the partition whose scope equals scope,
// order unspecified beyond being stable.
func (r *recordRepository) GetByScope(ctx context.Context, storeName, scope string) ([]models.CachedRecord, error) {
	return r.queryRecords(ctx, "recordRepository.GetByScope", getRecordsByScope, storeName, scope)
}

// Delete removes a record if present. Deleting an absent record is not an
// error.
func (r *recordRepository) Delete(ctx context.Context, storeName, id string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, deleteRecord, storeName, id); err != nil {
		log.Err(err).
			Str("func", "recordRepository.Delete").
			Str("store", storeName).
			Str("id", id).
			Msg("failed to execute delete for cached record")
		return fmt.Errorf("failed to delete cached record (id=%s): %w", id, err)
	}

	return nil
}

// ReplaceScope deletes every record cached under scope and inserts records in
// their place, inside one transaction. A concurrent reader either sees the
// previous pull's set or the new one, never an empty scope mid-replace.
func (r *recordRepository) ReplaceScope(ctx context.Context, storeName, scope string, records []models.CachedRecord) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin scoped replace: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteRecordsByScope, storeName, scope); err != nil {
		log.Err(err).
			Str("func", "recordRepository.ReplaceScope").
			Str("store", storeName).
			Str("scope", scope).
			Msg("failed to delete scope during replace")
		return fmt.Errorf("failed to delete scope %s: %w", scope, err)
	}

	for _, rec := range records {
		_, err = tx.ExecContext(ctx, upsertRecord,
			storeName,
			rec.ID,
			rec.Scope,
			rec.Title,
			string(rec.Payload),
			rec.UpdatedAt,
		)
		if err != nil {
			log.Err(err).
				Str("func", "recordRepository.ReplaceScope").
				Str("store", storeName).
				Str("scope", scope).
				Str("id", rec.ID).
				Msg("failed to insert record during replace")
			return fmt.Errorf("failed to insert record %s during replace: %w", rec.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scoped replace: %w", err)
	}

	return nil
}

// Clear empties a partition.
func (r *recordRepository) Clear(ctx context.Context, storeName string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, clearRecords, storeName); err != nil {
		log.Err(err).
			Str("func", "recordRepository.Clear").
			Str("store", storeName).
			Msg("failed to clear record partition")
		return fmt.Errorf("failed to clear partition %s: %w", storeName, err)
	}

	return nil
}

// Count returns the partition's cardinality.
func (r *recordRepository) Count(ctx context.Context, storeName string) (int, error) {
	log := logger.FromContext(ctx)

	var n int
	if err := r.DB.QueryRowContext(ctx, countRecords, storeName).Scan(&n); err != nil {
		log.Err(err).
			Str("func", "recordRepository.Count").
			Str("store", storeName).
			Msg("failed to count record partition")
		return 0, fmt.Errorf("failed to count partition %s: %w", storeName, err)
	}

	return n, nil
}

func (r *recordRepository) queryRecords(ctx context.Context, funcName, query string, args ...any) ([]models.CachedRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to execute query for cached records")
		return nil, fmt.Errorf("failed to query cached records: %w", err)
	}
	defer rows.Close()

	var records []models.CachedRecord

	for rows.Next() {
		rec, scanErr := scanRecord(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Msg("failed to scan cached record row")
			return nil, fmt.Errorf("failed to scan cached record row: %w", scanErr)
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating cached record rows: %w", rowsErr)
	}

	return records, nil
}

func scanRecord(scan func(dest ...any) error) (models.CachedRecord, error) {
	var (
		rec      models.CachedRecord
		storeCol string
		payload  string
	)

	if err := scan(&storeCol, &rec.ID, &rec.Scope, &rec.Title, &payload, &rec.UpdatedAt); err != nil {
		return models.CachedRecord{}, err
	}
	rec.Payload = []byte(payload)

	return rec, nil
}
