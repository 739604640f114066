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

// queueRepository is the SQLite-backed implementation of [QueueRepository].
// The table is an append-then-delete log: rows are inserted at enqueue time,
// mutated only to bump retry_count, and deleted on terminal outcomes.
type queueRepository struct {
	*DB
	logger *logger.Logger
}

func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

func (q *queueRepository) Insert(ctx context.Context, op models.PendingOperation) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, insertPendingOperation,
		op.ID,
		op.Kind,
		op.Endpoint,
		op.Method,
		string(op.Payload),
		op.CreatedAt,
		op.RetryCount,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Insert").
			Str("operation_id", op.ID).
			Str("kind", op.Kind).
			Msg("failed to insert pending operation")
		return fmt.Errorf("failed to insert pending operation (id=%s): %w", op.ID, err)
	}

	return nil
}

func (q *queueRepository) Get(ctx context.Context, id string) (models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	row := q.DB.QueryRowContext(ctx, getPendingOperation, id)

	op, err := scanPendingOperation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PendingOperation{}, fmt.Errorf("pending operation %s: %w", id, ErrNotFound)
		}
		log.Err(err).
			Str("func", "queueRepository.Get").
			Str("operation_id", id).
			Msg("failed to scan pending operation row")
		return models.PendingOperation{}, fmt.Errorf("failed to scan pending operation row: %w", err)
	}

	return op, nil
}

// All returns every queued operation oldest-first so a flush preserves the
// causal order of user actions.
func (q *queueRepository) All(ctx context.Context) ([]models.PendingOperation, error) {
	return q.queryOperations(ctx, "queueRepository.All", getAllPendingOperations)
}

func (q *queueRepository) AllByKind(ctx context.Context, kind string) ([]models.PendingOperation, error) {
	return q.queryOperations(ctx, "queueRepository.AllByKind", getPendingOperationsByKind, kind)
}

func (q *queueRepository) IncrementRetry(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := q.DB.ExecContext(ctx, incrementPendingRetry, id)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.IncrementRetry").
			Str("operation_id", id).
			Msg("failed to increment retry count")
		return fmt.Errorf("failed to increment retry count (id=%s): %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (id=%s): %w", id, err)
	}
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "queueRepository.IncrementRetry").
			Str("operation_id", id).
			Msg("no rows affected during retry increment: operation not found")
		return fmt.Errorf("pending operation %s: %w", id, ErrNotFound)
	}

	return nil
}

func (q *queueRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := q.DB.ExecContext(ctx, deletePendingOperation, id); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Delete").
			Str("operation_id", id).
			Msg("failed to delete pending operation")
		return fmt.Errorf("failed to delete pending operation (id=%s): %w", id, err)
	}

	return nil
}

func (q *queueRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := q.DB.ExecContext(ctx, clearPendingOperations); err != nil {
		log.Err(err).
			Str("func", "queueRepository.DeleteAll").
			Msg("failed to clear pending operations")
		return fmt.Errorf("failed to clear pending operations: %w", err)
	}

	return nil
}

func (q *queueRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	var n int
	if err := q.DB.QueryRowContext(ctx, countPendingOperations).Scan(&n); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Count").
			Msg("failed to count pending operations")
		return 0, fmt.Errorf("failed to count pending operations: %w", err)
	}

	return n, nil
}

func (q *queueRepository) queryOperations(ctx context.Context, funcName, query string, args ...any) ([]models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to execute query for pending operations")
		return nil, fmt.Errorf("failed to query pending operations: %w", err)
	}
	defer rows.Close()

	var ops []models.PendingOperation

	for rows.Next() {
		op, scanErr := scanPendingOperation(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Msg("failed to scan pending operation row")
			return nil, fmt.Errorf("failed to scan pending operation row: %w", scanErr)
		}
		ops = append(ops, op)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating pending operation rows: %w", rowsErr)
	}

	return ops, nil
}

func scanPendingOperation(scan func(dest ...any) error) (models.PendingOperation, error) {
	var (
		op      models.PendingOperation
		payload string
	)

	err := scan(&op.ID, &op.Kind, &op.Endpoint, &op.Method, &payload, &op.CreatedAt, &op.RetryCount)
	if err != nil {
		return models.PendingOperation{}, err
	}
	op.Payload = []byte(payload)

	return op, nil
}
