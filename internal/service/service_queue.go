// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/offlinekit/offlinekit/internal/adapter"
	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/store"
	"github.com/offlinekit/offlinekit/internal/utils"
	"github.com/offlinekit/offlinekit/models"
)

type queueService struct {
	storages *store.Storages
	api      adapter.RemoteAPI
	monitor  connectivity.Monitor
	notifier *Notifier
	ids      *utils.UUIDGenerator
	logger   *logger.Logger

	// flushMu serializes flushes. A manual "sync now" racing the automatic
	// reconnect trigger waits here and then runs over whatever remains,
	// instead of interleaving over the same ordered list.
	flushMu sync.Mutex
}

// NewQueueService wires the durable mutation queue.
func NewQueueService(storages *store.Storages, api adapter.RemoteAPI, monitor connectivity.Monitor, notifier *Notifier, log *logger.Logger) QueueService {
	return &queueService{
		storages: storages,
		api:      api,
		monitor:  monitor,
		notifier: notifier,
		ids:      utils.NewUUIDGenerator(),
		logger:   log,
	}
}

// Enqueue implements [QueueService].
func (s *queueService) Enqueue(ctx context.Context, kind, endpoint, method string, payload json.RawMessage) (string, error) {
	op := models.PendingOperation{
		ID:         s.ids.Generate(),
		Kind:       kind,
		Endpoint:   endpoint,
		Method:     method,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
		RetryCount: 0,
	}

	if err := s.storages.Queue.Insert(ctx, op); err != nil {
		return "", fmt.Errorf("enqueue %s: %w", kind, err)
	}

	s.logger.Debug().
		Str("func", "queueService.Enqueue").
		Str("operation_id", op.ID).
		Str("kind", kind).
		Str("endpoint", endpoint).
		Msg("operation queued")

	s.notifier.Notify()
	return op.ID, nil
}

// Flush implements [QueueService]. Delivery is at-least-once: a mutation the
// server applied whose 2xx response was lost to a network error counts as
// transient here and replays on the next flush. The operation id travels as
// an idempotency key so the server can deduplicate.
func (s *queueService) Flush(ctx context.Context) (models.FlushResult, error) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if !s.monitor.Online() {
		remaining, err := s.storages.Queue.Count(ctx)
		if err != nil {
			return models.FlushResult{}, fmt.Errorf("count pending operations: %w", err)
		}
		return models.FlushResult{Remaining: remaining}, nil
	}

	ops, err := s.storages.Queue.All(ctx)
	if err != nil {
		return models.FlushResult{}, fmt.Errorf("load pending operations: %w", err)
	}

	var result models.FlushResult
	for _, op := range ops {
		s.deliverOne(ctx, op, &result)
	}

	remaining, err := s.storages.Queue.Count(ctx)
	if err != nil {
		return result, fmt.Errorf("count pending operations: %w", err)
	}
	result.Remaining = remaining

	if len(ops) > 0 {
		s.notifier.Notify()
	}

	return result, nil
}

// deliverOne attempts one delivery and applies the outcome. Transient errors
// never abort the batch: one bad entry must not block the rest of the queue.
func (s *queueService) deliverOne(ctx context.Context, op models.PendingOperation, result *models.FlushResult) {
	err := s.api.Deliver(ctx, op)

	switch {
	case err == nil:
		if delErr := s.storages.Queue.Delete(ctx, op.ID); delErr != nil {
			s.logger.Err(delErr).
				Str("func", "queueService.deliverOne").
				Str("operation_id", op.ID).
				Msg("delivered but failed to dequeue; will replay")
			return
		}
		result.Success++

	case errors.Is(err, adapter.ErrClient):
		// Non-retryable: retrying a validation error cannot succeed.
		s.logger.Warn().Err(err).
			Str("func", "queueService.deliverOne").
			Str("operation_id", op.ID).
			Str("kind", op.Kind).
			Msg("terminal client error, dropping operation")
		if delErr := s.storages.Queue.Delete(ctx, op.ID); delErr != nil {
			s.logger.Err(delErr).Str("operation_id", op.ID).Msg("failed to drop operation")
			return
		}
		result.Failed++

	default:
		// Network error or 5xx: transient.
		if op.RetryCount+1 >= models.MaxRetries {
			s.logger.Warn().Err(ErrRetryExhausted).
				Str("func", "queueService.deliverOne").
				Str("operation_id", op.ID).
				Str("kind", op.Kind).
				Int("retry_count", op.RetryCount+1).
				Msg("dropping operation after final retry")
			if delErr := s.storages.Queue.Delete(ctx, op.ID); delErr != nil {
				s.logger.Err(delErr).Str("operation_id", op.ID).Msg("failed to drop exhausted operation")
				return
			}
			result.Failed++
			return
		}

		if incErr := s.storages.Queue.IncrementRetry(ctx, op.ID); incErr != nil {
			s.logger.Err(incErr).
				Str("func", "queueService.deliverOne").
				Str("operation_id", op.ID).
				Msg("failed to persist retry increment")
		}
		s.logger.Debug().Err(err).
			Str("func", "queueService.deliverOne").
			Str("operation_id", op.ID).
			Int("retry_count", op.RetryCount+1).
			Msg("transient delivery failure, operation kept")
	}
}

// ExecuteOrQueue implements [QueueService]. Graceful degradation: a transient
// failure of the direct call becomes a queued operation instead of an error
// surfaced to the user.
func (s *queueService) ExecuteOrQueue(ctx context.Context, kind, endpoint, method string, payload json.RawMessage, onlineAction func(context.Context) error) (string, bool, error) {
	if s.monitor.Online() {
		err := onlineAction(ctx)
		if err == nil {
			return "", false, nil
		}
		s.logger.Debug().Err(err).
			Str("func", "queueService.ExecuteOrQueue").
			Str("kind", kind).
			Msg("direct call failed, queueing instead")
	}

	opID, err := s.Enqueue(ctx, kind, endpoint, method, payload)
	if err != nil {
		return "", false, err
	}

	return opID, true, nil
}

func (s *queueService) PendingCount(ctx context.Context) (int, error) {
	return s.storages.Queue.Count(ctx)
}

func (s *queueService) PendingOperations(ctx context.Context) ([]models.PendingOperation, error) {
	return s.storages.Queue.All(ctx)
}

func (s *queueService) PendingByKind(ctx context.Context, kind string) ([]models.PendingOperation, error) {
	return s.storages.Queue.AllByKind(ctx, kind)
}

// Remove implements [QueueService].
func (s *queueService) Remove(ctx context.Context, id string) error {
	if err := s.storages.Queue.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove pending operation %s: %w", id, err)
	}

	s.notifier.Notify()
	return nil
}

// Clear implements [QueueService].
func (s *queueService) Clear(ctx context.Context) error {
	if err := s.storages.Queue.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear pending operations: %w", err)
	}

	s.notifier.Notify()
	return nil
}

func (s *queueService) Subscribe() (<-chan struct{}, func()) {
	return s.notifier.Subscribe()
}
