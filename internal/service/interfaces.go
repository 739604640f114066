package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/offlinekit/offlinekit/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SyncService keeps cached catalogs, sections and items consistent with the
// remote source, per parent scope, and answers staleness questions about each
// scope. It also exposes the offline read accessors served from the local
// store.
type SyncService interface {
	// SyncCatalogs replaces the cached catalog set with the remote one.
	// Returns the number of records written.
	SyncCatalogs(ctx context.Context) (int, error)
	// SyncSections replaces the cached sections of one catalog.
	SyncSections(ctx context.Context, catalogID string) (int, error)
	// SyncItems replaces the cached items of one section, pulling the remote
	// set in fixed-size pages.
	SyncItems(ctx context.Context, sectionID string) (int, error)
	// SyncAll refreshes catalogs, then every catalog's sections, then every
	// section's items. Scopes completed before a failure stay valid.
	SyncAll(ctx context.Context) (models.SyncSummary, error)

	// NeedsSync reports whether scope has never been synced or was last
	// synced more than maxAge ago. maxAge <= 0 selects the default bound.
	NeedsSync(ctx context.Context, scope string, maxAge time.Duration) (bool, error)
	// LastSyncTime returns the scope's last successful sync, zero if never.
	LastSyncTime(ctx context.Context, scope string) (time.Time, error)

	Catalogs(ctx context.Context) ([]models.CachedRecord, error)
	Sections(ctx context.Context, catalogID string) ([]models.CachedRecord, error)
	Items(ctx context.Context, sectionID string) ([]models.CachedRecord, error)
	Catalog(ctx context.Context, id string) (models.CachedRecord, error)
	Section(ctx context.Context, id string) (models.CachedRecord, error)
	Item(ctx context.Context, id string) (models.CachedRecord, error)
}

// QueueService is the durable mutation queue: at-least-once, order-preserving
// delivery of write operations to the remote API.
type QueueService interface {
	// Enqueue persists a new pending operation and returns its id. Always
	// succeeds locally while storage is available.
	Enqueue(ctx context.Context, kind, endpoint, method string, payload json.RawMessage) (string, error)
	// Flush attempts delivery of every queued operation in creation order.
	// Offline it is a no-op returning the current count as Remaining.
	Flush(ctx context.Context) (models.FlushResult, error)
	// ExecuteOrQueue runs onlineAction directly when online, falling back to
	// an enqueue on failure; offline it enqueues without attempting. queued
	// reports which path was taken; opID is empty when the action ran
	// directly.
	ExecuteOrQueue(ctx context.Context, kind, endpoint, method string, payload json.RawMessage, onlineAction func(context.Context) error) (opID string, queued bool, err error)

	PendingCount(ctx context.Context) (int, error)
	PendingOperations(ctx context.Context) ([]models.PendingOperation, error)
	PendingByKind(ctx context.Context, kind string) ([]models.PendingOperation, error)
	// Remove deletes one pending operation without delivering it.
	Remove(ctx context.Context, id string) error
	// Clear drops the whole queue.
	Clear(ctx context.Context) error

	// Subscribe registers a queue-changed observer.
	Subscribe() (<-chan struct{}, func())
}
