package store

import (
	"context"
	"time"

	"github.com/offlinekit/offlinekit/models"
)

// RecordRepository is the partitioned local store for cached reference data.
// Each named partition (see models.StoreCatalogs and friends) supports
// upsert/get/list/delete/count; ReplaceScope swaps the whole cached subset for
// one parent scope in a single transaction so no orphans from a previous pull
// survive a later one.
type RecordRepository interface {
	Save(ctx context.Context, storeName string, records ...models.CachedRecord) error
	Get(ctx context.Context, storeName, id string) (models.CachedRecord, error)
	GetAll(ctx context.Context, storeName string) ([]models.CachedRecord, error)
	GetByScope(ctx context.Context, storeName, scope string) ([]models.CachedRecord, error)
	Delete(ctx context.Context, storeName, id string) error
	ReplaceScope(ctx context.Context, storeName, scope string, records []models.CachedRecord) error
	Clear(ctx context.Context, storeName string) error
	Count(ctx context.Context, storeName string) (int, error)
}

// QueueRepository persists pending write operations. All listing methods
// return operations in creation order (oldest first), ties broken by id.
type QueueRepository interface {
	Insert(ctx context.Context, op models.PendingOperation) error
	Get(ctx context.Context, id string) (models.PendingOperation, error)
	All(ctx context.Context) ([]models.PendingOperation, error)
	AllByKind(ctx context.Context, kind string) ([]models.PendingOperation, error)
	IncrementRetry(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// MetadataRepository stores per-scope sync bookkeeping.
type MetadataRepository interface {
	Upsert(ctx context.Context, key, value string, updatedAt time.Time) error
	Get(ctx context.Context, key string) (models.CacheMetadata, error)
}
