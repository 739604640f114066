package store

import (
	"context"

	"github.com/dgraph-io/ristretto"

	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/models"
)

// cachedRecordRepository decorates a [RecordRepository] with a ristretto
// in-memory cache for point reads. UI code hits Get repeatedly for the same
// record while rendering; the cache keeps those reads off SQLite.
//
// Invalidation is coarse: any scoped replace or partition clear drops the
// whole cache. Ristretto cannot evict by scope, and the cache refills from
// SQLite on the next read, so correctness is preserved at the cost of a cold
// cache after each sync.
type cachedRecordRepository struct {
	inner  RecordRepository
	cache  *ristretto.Cache
	logger *logger.Logger
}

// NewCachedRecordRepository wraps inner with an in-memory point-read cache.
// Falls back to the undecorated repository if the cache cannot be built.
func NewCachedRecordRepository(inner RecordRepository, log *logger.Logger) RecordRepository {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     10_000,
		BufferItems: 64,
	})
	if err != nil {
		log.Warn().Err(err).Str("func", "NewCachedRecordRepository").Msg("read cache disabled")
		return inner
	}

	return &cachedRecordRepository{inner: inner, cache: cache, logger: log}
}

func (c *cachedRecordRepository) Save(ctx context.Context, storeName string, records ...models.CachedRecord) error {
	if err := c.inner.Save(ctx, storeName, records...); err != nil {
		return err
	}

	for _, rec := range records {
		c.cache.Del(cacheKey(storeName, rec.ID))
	}
	return nil
}

func (c *cachedRecordRepository) Get(ctx context.Context, storeName, id string) (models.CachedRecord, error) {
	key := cacheKey(storeName, id)
	if v, ok := c.cache.Get(key); ok {
		if rec, ok := v.(models.CachedRecord); ok {
			return rec, nil
		}
	}

	rec, err := c.inner.Get(ctx, storeName, id)
	if err != nil {
		return models.CachedRecord{}, err
	}

	c.cache.Set(key, rec, 1)
	return rec, nil
}

func (c *cachedRecordRepository) GetAll(ctx context.Context, storeName string) ([]models.CachedRecord, error) {
	return c.inner.GetAll(ctx, storeName)
}

func (c *cachedRecordRepository) GetByScope(ctx context.Context, storeName, scope string) ([]models.CachedRecord, error) {
	return c.inner.GetByScope(ctx, storeName, scope)
}

func (c *cachedRecordRepository) Delete(ctx context.Context, storeName, id string) error {
	if err := c.inner.Delete(ctx, storeName, id); err != nil {
		return err
	}

	c.cache.Del(cacheKey(storeName, id))
	return nil
}

func (c *cachedRecordRepository) ReplaceScope(ctx context.Context, storeName, scope string, records []models.CachedRecord) error {
	if err := c.inner.ReplaceScope(ctx, storeName, scope, records); err != nil {
		return err
	}

	c.cache.Clear()
	return nil
}

func (c *cachedRecordRepository) Clear(ctx context.Context, storeName string) error {
	if err := c.inner.Clear(ctx, storeName); err != nil {
		return err
	}

	c.cache.Clear()
	return nil
}

func (c *cachedRecordRepository) Count(ctx context.Context, storeName string) (int, error) {
	return c.inner.Count(ctx, storeName)
}

// Wait blocks until pending cache writes are applied. Only tests need this.
func (c *cachedRecordRepository) Wait() {
	c.cache.Wait()
}

func cacheKey(storeName, id string) string {
	return storeName + "/" + id
}
