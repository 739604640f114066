// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/offlinekit/offlinekit/internal/adapter"
	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/connectivity"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/store"
	"github.com/offlinekit/offlinekit/models"
)

// DefaultMaxAge is the staleness bound used when a caller passes maxAge <= 0.
const DefaultMaxAge = 24 * time.Hour

// CatalogsScope names the top-level catalog scope for staleness checks.
func CatalogsScope() string { return "catalogs" }

// SectionsScope names the section scope of one catalog.
func SectionsScope(catalogID string) string { return "sections:" + catalogID }

// ItemsScope names the item scope of one section.
func ItemsScope(sectionID string) string { return "items:" + sectionID }

func metadataKey(scope string) string { return "last_sync:" + scope }

type syncService struct {
	storages *store.Storages
	api      adapter.RemoteAPI
	monitor  connectivity.Monitor

	pageSize int
	logger   *logger.Logger
}

// NewSyncService wires the reference-data synchronizer. pageSize bounds each
// paginated item pull; cfg.PageSize must be positive (validated by config).
func NewSyncService(storages *store.Storages, api adapter.RemoteAPI, monitor connectivity.Monitor, cfg config.Sync, log *logger.Logger) SyncService {
	return &syncService{
		storages: storages,
		api:      api,
		monitor:  monitor,
		pageSize: cfg.PageSize,
		logger:   log,
	}
}

// SyncCatalogs implements [SyncService]. The whole catalog set is one scope:
// the fresh fetch replaces every cached catalog in a single transaction, so
// catalogs removed remotely disappear locally too.
func (s *syncService) SyncCatalogs(ctx context.Context) (int, error) {
	if !s.monitor.Online() {
		return 0, ErrOffline
	}

	records, err := s.api.FetchCatalogs(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch catalogs: %w", err)
	}

	if err = s.storages.Records.ReplaceScope(ctx, models.StoreCatalogs, "", records); err != nil {
		return 0, fmt.Errorf("replace catalogs: %w", err)
	}

	if err = s.stampSynced(ctx, CatalogsScope()); err != nil {
		return 0, err
	}

	s.logger.Debug().
		Str("func", "syncService.SyncCatalogs").
		Int("count", len(records)).
		Msg("catalogs synced")

	return len(records), nil
}

// SyncSections implements [SyncService]. Pre-existing cached sections of
// catalogID that the fresh fetch omits are deleted by the scoped replace;
// sections of other catalogs are untouched.
func (s *syncService) SyncSections(ctx context.Context, catalogID string) (int, error) {
	if !s.monitor.Online() {
		return 0, ErrOffline
	}

	records, err := s.api.FetchSections(ctx, catalogID)
	if err != nil {
		return 0, fmt.Errorf("fetch sections of %s: %w", catalogID, err)
	}
	stampScope(records, catalogID)

	if err = s.storages.Records.ReplaceScope(ctx, models.StoreSections, catalogID, records); err != nil {
		return 0, fmt.Errorf("replace sections of %s: %w", catalogID, err)
	}

	if err = s.stampSynced(ctx, SectionsScope(catalogID)); err != nil {
		return 0, err
	}

	s.logger.Debug().
		Str("func", "syncService.SyncSections").
		Str("catalog_id", catalogID).
		Int("count", len(records)).
		Msg("sections synced")

	return len(records), nil
}

// SyncItems implements [SyncService]. Items are pulled in fixed-size pages,
// sequentially, stopping at the first short page. The accumulated set then
// replaces the cached scope in one step; a failed page aborts the whole scope
// without touching the cache.
func (s *syncService) SyncItems(ctx context.Context, sectionID string) (int, error) {
	if !s.monitor.Online() {
		return 0, ErrOffline
	}

	var all []models.CachedRecord
	for page := 1; ; page++ {
		records, err := s.api.FetchItems(ctx, sectionID, page, s.pageSize)
		if err != nil {
			return 0, fmt.Errorf("fetch items of %s (page %d): %w", sectionID, page, err)
		}

		all = append(all, records...)
		if len(records) < s.pageSize {
			break
		}
	}
	stampScope(all, sectionID)

	if err := s.storages.Records.ReplaceScope(ctx, models.StoreItems, sectionID, all); err != nil {
		return 0, fmt.Errorf("replace items of %s: %w", sectionID, err)
	}

	if err := s.stampSynced(ctx, ItemsScope(sectionID)); err != nil {
		return 0, err
	}

	s.logger.Debug().
		Str("func", "syncService.SyncItems").
		Str("section_id", sectionID).
		Int("count", len(all)).
		Msg("items synced")

	return len(all), nil
}

// SyncAll implements [SyncService]. It walks the hierarchy top-down. An error
// aborts the walk, but scopes already replaced stay valid and keep their
// freshness stamps; the summary reports what completed.
func (s *syncService) SyncAll(ctx context.Context) (models.SyncSummary, error) {
	var summary models.SyncSummary

	n, err := s.SyncCatalogs(ctx)
	if err != nil {
		return summary, err
	}
	summary.Catalogs = n

	catalogs, err := s.Catalogs(ctx)
	if err != nil {
		return summary, err
	}

	for _, catalog := range catalogs {
		n, err = s.SyncSections(ctx, catalog.ID)
		if err != nil {
			return summary, err
		}
		summary.Sections += n
	}

	for _, catalog := range catalogs {
		sections, err := s.Sections(ctx, catalog.ID)
		if err != nil {
			return summary, err
		}
		for _, section := range sections {
			n, err = s.SyncItems(ctx, section.ID)
			if err != nil {
				return summary, err
			}
			summary.Items += n
		}
	}

	return summary, nil
}

// NeedsSync implements [SyncService].
func (s *syncService) NeedsSync(ctx context.Context, scope string, maxAge time.Duration) (bool, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	last, err := s.LastSyncTime(ctx, scope)
	if err != nil {
		return false, err
	}
	if last.IsZero() {
		return true, nil
	}

	return time.Since(last) > maxAge, nil
}

// LastSyncTime implements [SyncService]. The zero time means the scope was
// never successfully synced.
func (s *syncService) LastSyncTime(ctx context.Context, scope string) (time.Time, error) {
	meta, err := s.storages.Metadata.Get(ctx, metadataKey(scope))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("get last sync time of %s: %w", scope, err)
	}

	last, err := time.Parse(time.RFC3339Nano, meta.Value)
	if err != nil {
		// Unparseable stamp: treat as never synced rather than fail reads.
		s.logger.Warn().
			Str("func", "syncService.LastSyncTime").
			Str("scope", scope).
			Str("value", meta.Value).
			Msg("invalid last-sync stamp, forcing resync")
		return time.Time{}, nil
	}

	return last, nil
}

func (s *syncService) Catalogs(ctx context.Context) ([]models.CachedRecord, error) {
	return s.storages.Records.GetAll(ctx, models.StoreCatalogs)
}

func (s *syncService) Sections(ctx context.Context, catalogID string) ([]models.CachedRecord, error) {
	return s.storages.Records.GetByScope(ctx, models.StoreSections, catalogID)
}

func (s *syncService) Items(ctx context.Context, sectionID string) ([]models.CachedRecord, error) {
	return s.storages.Records.GetByScope(ctx, models.StoreItems, sectionID)
}

func (s *syncService) Catalog(ctx context.Context, id string) (models.CachedRecord, error) {
	return s.storages.Records.Get(ctx, models.StoreCatalogs, id)
}

func (s *syncService) Section(ctx context.Context, id string) (models.CachedRecord, error) {
	return s.storages.Records.Get(ctx, models.StoreSections, id)
}

func (s *syncService) Item(ctx context.Context, id string) (models.CachedRecord, error) {
	return s.storages.Records.Get(ctx, models.StoreItems, id)
}

// stampSynced records a successful pull for scope. It runs only after the
// scoped replace committed, so a failed pull never marks its scope fresh.
func (s *syncService) stampSynced(ctx context.Context, scope string) error {
	now := time.Now().UTC()
	if err := s.storages.Metadata.Upsert(ctx, metadataKey(scope), now.Format(time.RFC3339Nano), now); err != nil {
		return fmt.Errorf("stamp sync time of %s: %w", scope, err)
	}
	return nil
}

// stampScope forces the parent scope onto fetched child records; remote
// payloads may omit it since the request already names the parent.
func stampScope(records []models.CachedRecord, scope string) {
	for i := range records {
		records[i].Scope = scope
	}
}
