package adapter

import (
	"context"

	"github.com/offlinekit/offlinekit/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteAPI is the outbound boundary to the remote REST API. Reference-data
// fetches return the authoritative set for a scope; Deliver replays one queued
// mutation.
//
// Errors are classified with the package sentinels: [ErrNetwork] when the
// request could not be sent or received, [ErrServer] for 5xx responses and
// [ErrClient] for non-retryable 4xx responses.
type RemoteAPI interface {
	// FetchCatalogs returns all top-level catalogs.
	FetchCatalogs(ctx context.Context) ([]models.CachedRecord, error)
	// FetchSections returns all sections belonging to catalogID.
	FetchSections(ctx context.Context, catalogID string) ([]models.CachedRecord, error)
	// FetchItems returns one fixed-size page of items belonging to sectionID.
	// Pages are 1-based; a page shorter than pageSize is the last one.
	FetchItems(ctx context.Context, sectionID string, page, pageSize int) ([]models.CachedRecord, error)
	// Deliver replays op against the remote API. A nil return means a 2xx
	// response was received.
	Deliver(ctx context.Context, op models.PendingOperation) error
}
