package models

import (
	"encoding/json"
	"time"
)

// Store names the local record partitions. Each partition holds one kind of
// cached reference data and is refreshed independently via scoped replace.
const (
	StoreCatalogs = "catalogs"
	StoreSections = "sections"
	StoreItems    = "items"
)

// CachedRecord is one locally cached reference-data record. The three cached
// kinds (catalog, section, item) share this shape; the partition they live in
// is carried separately as a store name.
//
// Scope references the parent record's ID: a section's scope is its catalog
// ID, an item's scope is its section ID. Catalogs are top-level and have an
// empty scope.
type CachedRecord struct {
	// ID is globally unique within a store partition.
	ID string `json:"id"`
	// Scope is the parent identifier, empty for top-level catalogs.
	Scope string `json:"scope,omitempty"`
	// Title is the display name of the record.
	Title string `json:"title"`
	// Payload carries the kind-specific body; this layer treats it as opaque.
	Payload json.RawMessage `json:"payload,omitempty"`
	// UpdatedAt is the record's update timestamp from the source of truth.
	UpdatedAt time.Time `json:"updated_at"`
}
