package models

import "time"

// CacheMetadata maps a scope-or-purpose key to an opaque last-synced value.
// Entries are written only when a pull for the keyed scope fully succeeds, so
// a failed pull never marks its scope as fresh.
type CacheMetadata struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
