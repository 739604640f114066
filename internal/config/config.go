// SPDX-License-Identifier: Apache-2.0

// Package config assembles the offline layer's configuration from defaults,
// environment variables and command-line flags. Sources are merged with mergo:
// an earlier source wins because merging only fills fields still at their zero
// value.
package config

import "time"

// API holds remote API connection settings.
type API struct {
	// BaseURL is the base URL of the remote REST API.
	BaseURL string `env:"OFFLINEKIT_API_URL"`
	// HealthURL is probed by the connectivity monitor. Defaults to
	// BaseURL + "/health" when empty.
	HealthURL string `env:"OFFLINEKIT_HEALTH_URL"`
	// AuthToken is an opaque bearer token attached to outbound requests when
	// non-empty. Obtaining the token is the application's concern.
	AuthToken string `env:"OFFLINEKIT_AUTH_TOKEN"`
	// RequestTimeout bounds every outbound request.
	RequestTimeout time.Duration `env:"OFFLINEKIT_REQUEST_TIMEOUT"`
}

// Storage holds local persistent store settings.
type Storage struct {
	// DSN is the SQLite database path. ":memory:" keeps the store in RAM,
	// which disables durability across restarts and is meant for tests.
	DSN string `env:"OFFLINEKIT_DB_PATH"`
	// ReadCacheDisabled turns off the in-memory read cache over records.
	ReadCacheDisabled bool `env:"OFFLINEKIT_READ_CACHE_DISABLED"`
}

// Sync holds reference-data synchronizer settings.
type Sync struct {
	// PageSize is the fixed page size for paginated leaf-item pulls.
	PageSize int `env:"OFFLINEKIT_SYNC_PAGE_SIZE"`
	// MaxAge is the staleness bound after which a scope needs a resync.
	MaxAge time.Duration `env:"OFFLINEKIT_SYNC_MAX_AGE"`
	// ResyncInterval is how often the background worker re-checks staleness.
	ResyncInterval time.Duration `env:"OFFLINEKIT_RESYNC_INTERVAL"`
}

// Probe holds connectivity monitor settings.
type Probe struct {
	// Interval is how often the health endpoint is probed.
	Interval time.Duration `env:"OFFLINEKIT_PROBE_INTERVAL"`
}

// StructuredConfig is the full configuration tree merged from all sources.
type StructuredConfig struct {
	API     API
	Storage Storage
	Sync    Sync
	Probe   Probe
}

func defaults() *StructuredConfig {
	return &StructuredConfig{
		API: API{
			RequestTimeout: 15 * time.Second,
		},
		Storage: Storage{
			DSN: "offlinekit.db",
		},
		Sync: Sync{
			PageSize:       100,
			MaxAge:         24 * time.Hour,
			ResyncInterval: 5 * time.Minute,
		},
		Probe: Probe{
			Interval: 30 * time.Second,
		},
	}
}

// GetConfig builds the configuration from flags, environment and defaults (in
// that priority order) and validates the result.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags().
		withEnv().
		withDefaults().
		build()
}
