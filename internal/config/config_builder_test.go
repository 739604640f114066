package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_DefaultsApplied(t *testing.T) {
	t.Setenv("OFFLINEKIT_API_URL", "http://localhost:8080")

	cfg, err := newConfigBuilder().withEnv().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "http://localhost:8080/health", cfg.API.HealthURL)
	assert.Equal(t, "offlinekit.db", cfg.Storage.DSN)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Sync.MaxAge)
	assert.Equal(t, 30*time.Second, cfg.Probe.Interval)
}

func TestBuild_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("OFFLINEKIT_API_URL", "http://api.example")
	t.Setenv("OFFLINEKIT_DB_PATH", "/tmp/offline.db")
	t.Setenv("OFFLINEKIT_SYNC_PAGE_SIZE", "25")
	t.Setenv("OFFLINEKIT_SYNC_MAX_AGE", "1h")

	cfg, err := newConfigBuilder().withEnv().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/offline.db", cfg.Storage.DSN)
	assert.Equal(t, 25, cfg.Sync.PageSize)
	assert.Equal(t, time.Hour, cfg.Sync.MaxAge)
}

func TestBuild_MissingBaseURL(t *testing.T) {
	_, err := newConfigBuilder().withDefaults().build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAPIBaseURL)
}

func TestParseFlags_PartialConfig(t *testing.T) {
	cfg := parseFlags([]string{"-api-url", "http://flags.example", "-sync-page-size", "10"})

	assert.Equal(t, "http://flags.example", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.Sync.PageSize)
	assert.Zero(t, cfg.Probe.Interval, "unset flags stay at zero for the merge")
}
