package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/offlinekit/offlinekit/internal/config"
	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/internal/store"
)

// newTestStorages opens a fresh in-memory database with the full schema. The
// read cache is disabled so assertions observe repository state directly.
func newTestStorages(t *testing.T) *store.Storages {
	t.Helper()

	storages, err := store.NewStorages(config.Storage{DSN: ":memory:", ReadCacheDisabled: true}, logger.Nop())
	require.NoError(t, err)

	return storages
}
