package store

import (
	"database/sql"

	"github.com/offlinekit/offlinekit/internal/logger"
	"github.com/offlinekit/offlinekit/migrations"
)

// DB is the one shared handle to the local SQLite database. It is opened once
// by the composing application and passed by reference to every repository; no
// component may assume exclusive access across multi-call sequences unless it
// wraps them in a single transaction.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
