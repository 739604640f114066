// SPDX-License-Identifier: Apache-2.0

// Package migrations embeds the SQLite schema migrations and applies them with
// goose. Each migration is one idempotent step per schema version; goose's
// version table guarantees a step runs exactly once per version gap, so an
// older database opened by a newer build is upgraded in place.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
