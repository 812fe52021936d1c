package store

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS statement (
		id           TEXT PRIMARY KEY,
		dataset      TEXT NOT NULL,
		entity_id    TEXT NOT NULL,
		canonical_id TEXT NOT NULL,
		schema       TEXT NOT NULL,
		prop         TEXT NOT NULL,
		value        TEXT NOT NULL,
		target       BOOLEAN NOT NULL DEFAULT FALSE,
		first_seen   TIMESTAMPTZ NOT NULL,
		last_seen    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS statement_dataset_entity_idx ON statement (dataset, entity_id)`,
	`CREATE INDEX IF NOT EXISTS statement_dataset_last_seen_idx ON statement (dataset, last_seen)`,
	`CREATE TABLE IF NOT EXISTS resource (
		id         UUID PRIMARY KEY,
		dataset    TEXT NOT NULL,
		name       TEXT NOT NULL,
		checksum   TEXT NOT NULL,
		mime_type  TEXT NOT NULL DEFAULT '',
		size       BIGINT NOT NULL,
		title      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (dataset, name)
	)`,
}

// Migrate creates the statement and resource tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
