package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations are idempotent schema statements run on every open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ledger_records (
		key         TEXT PRIMARY KEY,
		entry_index INTEGER NOT NULL,
		sub_index   INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL,
		confidence  TEXT NOT NULL DEFAULT 'low'
		            CHECK(confidence IN ('high','medium','low')),
		notes       TEXT NOT NULL DEFAULT '',
		model       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_records_entry
		ON ledger_records(entry_index, sub_index)`,
	// Older ledgers predate the notes and model columns.
	`ALTER TABLE ledger_records ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE ledger_records ADD COLUMN model TEXT NOT NULL DEFAULT ''`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
