package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upBaseTables, nil)
}

// Original v1 schema. Reference tables still carried a textual status column
// here; v6 rewrites them into the current shape.
func upBaseTables(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE projects (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			status TEXT DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE work_types (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE time_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			remote_id INTEGER UNIQUE,
			project_id INTEGER,
			employee_id INTEGER,
			work_type_id INTEGER,
			report_date TEXT,
			datetime_from TEXT,
			datetime_to TEXT,
			hours REAL,
			description TEXT,
			validation_status TEXT DEFAULT 'pending',
			project_name TEXT,
			work_type_name TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			sync_status TEXT NOT NULL DEFAULT 'pending',
			sync_error TEXT,
			sync_attempts INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE metadata (
			key TEXT PRIMARY KEY,
			value BLOB
		)`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
