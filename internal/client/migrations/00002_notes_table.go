package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNotesTable, nil)
}

// Original v2 shape: notes were strictly project-bound and carried no owner
// column. v4 rewrites the table.
func upNotesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		remote_id INTEGER UNIQUE,
		project_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		title TEXT,
		content TEXT,
		transcription TEXT,
		is_important INTEGER DEFAULT 0,
		tags TEXT,
		author_name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		sync_status TEXT NOT NULL DEFAULT 'pending',
		sync_error TEXT,
		sync_attempts INTEGER NOT NULL DEFAULT 0
	)`)
	return err
}
