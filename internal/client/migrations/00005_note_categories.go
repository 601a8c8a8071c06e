package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNoteCategories, nil)
}

func upNoteCategories(ctx context.Context, tx *sql.Tx) error {
	exists, err := tableExists(ctx, tx, "note_categories")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = tx.ExecContext(ctx, `CREATE TABLE note_categories (
		id INTEGER PRIMARY KEY,
		user_id INTEGER,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		icon TEXT,
		color TEXT DEFAULT '#6c757d',
		description TEXT,
		is_system INTEGER DEFAULT 0,
		sort_order INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}
