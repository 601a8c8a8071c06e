package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNotesRewrite, nil)
}

// Structural rewrite: project_id becomes nullable (personal notes), every
// note gets a mandatory owner, and user-defined categories get a column.
// SQLite cannot relax NOT NULL in place, so the step is
// create-new / copy / drop-old / rename. Rows that predate ownership get
// user id 0 deterministically.
func upNotesRewrite(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE notes_new (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			remote_id INTEGER UNIQUE,
			project_id INTEGER,
			user_id INTEGER NOT NULL DEFAULT 0,
			kind TEXT NOT NULL,
			note_group TEXT DEFAULT 'project',
			category_id INTEGER,
			title TEXT,
			content TEXT,
			transcription TEXT,
			is_important INTEGER DEFAULT 0,
			tags TEXT,
			author_name TEXT,
			priority TEXT DEFAULT 'medium',
			scheduled_at TEXT,
			reminder_at TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			sync_status TEXT NOT NULL DEFAULT 'pending',
			sync_error TEXT,
			sync_attempts INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT INTO notes_new
			(id, remote_id, project_id, user_id, kind, note_group, title, content,
			 transcription, is_important, tags, author_name, created_at, updated_at,
			 sync_status, sync_error, sync_attempts)
		 SELECT id, remote_id, project_id, 0, kind, note_group, title, content,
			 transcription, is_important, tags, author_name, created_at, updated_at,
			 sync_status, sync_error, sync_attempts
		 FROM notes`,
		`DROP TABLE notes`,
		`ALTER TABLE notes_new RENAME TO notes`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
