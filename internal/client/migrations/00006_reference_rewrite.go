package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upReferenceRewrite, nil)
}

// Reference tables move from a textual status to an integer active flag, and
// projects gain the planning columns the server started sending. The textual
// status maps through an explicit CASE, never a guess; is_placeholder is a
// new column and defaults to 0 for every migrated row.
func upReferenceRewrite(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE projects_new (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			active INTEGER NOT NULL DEFAULT 1,
			is_placeholder INTEGER NOT NULL DEFAULT 0,
			client TEXT,
			priority TEXT DEFAULT 'medium',
			progress REAL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT INTO projects_new (id, name, description, active, is_placeholder, created_at, updated_at)
		 SELECT id, name, description,
			CASE WHEN status = 'active' OR status = '1' THEN 1 ELSE 0 END,
			0, created_at, updated_at
		 FROM projects`,
		`DROP TABLE projects`,
		`ALTER TABLE projects_new RENAME TO projects`,

		`CREATE TABLE work_types_new (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT INTO work_types_new (id, name, description, active, created_at, updated_at)
		 SELECT id, name, description, 1, created_at, updated_at
		 FROM work_types`,
		`DROP TABLE work_types`,
		`ALTER TABLE work_types_new RENAME TO work_types`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
