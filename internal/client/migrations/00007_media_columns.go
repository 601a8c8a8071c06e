package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upMediaColumns, nil)
}

// Media support: notes gain the attachment columns. Every add is guarded by
// a column-exists check, so re-running after a partially applied attempt is
// a no-op.
func upMediaColumns(ctx context.Context, tx *sql.Tx) error {
	cols := []struct{ name, def string }{
		{"local_file_path", "TEXT"},
		{"server_url", "TEXT"},
		{"file_size", "INTEGER"},
		{"mime_type", "TEXT"},
		{"thumbnail_path", "TEXT"},
		{"upload_progress", "INTEGER DEFAULT 0"},
		{"media_duration", "INTEGER"},
	}
	for _, c := range cols {
		if err := addColumnIfMissing(ctx, tx, "notes", c.name, c.def); err != nil {
			return err
		}
	}
	return nil
}
