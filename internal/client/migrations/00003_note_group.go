package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNoteGroup, nil)
}

func upNoteGroup(ctx context.Context, tx *sql.Tx) error {
	return addColumnIfMissing(ctx, tx, "notes", "note_group", `TEXT DEFAULT 'project'`)
}
