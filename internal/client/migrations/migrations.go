// Package migrations owns the on-disk schema of the local store and evolves
// it across application versions, one numbered step at a time. Steps are Go
// migrations registered with goose; each runs inside its own transaction, so
// a failing step aborts the whole migration and never leaves a partial
// schema. There is no downgrade path.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Run brings the store from whatever version is persisted to the version this
// build expects. It is safe to call on every startup; already-applied steps
// are skipped.
func Run(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
