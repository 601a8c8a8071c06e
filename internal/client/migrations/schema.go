package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fieldtrack/internal/dbx"
)

// tableExists checks sqlite_master for a table with the given name.
func tableExists(ctx context.Context, db dbx.DBTX, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect sqlite_master: %w", err)
	}
	return n > 0, nil
}

// columnExists inspects PRAGMA table_info for the given column.
func columnExists(ctx context.Context, db dbx.DBTX, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return false, fmt.Errorf("failed to read table_info(%s): %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dflt       sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &primaryKey); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// addColumnIfMissing makes column-add steps idempotent by precondition check
// rather than by swallowing ALTER TABLE errors: if the column is already
// there (a prior partial migration succeeded) the step is a no-op.
func addColumnIfMissing(ctx context.Context, db dbx.DBTX, table, column, definition string) error {
	exists, err := columnExists(ctx, db, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = db.ExecContext(ctx,
		fmt.Sprintf(`ALTER TABLE %q ADD COLUMN %s %s`, table, column, definition))
	if err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	return nil
}
