package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fieldtrack/internal/client/migrations"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/notes"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/reference"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/timereports"

	_ "modernc.org/sqlite"
)

// Repositories bundles every local store the services need, all backed by one
// database handle.
type Repositories struct {
	Metadata    metadata.Repository
	TimeReports timereports.Repository
	Notes       notes.Repository
	Reference   reference.Repository

	DB *sql.DB
}

// InitDatabase opens (or creates) the local store at dsn, migrates it to the
// current schema and wires the repositories. WAL mode keeps reads open during
// the sync engine's writes; busy_timeout covers the brief lock handover.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Metadata:    metadata.NewSQLiteRepository(db),
		TimeReports: timereports.NewSQLiteRepository(db),
		Notes:       notes.NewSQLiteRepository(db),
		Reference:   reference.NewSQLiteRepository(db),
		DB:          db,
	}, nil
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
