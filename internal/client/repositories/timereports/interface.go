// Package timereports persists locally captured time reports and their sync
// lifecycle.
package timereports

import (
	"context"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
)

// Repository is the durable store for time reports.
//
// Contract highlights:
//   - Insert assigns the local id, starts the record in pending with zero
//     attempts, and never accepts a remote id.
//   - ListPending returns pending and failed rows, newest first, strictly
//     scoped to the given employee.
//   - MarkSynced is the only operation allowed to set the remote id.
//   - Update applies only the fields present in the patch and drops an
//     already-synced row back to pending.
type Repository interface {
	Insert(ctx context.Context, r *models.TimeReport) (int64, error)
	GetByLocalID(ctx context.Context, localID int64) (*models.TimeReport, error)
	GetByRemoteID(ctx context.Context, remoteID int64) (*models.TimeReport, error)
	ListPending(ctx context.Context, employeeID int64) ([]*models.TimeReport, error)
	ListByDateRange(ctx context.Context, employeeID int64, from, to string) ([]*models.TimeReport, error)
	CountPending(ctx context.Context, employeeID int64) (int, error)
	Count(ctx context.Context, employeeID int64) (int, error)
	TotalHours(ctx context.Context, employeeID int64) (float64, error)
	Update(ctx context.Context, localID int64, patch models.TimeReportPatch) error
	Delete(ctx context.Context, localID int64) error
	MarkSyncing(ctx context.Context, localID int64) error
	MarkFailed(ctx context.Context, localID int64, reason string, attempts int) error
	MarkSynced(ctx context.Context, localID int64, remoteID int64) error
	UpsertFromServer(ctx context.Context, r *models.TimeReport) (int64, error)
}
