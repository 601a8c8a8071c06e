package timereports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/common"
	"github.com/dmitrijs2005/fieldtrack/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const reportColumns = `id, remote_id, project_id, employee_id, work_type_id,
	report_date, datetime_from, datetime_to, hours, description,
	validation_status, project_name, work_type_name,
	created_at, updated_at, sync_status, sync_error, sync_attempts`

// Insert persists a new report. The row starts in pending with zero attempts
// regardless of what the model carries; the remote id column is left null.
func (r *SQLiteRepository) Insert(ctx context.Context, rep *models.TimeReport) (int64, error) {
	now := models.Now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO time_reports
			(project_id, employee_id, work_type_id, report_date, datetime_from,
			 datetime_to, hours, description, validation_status, project_name,
			 work_type_name, created_at, updated_at, sync_status, sync_error, sync_attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', NULL, 0)
	`, rep.ProjectID, rep.EmployeeID, rep.WorkTypeID, rep.ReportDate,
		rep.DatetimeFrom, rep.DatetimeTo, rep.Hours, rep.Description,
		orDefault(rep.ValidationStatus, "pending"), rep.ProjectName, rep.WorkTypeName,
		now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert time report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID int64) (*models.TimeReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM time_reports WHERE id = ?`, localID)
	return scanReport(row)
}

func (r *SQLiteRepository) GetByRemoteID(ctx context.Context, remoteID int64) (*models.TimeReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM time_reports WHERE remote_id = ?`, remoteID)
	return scanReport(row)
}

// ListPending returns rows awaiting transmission (pending or failed), newest
// first. The employee filter is a security boundary: a pass must never pick
// up another user's rows.
func (r *SQLiteRepository) ListPending(ctx context.Context, employeeID int64) ([]*models.TimeReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM time_reports
		WHERE sync_status IN ('pending', 'failed') AND employee_id = ?
		ORDER BY created_at DESC, id DESC
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending time reports: %w", err)
	}
	return scanReports(rows)
}

func (r *SQLiteRepository) ListByDateRange(ctx context.Context, employeeID int64, from, to string) ([]*models.TimeReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM time_reports
		WHERE employee_id = ? AND report_date >= ? AND report_date <= ?
		ORDER BY report_date DESC
	`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to select time reports by range: %w", err)
	}
	return scanReports(rows)
}

func (r *SQLiteRepository) CountPending(ctx context.Context, employeeID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM time_reports
		WHERE sync_status IN ('pending', 'failed') AND employee_id = ?
	`, employeeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending time reports: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, employeeID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM time_reports WHERE employee_id = ?`, employeeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count time reports: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) TotalHours(ctx context.Context, employeeID int64) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(hours) FROM time_reports WHERE employee_id = ?`, employeeID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum hours: %w", err)
	}
	return total.Float64, nil
}

// Update writes only the fields present in the patch. Any local edit drops
// the row back to pending so the next pass re-transmits it.
func (r *SQLiteRepository) Update(ctx context.Context, localID int64, patch models.TimeReportPatch) error {
	sets := []string{}
	args := []any{}

	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.ProjectID != nil {
		add("project_id", *patch.ProjectID)
	}
	if patch.WorkTypeID != nil {
		add("work_type_id", *patch.WorkTypeID)
	}
	if patch.ReportDate != nil {
		add("report_date", *patch.ReportDate)
	}
	if patch.DatetimeFrom != nil {
		add("datetime_from", *patch.DatetimeFrom)
	}
	if patch.DatetimeTo != nil {
		add("datetime_to", *patch.DatetimeTo)
	}
	if patch.Hours != nil {
		add("hours", *patch.Hours)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ProjectName != nil {
		add("project_name", *patch.ProjectName)
	}
	if patch.WorkTypeName != nil {
		add("work_type_name", *patch.WorkTypeName)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", models.Now())
	sets = append(sets, "sync_status = 'pending'")

	args = append(args, localID)
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_reports SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update time report: %w", err)
	}
	return requireOneRow(res)
}

// Delete removes the row. Deletion is local only; propagating deletes to the
// server is a collaborator's concern.
func (r *SQLiteRepository) Delete(ctx context.Context, localID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_reports WHERE id = ?`, localID)
	if err != nil {
		return fmt.Errorf("failed to delete time report: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) MarkSyncing(ctx context.Context, localID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_reports SET sync_status = 'syncing', updated_at = ? WHERE id = ?
	`, models.Now(), localID)
	if err != nil {
		return fmt.Errorf("failed to mark time report syncing: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, localID int64, reason string, attempts int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_reports
		SET sync_status = 'failed', sync_error = ?, sync_attempts = ?, updated_at = ?
		WHERE id = ?
	`, reason, attempts, models.Now(), localID)
	if err != nil {
		return fmt.Errorf("failed to mark time report failed: %w", err)
	}
	return requireOneRow(res)
}

// MarkSynced records the server-assigned id and clears the error. Attempts
// are left untouched for diagnostics.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID int64, remoteID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_reports
		SET sync_status = 'synced', remote_id = ?, sync_error = NULL, updated_at = ?
		WHERE id = ?
	`, remoteID, models.Now(), localID)
	if err != nil {
		return fmt.Errorf("failed to mark time report synced: %w", err)
	}
	return requireOneRow(res)
}

// UpsertFromServer merges a server-originated report without creating a
// duplicate row. An existing row (matched by remote id) keeps its local id
// and gets its payload refreshed; a new row is born synced with zero
// attempts, since it never passed through pending. Returns the local id.
func (r *SQLiteRepository) UpsertFromServer(ctx context.Context, rep *models.TimeReport) (int64, error) {
	if rep.RemoteID == nil {
		return 0, fmt.Errorf("upsert requires a remote id")
	}
	now := models.Now()

	var localID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM time_reports WHERE remote_id = ?`, *rep.RemoteID).Scan(&localID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO time_reports
				(remote_id, project_id, employee_id, work_type_id, report_date,
				 datetime_from, datetime_to, hours, description, validation_status,
				 project_name, work_type_name, created_at, updated_at,
				 sync_status, sync_error, sync_attempts)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'synced', NULL, 0)
		`, *rep.RemoteID, rep.ProjectID, rep.EmployeeID, rep.WorkTypeID,
			rep.ReportDate, rep.DatetimeFrom, rep.DatetimeTo, rep.Hours,
			rep.Description, orDefault(rep.ValidationStatus, "pending"),
			rep.ProjectName, rep.WorkTypeName, now, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert server time report: %w", err)
		}
		return res.LastInsertId()
	case err != nil:
		return 0, fmt.Errorf("failed to look up remote id: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE time_reports
		SET project_id = ?, employee_id = ?, work_type_id = ?, report_date = ?,
			datetime_from = ?, datetime_to = ?, hours = ?, description = ?,
			validation_status = ?, project_name = ?, work_type_name = ?,
			sync_status = 'synced', sync_error = NULL, updated_at = ?
		WHERE id = ?
	`, rep.ProjectID, rep.EmployeeID, rep.WorkTypeID, rep.ReportDate,
		rep.DatetimeFrom, rep.DatetimeTo, rep.Hours, rep.Description,
		orDefault(rep.ValidationStatus, "pending"), rep.ProjectName, rep.WorkTypeName,
		now, localID)
	if err != nil {
		return 0, fmt.Errorf("failed to update server time report: %w", err)
	}
	return localID, nil
}

func scanReport(row *sql.Row) (*models.TimeReport, error) {
	rep := &models.TimeReport{}
	var remoteID sql.NullInt64
	var syncError sql.NullString
	err := row.Scan(&rep.LocalID, &remoteID, &rep.ProjectID, &rep.EmployeeID,
		&rep.WorkTypeID, &rep.ReportDate, &rep.DatetimeFrom, &rep.DatetimeTo,
		&rep.Hours, &rep.Description, &rep.ValidationStatus, &rep.ProjectName,
		&rep.WorkTypeName, &rep.CreatedAt, &rep.UpdatedAt,
		(*string)(&rep.SyncStatus), &syncError, &rep.SyncAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan time report: %w", err)
	}
	if remoteID.Valid {
		rep.RemoteID = &remoteID.Int64
	}
	if syncError.Valid {
		rep.SyncError = &syncError.String
	}
	return rep, nil
}

func scanReports(rows *sql.Rows) ([]*models.TimeReport, error) {
	defer rows.Close()

	var result []*models.TimeReport
	for rows.Next() {
		rep := &models.TimeReport{}
		var remoteID sql.NullInt64
		var syncError sql.NullString
		err := rows.Scan(&rep.LocalID, &remoteID, &rep.ProjectID, &rep.EmployeeID,
			&rep.WorkTypeID, &rep.ReportDate, &rep.DatetimeFrom, &rep.DatetimeTo,
			&rep.Hours, &rep.Description, &rep.ValidationStatus, &rep.ProjectName,
			&rep.WorkTypeName, &rep.CreatedAt, &rep.UpdatedAt,
			(*string)(&rep.SyncStatus), &syncError, &rep.SyncAttempts)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time report row: %w", err)
		}
		if remoteID.Valid {
			rep.RemoteID = &remoteID.Int64
		}
		if syncError.Valid {
			rep.SyncError = &syncError.String
		}
		result = append(result, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
