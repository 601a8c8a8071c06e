package models

// TimeReport is a locally captured work-time record. LocalID is assigned by
// the local store and never leaves the device; RemoteID is assigned by the
// server on first successful sync and is never overwritten afterwards.
type TimeReport struct {
	LocalID    int64
	RemoteID   *int64
	ProjectID  int64
	EmployeeID int64
	WorkTypeID int64

	ReportDate   string // YYYY-MM-DD
	DatetimeFrom string
	DatetimeTo   string
	Hours        float64
	Description  string

	// ValidationStatus is the server-side approval state of the report,
	// unrelated to the sync lifecycle.
	ValidationStatus string

	// Denormalized names so the report stays displayable offline.
	ProjectName  string
	WorkTypeName string

	CreatedAt string
	UpdatedAt string

	SyncStatus   SyncStatus
	SyncError    *string
	SyncAttempts int
}

// TimeReportPatch carries a partial update. Nil fields are left untouched,
// which distinguishes "no opinion" from "set to empty".
type TimeReportPatch struct {
	ProjectID    *int64
	WorkTypeID   *int64
	ReportDate   *string
	DatetimeFrom *string
	DatetimeTo   *string
	Hours        *float64
	Description  *string
	ProjectName  *string
	WorkTypeName *string
}

// Synced reports whether the record has been accepted by the server.
func (t *TimeReport) Synced() bool {
	return t.SyncStatus == SyncSynced && t.RemoteID != nil
}
