// Package client defines the remote API surface and its HTTP implementation,
// plus local database bootstrap.
package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
)

// LoginResult is what the server returns on a successful login.
type LoginResult struct {
	Token      string
	UserID     int64
	EmployeeID int64
	Username   string
	FullName   string
}

// Remote is the server as seen from the device. Every call honours ctx; all
// of them can fail with the sentinel errors in internal/common, which is how
// callers distinguish a rejection from an outage.
type Remote interface {
	Close() error
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Ping(ctx context.Context) error

	SubmitTimeReport(ctx context.Context, r *models.TimeReport) (remoteID int64, err error)
	SubmitNote(ctx context.Context, n *models.Note) (remoteID int64, err error)

	FetchProjects(ctx context.Context) ([]*models.Project, error)
	FetchWorkTypes(ctx context.Context) ([]*models.WorkType, error)
	FetchNoteCategories(ctx context.Context, userID int64) ([]*models.NoteCategory, error)

	FetchTimeReportUpdates(ctx context.Context, since time.Time) ([]*models.TimeReport, error)
	FetchNoteUpdates(ctx context.Context, since time.Time) ([]*models.Note, error)

	// UploadMedia streams the file at path to the media endpoint of an
	// already-synced note. progressFn, if non-nil, receives the percentage
	// of bytes sent; it is called from the sending goroutine.
	UploadMedia(ctx context.Context, noteRemoteID int64, path, mimeType string, progressFn func(percent int)) (serverURL string, err error)
}
