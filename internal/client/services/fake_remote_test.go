package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/client"
	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeRemote is a scriptable Remote for service tests.
type fakeRemote struct {
	loginResult *client.LoginResult
	loginErr    error

	submitReportErr error
	submitNoteErr   error
	nextRemoteID    int64

	submittedReports []*models.TimeReport
	submittedNotes   []*models.Note

	projects   []*models.Project
	workTypes  []*models.WorkType
	categories []*models.NoteCategory
	fetchErr   error

	reportUpdates []*models.TimeReport
	noteUpdates   []*models.Note

	uploadErr error
	uploadURL string
	uploads   []string

	pingErr error
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) Login(ctx context.Context, username, password string) (*client.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeRemote) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRemote) SubmitTimeReport(ctx context.Context, r *models.TimeReport) (int64, error) {
	if f.submitReportErr != nil {
		return 0, f.submitReportErr
	}
	f.submittedReports = append(f.submittedReports, r)
	f.nextRemoteID++
	return f.nextRemoteID, nil
}

func (f *fakeRemote) SubmitNote(ctx context.Context, n *models.Note) (int64, error) {
	if f.submitNoteErr != nil {
		return 0, f.submitNoteErr
	}
	f.submittedNotes = append(f.submittedNotes, n)
	f.nextRemoteID++
	return f.nextRemoteID, nil
}

func (f *fakeRemote) FetchProjects(ctx context.Context) ([]*models.Project, error) {
	return f.projects, f.fetchErr
}

func (f *fakeRemote) FetchWorkTypes(ctx context.Context) ([]*models.WorkType, error) {
	return f.workTypes, f.fetchErr
}

func (f *fakeRemote) FetchNoteCategories(ctx context.Context, userID int64) ([]*models.NoteCategory, error) {
	return f.categories, f.fetchErr
}

func (f *fakeRemote) FetchTimeReportUpdates(ctx context.Context, since time.Time) ([]*models.TimeReport, error) {
	return f.reportUpdates, f.fetchErr
}

func (f *fakeRemote) FetchNoteUpdates(ctx context.Context, since time.Time) ([]*models.Note, error) {
	return f.noteUpdates, f.fetchErr
}

func (f *fakeRemote) UploadMedia(ctx context.Context, noteRemoteID int64, path, mimeType string, progressFn func(int)) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if progressFn != nil {
		progressFn(50)
		progressFn(100)
	}
	f.uploads = append(f.uploads, path)
	return f.uploadURL, nil
}

var _ client.Remote = (*fakeRemote)(nil)

// setupDB creates the full local schema used by the service tests.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key TEXT PRIMARY KEY,
  value BLOB
);
CREATE TABLE time_reports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  remote_id INTEGER UNIQUE,
  project_id INTEGER NOT NULL,
  employee_id INTEGER NOT NULL,
  work_type_id INTEGER NOT NULL,
  report_date TEXT NOT NULL,
  datetime_from TEXT NOT NULL,
  datetime_to TEXT NOT NULL,
  hours REAL NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  validation_status TEXT NOT NULL DEFAULT 'pending',
  project_name TEXT NOT NULL DEFAULT '',
  work_type_name TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  sync_status TEXT NOT NULL DEFAULT 'pending',
  sync_error TEXT,
  sync_attempts INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE notes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  remote_id INTEGER UNIQUE,
  project_id INTEGER,
  user_id INTEGER NOT NULL DEFAULT 0,
  kind TEXT NOT NULL,
  note_group TEXT DEFAULT 'project',
  category_id INTEGER,
  title TEXT,
  content TEXT,
  transcription TEXT,
  is_important INTEGER DEFAULT 0,
  tags TEXT,
  author_name TEXT,
  priority TEXT DEFAULT 'medium',
  scheduled_at TEXT,
  reminder_at TEXT,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  sync_status TEXT NOT NULL DEFAULT 'pending',
  sync_error TEXT,
  sync_attempts INTEGER NOT NULL DEFAULT 0,
  local_file_path TEXT,
  server_url TEXT,
  file_size INTEGER,
  mime_type TEXT,
  thumbnail_path TEXT,
  upload_progress INTEGER DEFAULT 0,
  media_duration INTEGER
);
CREATE TABLE projects (
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
);
CREATE TABLE work_types (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE note_categories (
  id INTEGER PRIMARY KEY,
  user_id INTEGER,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  icon TEXT,
  color TEXT DEFAULT '#6c757d',
  description TEXT,
  is_system INTEGER DEFAULT 0,
  sort_order INTEGER DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)

	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
