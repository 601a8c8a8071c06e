package notes

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
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
`)
	require.NoError(t, err)

	return db
}

func textNote(userID int64) *models.Note {
	projectID := int64(10)
	return &models.Note{
		ProjectID: &projectID,
		UserID:    userID,
		Kind:      models.NoteKindText,
		Group:     models.NoteGroupProject,
		Title:     "pump inspection",
		Content:   "seal shows wear",
		Important: true,
		Tags:      []string{"pump", "maintenance"},
	}
}

func audioNote(userID int64) *models.Note {
	n := textNote(userID)
	n.Kind = models.NoteKindAudio
	n.Media = models.MediaAttachment{
		LocalFilePath: "/data/media/rec-1.m4a",
		FileSize:      20480,
		MimeType:      "audio/mp4",
		Duration:      42,
	}
	return n
}

func TestInsert_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Insert(ctx, audioNote(1))
	require.NoError(t, err)

	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SyncPending, got.SyncStatus)
	assert.Equal(t, 0, got.SyncAttempts)
	assert.Nil(t, got.RemoteID)
	assert.Equal(t, models.NoteKindAudio, got.Kind)
	assert.Equal(t, "pump inspection", got.Title)
	assert.True(t, got.Important)
	assert.Equal(t, []string{"pump", "maintenance"}, got.Tags)
	assert.Equal(t, "/data/media/rec-1.m4a", got.Media.LocalFilePath)
	assert.Equal(t, int64(20480), got.Media.FileSize)
	assert.Equal(t, 42, got.Media.Duration)
	assert.Equal(t, 0, got.Media.UploadProgress)
	assert.False(t, got.Media.Uploaded())
	assert.Equal(t, "medium", got.Priority)
}

func TestInsert_PersonalNote(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	n := textNote(1)
	n.ProjectID = nil
	n.Group = models.NoteGroupPersonal
	id, err := r.Insert(ctx, n)
	require.NoError(t, err)

	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)
	assert.Equal(t, models.NoteGroupPersonal, got.Group)
	assert.False(t, got.Media.Present())
}

func TestLists_UserScoped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Insert(ctx, textNote(1))
	require.NoError(t, err)

	personal := textNote(1)
	personal.ProjectID = nil
	personal.Group = models.NoteGroupTodo
	_, err = r.Insert(ctx, personal)
	require.NoError(t, err)

	_, err = r.Insert(ctx, textNote(2))
	require.NoError(t, err)

	pending, err := r.ListPending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	byProject, err := r.ListByProject(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	byProjectOther, err := r.ListByProject(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, byProjectOther, 1)

	pers, err := r.ListPersonal(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pers, 1)
	assert.Nil(t, pers[0].ProjectID)

	todos, err := r.ListByGroup(ctx, 1, models.NoteGroupTodo)
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	n, err := r.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMarkTransitions(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Insert(ctx, textNote(1))
	require.NoError(t, err)

	require.NoError(t, r.MarkSyncing(ctx, id))
	require.NoError(t, r.MarkFailed(ctx, id, "timeout", 2))

	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, got.SyncStatus)
	require.NotNil(t, got.SyncError)
	assert.Equal(t, "timeout", *got.SyncError)
	assert.Equal(t, 2, got.SyncAttempts)

	require.NoError(t, r.MarkSynced(ctx, id, 777))
	got, err = r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SyncSynced, got.SyncStatus)
	require.NotNil(t, got.RemoteID)
	assert.Equal(t, int64(777), *got.RemoteID)
	assert.Nil(t, got.SyncError)
}

func TestUpdate_ReentersPending(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Insert(ctx, textNote(1))
	require.NoError(t, err)
	require.NoError(t, r.MarkSynced(ctx, id, 5))

	title := "updated title"
	tags := []string{"urgent"}
	err = r.Update(ctx, id, models.NotePatch{Title: &title, Tags: &tags})
	require.NoError(t, err)

	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "updated title", got.Title)
	assert.Equal(t, []string{"urgent"}, got.Tags)
	assert.Equal(t, models.SyncPending, got.SyncStatus)
	// content untouched
	assert.Equal(t, "seal shows wear", got.Content)
}

func TestUpsertFromServer_Dedup(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	remoteID := int64(300)
	n := textNote(1)
	n.RemoteID = &remoteID

	localID, err := r.UpsertFromServer(ctx, n)
	require.NoError(t, err)

	got, err := r.GetByRemoteID(ctx, remoteID)
	require.NoError(t, err)
	assert.Equal(t, localID, got.LocalID)
	assert.Equal(t, models.SyncSynced, got.SyncStatus)

	n.Content = "revised on server"
	localID2, err := r.UpsertFromServer(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, localID, localID2)

	count, err := r.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err = r.GetByLocalID(ctx, localID)
	require.NoError(t, err)
	assert.Equal(t, "revised on server", got.Content)
}

func TestUpsertFromServer_PreservesLocalMedia(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Insert(ctx, audioNote(1))
	require.NoError(t, err)
	require.NoError(t, r.MarkSynced(ctx, id, 42))

	// a download pass re-delivers the note; the server knows nothing about
	// the local file
	remoteID := int64(42)
	n := textNote(1)
	n.Kind = models.NoteKindAudio
	n.RemoteID = &remoteID
	_, err = r.UpsertFromServer(ctx, n)
	require.NoError(t, err)

	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "/data/media/rec-1.m4a", got.Media.LocalFilePath)
}

func TestMediaLifecycle(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Insert(ctx, audioNote(1))
	require.NoError(t, err)

	// a note still pending must not appear as a pending upload: the upload
	// needs the remote id
	uploads, err := r.ListPendingMedia(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, uploads)

	require.NoError(t, r.MarkSynced(ctx, id, 42))

	uploads, err = r.ListPendingMedia(ctx, 1)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, id, uploads[0].LocalID)

	require.NoError(t, r.UpdateUploadProgress(ctx, id, 55))
	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 55, got.Media.UploadProgress)

	require.NoError(t, r.MarkMediaSynced(ctx, id, "https://cdn.example.com/m/rec-1.m4a"))
	got, err = r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/m/rec-1.m4a", got.Media.ServerURL)
	assert.Equal(t, 100, got.Media.UploadProgress)
	assert.Equal(t, 0, got.SyncAttempts)
	assert.True(t, got.Media.Uploaded())

	uploads, err = r.ListPendingMedia(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, uploads)
}

func TestUpdateUploadProgress_Clamped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Insert(ctx, audioNote(1))
	require.NoError(t, err)

	require.NoError(t, r.UpdateUploadProgress(ctx, id, 150))
	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Media.UploadProgress)
}

func TestMediaCleanup(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Insert(ctx, audioNote(1))
	require.NoError(t, err)
	require.NoError(t, r.MarkSynced(ctx, id, 42))
	require.NoError(t, r.MarkMediaSynced(ctx, id, "https://cdn.example.com/m/rec-1.m4a"))

	// push the row into the past
	_, err = db.Exec(`UPDATE notes SET updated_at = '2024-01-01 00:00:00' WHERE id = ?`, id)
	require.NoError(t, err)

	// a note whose upload never finished must not be reclaimed
	id2, err := r.Insert(ctx, audioNote(1))
	require.NoError(t, err)
	require.NoError(t, r.MarkSynced(ctx, id2, 43))
	_, err = db.Exec(`UPDATE notes SET updated_at = '2024-01-01 00:00:00' WHERE id = ?`, id2)
	require.NoError(t, err)

	old, err := r.ListSyncedMediaOlderThan(ctx, "2025-01-01 00:00:00")
	require.NoError(t, err)
	require.Len(t, old, 1)
	assert.Equal(t, id, old[0].LocalID)

	require.NoError(t, r.ClearLocalMedia(ctx, id))
	got, err := r.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Media.LocalFilePath)
	assert.Empty(t, got.Media.ThumbnailPath)
	// the durable copy survives
	assert.Equal(t, "https://cdn.example.com/m/rec-1.m4a", got.Media.ServerURL)
}

func TestDelete_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.Delete(context.Background(), 12345)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
