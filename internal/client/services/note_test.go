package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoteFixture(t *testing.T) (NoteService, notes.Repository, string) {
	t.Helper()
	db := setupDB(t)
	repo := notes.NewSQLiteRepository(db)
	mediaDir := filepath.Join(t.TempDir(), "media")
	return NewNoteService(repo, mediaDir), repo, mediaDir
}

func TestNoteCreate_Validation(t *testing.T) {
	svc, _, _ := newNoteFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Note{Kind: models.NoteKindText, Content: "x"})
	require.Error(t, err) // no user

	_, err = svc.Create(ctx, &models.Note{UserID: 1, Content: "x"})
	require.Error(t, err) // no kind

	_, err = svc.Create(ctx, &models.Note{UserID: 1, Kind: models.NoteKindText})
	require.Error(t, err) // empty text note

	id, err := svc.Create(ctx, &models.Note{UserID: 1, Kind: models.NoteKindText, Content: "ok"})
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestCreateWithMedia_CopiesIntoMediaDir(t *testing.T) {
	svc, repo, mediaDir := newNoteFixture(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "recording.m4a")
	require.NoError(t, os.WriteFile(src, []byte("audio-bytes"), 0o660))

	id, err := svc.CreateWithMedia(ctx, &models.Note{
		UserID: 1, Kind: models.NoteKindAudio, Title: "dictation",
	}, src)
	require.NoError(t, err)

	got, err := repo.GetByLocalID(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Media.LocalFilePath, mediaDir))
	assert.True(t, strings.HasSuffix(got.Media.LocalFilePath, ".m4a"))
	assert.NotEqual(t, src, got.Media.LocalFilePath)
	assert.Equal(t, int64(len("audio-bytes")), got.Media.FileSize)

	// the copy is independent of the source
	require.NoError(t, os.Remove(src))
	_, err = os.Stat(got.Media.LocalFilePath)
	require.NoError(t, err)
}

func TestCreateWithMedia_MissingSource(t *testing.T) {
	svc, _, _ := newNoteFixture(t)
	_, err := svc.CreateWithMedia(context.Background(), &models.Note{
		UserID: 1, Kind: models.NoteKindAudio, Title: "x",
	}, "/nope/missing.m4a")
	require.Error(t, err)
}

func TestNoteDelete_RemovesLocalFile(t *testing.T) {
	svc, _, _ := newNoteFixture(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0o660))

	id, err := svc.CreateWithMedia(ctx, &models.Note{
		UserID: 1, Kind: models.NoteKindVideo, Title: "walkthrough",
	}, src)
	require.NoError(t, err)

	n, err := svc.Get(ctx, id)
	require.NoError(t, err)
	stored := n.Media.LocalFilePath

	require.NoError(t, svc.Delete(ctx, id))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}
