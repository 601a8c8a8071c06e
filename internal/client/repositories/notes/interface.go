// Package notes persists field notes, their media attachments and the sync
// lifecycle of both.
package notes

import (
	"context"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
)

// Repository is the durable store for notes.
//
// Every read is scoped to a user id; a query must never return another
// user's notes. The media attachment has its own lifecycle on top of the
// note's: a note can be synced while its payload is still uploading.
type Repository interface {
	Insert(ctx context.Context, n *models.Note) (int64, error)
	GetByLocalID(ctx context.Context, localID int64) (*models.Note, error)
	GetByRemoteID(ctx context.Context, remoteID int64) (*models.Note, error)

	ListPending(ctx context.Context, userID int64) ([]*models.Note, error)
	ListByProject(ctx context.Context, userID, projectID int64) ([]*models.Note, error)
	ListPersonal(ctx context.Context, userID int64) ([]*models.Note, error)
	ListByGroup(ctx context.Context, userID int64, group string) ([]*models.Note, error)
	CountPending(ctx context.Context, userID int64) (int, error)
	Count(ctx context.Context, userID int64) (int, error)

	Update(ctx context.Context, localID int64, patch models.NotePatch) error
	Delete(ctx context.Context, localID int64) error

	MarkSyncing(ctx context.Context, localID int64) error
	MarkFailed(ctx context.Context, localID int64, reason string, attempts int) error
	MarkSynced(ctx context.Context, localID int64, remoteID int64) error
	UpsertFromServer(ctx context.Context, n *models.Note) (int64, error)

	// Media lifecycle. A pending upload is a note whose file exists locally
	// but has no server URL yet.
	ListPendingMedia(ctx context.Context, userID int64) ([]*models.Note, error)
	UpdateUploadProgress(ctx context.Context, localID int64, progress int) error
	MarkMediaSynced(ctx context.Context, localID int64, serverURL string) error
	ListSyncedMediaOlderThan(ctx context.Context, cutoff string) ([]*models.Note, error)
	ClearLocalMedia(ctx context.Context, localID int64) error
}
