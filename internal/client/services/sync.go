package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/client"
	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/notes"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/timereports"
	"github.com/dmitrijs2005/fieldtrack/internal/common"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
)

// ErrSyncInProgress is returned when a pass for the same entity kind is
// already running.
var ErrSyncInProgress = errors.New("sync already in progress")

// ErrOffline is returned when a pass is requested while the connectivity
// advisory says the server is unreachable.
var ErrOffline = errors.New("device is offline")

// SyncResult summarizes one pass.
type SyncResult struct {
	ReportsUploaded int
	ReportsFailed   int
	NotesUploaded   int
	NotesFailed     int
	MediaUploaded   int
	MediaFailed     int
	Downloaded      int
}

// SyncEngine pushes pending local records to the server and pulls
// server-side updates down. One pass per entity kind runs at a time;
// a second request while one is in flight gets ErrSyncInProgress.
//
// A failed entity never aborts the pass: the failure is recorded on the row
// and the pass moves on. Only ctx cancellation stops a pass early.
type SyncEngine struct {
	remote  client.Remote
	reports timereports.Repository
	notes   notes.Repository
	meta    metadata.Repository
	online  func() bool
	logger  logging.Logger
	now     func() time.Time

	reportsBusy atomic.Bool
	notesBusy   atomic.Bool
	mediaBusy   atomic.Bool
}

func NewSyncEngine(
	remote client.Remote,
	reports timereports.Repository,
	noteRepo notes.Repository,
	meta metadata.Repository,
	online func() bool,
	logger logging.Logger,
) *SyncEngine {
	return &SyncEngine{
		remote:  remote,
		reports: reports,
		notes:   noteRepo,
		meta:    meta,
		online:  online,
		logger:  logger.With("component", "sync"),
		now:     time.Now,
	}
}

// RunPass executes a full pass for the given session: upload pending reports,
// upload pending notes, upload pending media, then download server updates.
func (e *SyncEngine) RunPass(ctx context.Context, sess *Session) (*SyncResult, error) {
	if e.online != nil && !e.online() {
		return nil, ErrOffline
	}

	res := &SyncResult{}

	if err := e.SyncTimeReports(ctx, sess.EmployeeID, res); err != nil {
		return res, err
	}
	if err := e.SyncNotes(ctx, sess.UserID, res); err != nil {
		return res, err
	}
	if err := e.SyncMedia(ctx, sess.UserID, res); err != nil {
		return res, err
	}
	if err := e.Download(ctx, res); err != nil {
		return res, err
	}

	now := e.now().UTC().Format(models.TimeLayout)
	if err := e.meta.Set(ctx, metadata.KeyLastFullSync, []byte(now)); err != nil {
		return res, fmt.Errorf("failed to record sync time: %w", err)
	}
	return res, nil
}

// SyncTimeReports uploads the employee's pending time reports.
func (e *SyncEngine) SyncTimeReports(ctx context.Context, employeeID int64, res *SyncResult) error {
	if !e.reportsBusy.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.reportsBusy.Store(false)

	pending, err := e.reports.ListPending(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to list pending reports: %w", err)
	}

	for _, rep := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := e.reports.MarkSyncing(ctx, rep.LocalID); err != nil {
			return err
		}
		remoteID, err := e.remote.SubmitTimeReport(ctx, rep)
		if err != nil {
			res.ReportsFailed++
			reason := classifyReason(err)
			if err := e.reports.MarkFailed(ctx, rep.LocalID, reason, rep.SyncAttempts+1); err != nil {
				return err
			}
			e.logger.Warn(ctx, "time report sync failed", "local_id", rep.LocalID, "reason", reason)
			continue
		}
		if err := e.reports.MarkSynced(ctx, rep.LocalID, remoteID); err != nil {
			return err
		}
		res.ReportsUploaded++
	}

	e.recordUploadTime(ctx)
	return nil
}

// SyncNotes uploads the user's pending notes. Media is not sent here; a note
// must be synced first so its attachment has a remote id to attach to.
func (e *SyncEngine) SyncNotes(ctx context.Context, userID int64, res *SyncResult) error {
	if !e.notesBusy.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.notesBusy.Store(false)

	pending, err := e.notes.ListPending(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list pending notes: %w", err)
	}

	for _, n := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := e.notes.MarkSyncing(ctx, n.LocalID); err != nil {
			return err
		}
		remoteID, err := e.remote.SubmitNote(ctx, n)
		if err != nil {
			res.NotesFailed++
			reason := classifyReason(err)
			if err := e.notes.MarkFailed(ctx, n.LocalID, reason, n.SyncAttempts+1); err != nil {
				return err
			}
			e.logger.Warn(ctx, "note sync failed", "local_id", n.LocalID, "reason", reason)
			continue
		}
		if err := e.notes.MarkSynced(ctx, n.LocalID, remoteID); err != nil {
			return err
		}
		res.NotesUploaded++
	}

	e.recordUploadTime(ctx)
	return nil
}

// SyncMedia uploads attachments of already-synced notes, streaming byte
// progress into the store so a UI can show it.
func (e *SyncEngine) SyncMedia(ctx context.Context, userID int64, res *SyncResult) error {
	if !e.mediaBusy.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.mediaBusy.Store(false)

	uploads, err := e.notes.ListPendingMedia(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list pending media: %w", err)
	}

	for _, n := range uploads {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n.RemoteID == nil {
			continue
		}

		localID := n.LocalID
		serverURL, err := e.remote.UploadMedia(ctx, *n.RemoteID,
			n.Media.LocalFilePath, n.Media.MimeType, func(percent int) {
				_ = e.notes.UpdateUploadProgress(ctx, localID, percent)
			})
		if err != nil {
			res.MediaFailed++
			reason := classifyReason(err)
			if err := e.notes.MarkFailed(ctx, localID, reason, n.SyncAttempts+1); err != nil {
				return err
			}
			e.logger.Warn(ctx, "media upload failed", "local_id", localID, "reason", reason)
			continue
		}
		if err := e.notes.MarkMediaSynced(ctx, localID, serverURL); err != nil {
			return err
		}
		res.MediaUploaded++
	}
	return nil
}

// Download pulls server-side updates since the last download cursor and
// merges them through the upsert path, then advances the cursor.
func (e *SyncEngine) Download(ctx context.Context, res *SyncResult) error {
	since, err := e.downloadCursor(ctx)
	if err != nil {
		return err
	}
	// the cursor is taken before the fetch so records written during the
	// fetch are picked up next time rather than missed
	passStart := e.now().UTC()

	reports, err := e.remote.FetchTimeReportUpdates(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch time report updates: %w", err)
	}
	for _, rep := range reports {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.reports.UpsertFromServer(ctx, rep); err != nil {
			return err
		}
		res.Downloaded++
	}

	noteUpdates, err := e.remote.FetchNoteUpdates(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch note updates: %w", err)
	}
	for _, n := range noteUpdates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.notes.UpsertFromServer(ctx, n); err != nil {
			return err
		}
		res.Downloaded++
	}

	cursor := passStart.Format(models.TimeLayout)
	if err := e.meta.Set(ctx, metadata.KeyLastDownloadSync, []byte(cursor)); err != nil {
		return fmt.Errorf("failed to advance download cursor: %w", err)
	}
	return nil
}

func (e *SyncEngine) downloadCursor(ctx context.Context) (time.Time, error) {
	b, err := e.meta.Get(ctx, metadata.KeyLastDownloadSync)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read download cursor: %w", err)
	}
	if b == nil {
		return time.Time{}, nil
	}
	t, err := models.ParseTime(string(b))
	if err != nil {
		// a corrupt cursor falls back to a full download
		return time.Time{}, nil
	}
	return t, nil
}

func (e *SyncEngine) recordUploadTime(ctx context.Context) {
	now := e.now().UTC().Format(models.TimeLayout)
	if err := e.meta.Set(ctx, metadata.KeyLastUploadSync, []byte(now)); err != nil {
		e.logger.Warn(ctx, "failed to record upload time", "error", err)
	}
}

// classifyReason prefixes the recorded sync error so a permanent rejection is
// distinguishable from an outage when inspecting failed rows.
func classifyReason(err error) string {
	switch {
	case errors.Is(err, common.ErrorRejected):
		return "rejected: " + err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return "unauthorized: " + err.Error()
	case errors.Is(err, common.ErrorMediaMissing):
		return "media missing: " + err.Error()
	default:
		return "unavailable: " + err.Error()
	}
}
