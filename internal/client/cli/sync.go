package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldtrack/internal/client/services"
)

func (a *App) sync(ctx context.Context) {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return
	}

	res, err := a.engine.RunPass(ctx, sess)
	switch {
	case errors.Is(err, services.ErrOffline):
		fmt.Println("Offline; sync skipped. Data stays queued locally.")
		return
	case errors.Is(err, services.ErrSyncInProgress):
		fmt.Println("A sync pass is already running.")
		return
	case err != nil:
		fmt.Println("Sync stopped:", err)
		if res == nil {
			return
		}
	}

	fmt.Printf("Sync: %d reports up (%d failed), %d notes up (%d failed), %d media up (%d failed), %d down.\n",
		res.ReportsUploaded, res.ReportsFailed,
		res.NotesUploaded, res.NotesFailed,
		res.MediaUploaded, res.MediaFailed,
		res.Downloaded)
}

func (a *App) refresh(ctx context.Context) {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return
	}
	if err := a.refdata.Refresh(ctx, sess.UserID); err != nil {
		fmt.Println("Refresh failed:", err)
		return
	}
	fmt.Println("Reference data refreshed.")
}

func (a *App) showPending(ctx context.Context) {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return
	}

	reports, err := a.reports.ListPending(ctx, sess.EmployeeID)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	notes, err := a.notes.ListPending(ctx, sess.UserID)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if len(reports) == 0 && len(notes) == 0 {
		fmt.Println("Everything is synced.")
		return
	}
	for _, r := range reports {
		line := fmt.Sprintf("  report #%d %s %.1fh [%s]", r.LocalID, r.ReportDate, r.Hours, r.SyncStatus)
		if r.SyncError != nil {
			line += " " + *r.SyncError
		}
		fmt.Println(line)
	}
	for _, n := range notes {
		line := fmt.Sprintf("  note #%d %s [%s]", n.LocalID, n.Title, n.SyncStatus)
		if n.SyncError != nil {
			line += " " + *n.SyncError
		}
		fmt.Println(line)
	}
}

func (a *App) showStatus(ctx context.Context) {
	if sess, err := a.session.Current(ctx); err == nil {
		fmt.Printf("Logged in as %s (user %d, employee %d)\n", sess.Username, sess.UserID, sess.EmployeeID)
		stats, err := a.reports.Statistics(ctx, sess.EmployeeID)
		if err == nil {
			fmt.Printf("Reports: %d total, %d pending, %.1f hours\n",
				stats.Total, stats.Pending, stats.TotalHours)
		}
		pendingNotes, err := a.notes.CountPending(ctx, sess.UserID)
		if err == nil {
			fmt.Printf("Notes pending: %d\n", pendingNotes)
		}
	} else {
		fmt.Println("Not logged in.")
	}
	if a.watcher.Online() {
		fmt.Println("Connectivity: online")
	} else {
		fmt.Println("Connectivity: offline")
	}
}

func (a *App) cleanup(ctx context.Context) {
	removed, err := a.media.Cleanup(ctx, a.config.MediaRetention)
	if err != nil {
		fmt.Println("Cleanup failed:", err)
		return
	}
	fmt.Printf("Reclaimed %d media file(s).\n", removed)
}
