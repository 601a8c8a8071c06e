package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/notes"
	"github.com/dmitrijs2005/fieldtrack/internal/filex"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
)

// MediaService reclaims local storage: media files whose upload is durable on
// the server and that have aged past the retention window are deleted and
// their paths cleared. Anything not yet uploaded is never touched.
type MediaService interface {
	Cleanup(ctx context.Context, retention time.Duration) (removed int, err error)
}

type mediaService struct {
	repo   notes.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewMediaService(repo notes.Repository, logger logging.Logger) MediaService {
	return &mediaService{repo: repo, logger: logger.With("component", "media"), now: time.Now}
}

func (s *mediaService) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := s.now().UTC().Add(-retention).Format(models.TimeLayout)

	old, err := s.repo.ListSyncedMediaOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, n := range old {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := filex.RemoveIfExists(n.Media.LocalFilePath); err != nil {
			s.logger.Warn(ctx, "failed to remove media file",
				"path", n.Media.LocalFilePath, "error", err)
			continue
		}
		if n.Media.ThumbnailPath != "" {
			_ = filex.RemoveIfExists(n.Media.ThumbnailPath)
		}
		// only clear the path after the file is actually gone
		if err := s.repo.ClearLocalMedia(ctx, n.LocalID); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info(ctx, "media cleanup finished", "removed", removed)
	}
	return removed, nil
}
