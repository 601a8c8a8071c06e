package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/cache"
	"github.com/dmitrijs2005/fieldtrack/internal/client/client"
	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/reference"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
)

// ReferenceService serves projects, work types and note categories with a
// read-through TTL cache in front of the local store, and refreshes the
// store from the server on demand.
type ReferenceService interface {
	Projects(ctx context.Context, activeOnly bool) ([]*models.Project, error)
	Project(ctx context.Context, id int64) (*models.Project, error)
	WorkTypes(ctx context.Context, activeOnly bool) ([]*models.WorkType, error)
	NoteCategories(ctx context.Context, userID int64) ([]*models.NoteCategory, error)

	// Refresh pulls all three reference sets from the server and replaces
	// the local tables. Each set is replaced transactionally; a failed fetch
	// leaves the previous set in place.
	Refresh(ctx context.Context, userID int64) error
}

type referenceService struct {
	remote client.Remote
	repo   reference.Repository
	logger logging.Logger

	projects   *cache.Cache[[]*models.Project]
	workTypes  *cache.Cache[[]*models.WorkType]
	categories *cache.Cache[[]*models.NoteCategory]
	// categories are cached per user; a user switch invalidates implicitly
	categoriesUser int64
}

func NewReferenceService(remote client.Remote, repo reference.Repository, ttl time.Duration, logger logging.Logger) ReferenceService {
	return &referenceService{
		remote:     remote,
		repo:       repo,
		logger:     logger.With("component", "reference"),
		projects:   cache.New[[]*models.Project](ttl),
		workTypes:  cache.New[[]*models.WorkType](ttl),
		categories: cache.New[[]*models.NoteCategory](ttl),
	}
}

// Projects returns the cached project list when fresh; the activeOnly filter
// is applied after the cache so both variants share one snapshot.
func (s *referenceService) Projects(ctx context.Context, activeOnly bool) ([]*models.Project, error) {
	all, ok := s.projects.Get()
	if !ok {
		var err error
		all, err = s.repo.ListProjects(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		s.projects.Put(cache.Copy(all))
	}
	if !activeOnly {
		return cache.Copy(all), nil
	}
	out := make([]*models.Project, 0, len(all))
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *referenceService) Project(ctx context.Context, id int64) (*models.Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *referenceService) WorkTypes(ctx context.Context, activeOnly bool) ([]*models.WorkType, error) {
	all, ok := s.workTypes.Get()
	if !ok {
		var err error
		all, err = s.repo.ListWorkTypes(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("failed to list work types: %w", err)
		}
		s.workTypes.Put(cache.Copy(all))
	}
	if !activeOnly {
		return cache.Copy(all), nil
	}
	out := make([]*models.WorkType, 0, len(all))
	for _, w := range all {
		if w.Active {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *referenceService) NoteCategories(ctx context.Context, userID int64) ([]*models.NoteCategory, error) {
	if userID == s.categoriesUser {
		if cached, ok := s.categories.Get(); ok {
			return cache.Copy(cached), nil
		}
	}
	list, err := s.repo.ListNoteCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list note categories: %w", err)
	}
	s.categoriesUser = userID
	s.categories.Put(cache.Copy(list))
	return list, nil
}

func (s *referenceService) Refresh(ctx context.Context, userID int64) error {
	projects, err := s.remote.FetchProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch projects: %w", err)
	}
	if err := s.repo.ReplaceAllProjects(ctx, projects); err != nil {
		return err
	}
	s.projects.Invalidate()

	workTypes, err := s.remote.FetchWorkTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch work types: %w", err)
	}
	if err := s.repo.ReplaceAllWorkTypes(ctx, workTypes); err != nil {
		return err
	}
	s.workTypes.Invalidate()

	categories, err := s.remote.FetchNoteCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch note categories: %w", err)
	}
	if err := s.repo.ReplaceAllNoteCategories(ctx, categories); err != nil {
		return err
	}
	s.categories.Invalidate()

	s.logger.Info(ctx, "reference data refreshed",
		"projects", len(projects), "work_types", len(workTypes), "categories", len(categories))
	return nil
}
