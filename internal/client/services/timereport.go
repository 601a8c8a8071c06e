package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/timereports"
)

// TimeReportService is the capture-side API for time reports. Records are
// written locally and picked up by the sync engine later; nothing here
// touches the network.
type TimeReportService interface {
	Create(ctx context.Context, r *models.TimeReport) (int64, error)
	Get(ctx context.Context, localID int64) (*models.TimeReport, error)
	ListPending(ctx context.Context, employeeID int64) ([]*models.TimeReport, error)
	ListByDateRange(ctx context.Context, employeeID int64, from, to string) ([]*models.TimeReport, error)
	Update(ctx context.Context, localID int64, patch models.TimeReportPatch) error
	Delete(ctx context.Context, localID int64) error
	Statistics(ctx context.Context, employeeID int64) (*TimeReportStats, error)
}

// TimeReportStats is a small summary for the status screen.
type TimeReportStats struct {
	Total      int
	Pending    int
	TotalHours float64
}

type timeReportService struct {
	repo timereports.Repository
}

func NewTimeReportService(repo timereports.Repository) TimeReportService {
	return &timeReportService{repo: repo}
}

func (s *timeReportService) Create(ctx context.Context, r *models.TimeReport) (int64, error) {
	if err := validateTimeReport(r); err != nil {
		return 0, err
	}
	id, err := s.repo.Insert(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("failed to save time report: %w", err)
	}
	return id, nil
}

func validateTimeReport(r *models.TimeReport) error {
	if r.ProjectID == 0 {
		return fmt.Errorf("project is required")
	}
	if r.WorkTypeID == 0 {
		return fmt.Errorf("work type is required")
	}
	if r.EmployeeID == 0 {
		return fmt.Errorf("employee is required")
	}
	if r.ReportDate == "" {
		return fmt.Errorf("report date is required")
	}
	if r.Hours <= 0 || r.Hours > 24 {
		return fmt.Errorf("hours must be between 0 and 24")
	}
	return nil
}

func (s *timeReportService) Get(ctx context.Context, localID int64) (*models.TimeReport, error) {
	return s.repo.GetByLocalID(ctx, localID)
}

func (s *timeReportService) ListPending(ctx context.Context, employeeID int64) ([]*models.TimeReport, error) {
	return s.repo.ListPending(ctx, employeeID)
}

func (s *timeReportService) ListByDateRange(ctx context.Context, employeeID int64, from, to string) ([]*models.TimeReport, error) {
	return s.repo.ListByDateRange(ctx, employeeID, from, to)
}

func (s *timeReportService) Update(ctx context.Context, localID int64, patch models.TimeReportPatch) error {
	return s.repo.Update(ctx, localID, patch)
}

func (s *timeReportService) Delete(ctx context.Context, localID int64) error {
	return s.repo.Delete(ctx, localID)
}

func (s *timeReportService) Statistics(ctx context.Context, employeeID int64) (*TimeReportStats, error) {
	total, err := s.repo.Count(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountPending(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	hours, err := s.repo.TotalHours(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &TimeReportStats{Total: total, Pending: pending, TotalHours: hours}, nil
}
