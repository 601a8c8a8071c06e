// Package reference persists server-owned reference data: projects, work
// types and note categories. These tables are replaced wholesale on refresh
// and carry no sync lifecycle.
package reference

import (
	"context"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
)

// Repository is the durable store for reference data.
//
// Each ReplaceAll runs as a single transaction: either the whole new set
// lands or the previous set survives untouched. A failed refresh must never
// leave the device with an empty reference table.
type Repository interface {
	ReplaceAllProjects(ctx context.Context, projects []*models.Project) error
	ReplaceAllWorkTypes(ctx context.Context, workTypes []*models.WorkType) error
	ReplaceAllNoteCategories(ctx context.Context, categories []*models.NoteCategory) error

	ListProjects(ctx context.Context, activeOnly bool) ([]*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListWorkTypes(ctx context.Context, activeOnly bool) ([]*models.WorkType, error)
	ListNoteCategories(ctx context.Context, userID int64) ([]*models.NoteCategory, error)

	CountProjects(ctx context.Context) (int, error)
	CountWorkTypes(ctx context.Context) (int, error)
}
