package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/common"
	"github.com/dmitrijs2005/fieldtrack/internal/dbx"
)

// SQLiteRepository implements Repository. Unlike the other repositories it
// holds the *sql.DB itself, because ReplaceAll* must open its own transaction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceAllProjects swaps the whole projects table for the given set inside
// one transaction.
func (r *SQLiteRepository) ReplaceAllProjects(ctx context.Context, projects []*models.Project) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		now := models.Now()
		for _, p := range projects {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO projects
					(id, name, description, active, is_placeholder, client,
					 priority, progress, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, p.ID, p.Name, p.Description, boolToInt(p.Active),
				boolToInt(p.Placeholder), p.Client,
				orDefault(p.Priority, "medium"), p.Progress, now, now)
			if err != nil {
				return fmt.Errorf("failed to insert project %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

// ReplaceAllWorkTypes swaps the whole work_types table for the given set
// inside one transaction.
func (r *SQLiteRepository) ReplaceAllWorkTypes(ctx context.Context, workTypes []*models.WorkType) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM work_types`); err != nil {
			return fmt.Errorf("failed to clear work types: %w", err)
		}
		now := models.Now()
		for _, w := range workTypes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO work_types (id, name, description, active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, w.ID, w.Name, w.Description, boolToInt(w.Active), now, now)
			if err != nil {
				return fmt.Errorf("failed to insert work type %d: %w", w.ID, err)
			}
		}
		return nil
	})
}

// ReplaceAllNoteCategories swaps the whole note_categories table for the
// given set inside one transaction.
func (r *SQLiteRepository) ReplaceAllNoteCategories(ctx context.Context, categories []*models.NoteCategory) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM note_categories`); err != nil {
			return fmt.Errorf("failed to clear note categories: %w", err)
		}
		now := models.Now()
		for _, c := range categories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO note_categories
					(id, user_id, name, slug, icon, color, description,
					 is_system, sort_order, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, c.ID, c.UserID, c.Name, c.Slug, c.Icon,
				orDefault(c.Color, "#6c757d"), c.Description,
				boolToInt(c.System), c.SortOrder, now, now)
			if err != nil {
				return fmt.Errorf("failed to insert note category %d: %w", c.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) ListProjects(ctx context.Context, activeOnly bool) ([]*models.Project, error) {
	query := `SELECT id, name, description, active, is_placeholder, client, priority, progress
		FROM projects`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, active, is_placeholder, client, priority, progress
		FROM projects WHERE id = ?
	`, id)
	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	return p, err
}

func (r *SQLiteRepository) ListWorkTypes(ctx context.Context, activeOnly bool) ([]*models.WorkType, error) {
	query := `SELECT id, name, description, active FROM work_types`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select work types: %w", err)
	}
	defer rows.Close()

	var result []*models.WorkType
	for rows.Next() {
		w := &models.WorkType{}
		var desc sql.NullString
		var active int
		if err := rows.Scan(&w.ID, &w.Name, &desc, &active); err != nil {
			return nil, fmt.Errorf("failed to scan work type: %w", err)
		}
		w.Description = desc.String
		w.Active = active != 0
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListNoteCategories returns system categories plus the user's own, in sort
// order.
func (r *SQLiteRepository) ListNoteCategories(ctx context.Context, userID int64) ([]*models.NoteCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, slug, icon, color, description, is_system, sort_order
		FROM note_categories
		WHERE user_id IS NULL OR user_id = ?
		ORDER BY sort_order, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select note categories: %w", err)
	}
	defer rows.Close()

	var result []*models.NoteCategory
	for rows.Next() {
		c := &models.NoteCategory{}
		var uid sql.NullInt64
		var icon, color, desc sql.NullString
		var system int
		err := rows.Scan(&c.ID, &uid, &c.Name, &c.Slug, &icon, &color, &desc,
			&system, &c.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note category: %w", err)
		}
		if uid.Valid {
			c.UserID = &uid.Int64
		}
		c.Icon = icon.String
		c.Color = color.String
		c.Description = desc.String
		c.System = system != 0
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) CountProjects(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountWorkTypes(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_types`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count work types: %w", err)
	}
	return n, nil
}

func scanProject(scan func(...any) error) (*models.Project, error) {
	p := &models.Project{}
	var desc, client, priority sql.NullString
	var active, placeholder int
	var progress sql.NullFloat64
	err := scan(&p.ID, &p.Name, &desc, &active, &placeholder, &client, &priority, &progress)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	p.Description = desc.String
	p.Active = active != 0
	p.Placeholder = placeholder != 0
	p.Client = client.String
	p.Priority = priority.String
	p.Progress = progress.Float64
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
