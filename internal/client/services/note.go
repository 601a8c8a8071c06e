package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/client/repositories/notes"
	"github.com/dmitrijs2005/fieldtrack/internal/filex"
)

// NoteService is the capture-side API for notes. Media files are copied into
// the app-owned media directory at capture time so the original can disappear
// without breaking the pending upload.
type NoteService interface {
	Create(ctx context.Context, n *models.Note) (int64, error)

	// CreateWithMedia copies the file at srcPath into the media directory
	// under a fresh name and stores the note pointing at the copy.
	CreateWithMedia(ctx context.Context, n *models.Note, srcPath string) (int64, error)

	Get(ctx context.Context, localID int64) (*models.Note, error)
	ListPending(ctx context.Context, userID int64) ([]*models.Note, error)
	ListByProject(ctx context.Context, userID, projectID int64) ([]*models.Note, error)
	ListPersonal(ctx context.Context, userID int64) ([]*models.Note, error)
	ListByGroup(ctx context.Context, userID int64, group string) ([]*models.Note, error)
	Update(ctx context.Context, localID int64, patch models.NotePatch) error
	Delete(ctx context.Context, localID int64) error
	CountPending(ctx context.Context, userID int64) (int, error)
}

type noteService struct {
	repo     notes.Repository
	mediaDir string
}

func NewNoteService(repo notes.Repository, mediaDir string) NoteService {
	return &noteService{repo: repo, mediaDir: mediaDir}
}

func (s *noteService) Create(ctx context.Context, n *models.Note) (int64, error) {
	if err := validateNote(n); err != nil {
		return 0, err
	}
	id, err := s.repo.Insert(ctx, n)
	if err != nil {
		return 0, fmt.Errorf("failed to save note: %w", err)
	}
	return id, nil
}

func (s *noteService) CreateWithMedia(ctx context.Context, n *models.Note, srcPath string) (int64, error) {
	if err := validateNote(n); err != nil {
		return 0, err
	}

	dir, err := filex.EnsureDir(s.mediaDir)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare media dir: %w", err)
	}
	dst := filepath.Join(dir, filex.MediaFileName(filepath.Ext(srcPath)))
	size, err := copyFile(dst, srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to store media file: %w", err)
	}

	n.Media.LocalFilePath = dst
	n.Media.FileSize = size

	id, err := s.repo.Insert(ctx, n)
	if err != nil {
		// the copy is orphaned without its note
		_ = filex.RemoveIfExists(dst)
		return 0, fmt.Errorf("failed to save note: %w", err)
	}
	return id, nil
}

func validateNote(n *models.Note) error {
	if n.UserID == 0 {
		return fmt.Errorf("user is required")
	}
	if n.Kind == "" {
		return fmt.Errorf("note kind is required")
	}
	if n.Kind == models.NoteKindText && n.Content == "" && n.Title == "" {
		return fmt.Errorf("text note needs a title or content")
	}
	return nil
}

func (s *noteService) Get(ctx context.Context, localID int64) (*models.Note, error) {
	return s.repo.GetByLocalID(ctx, localID)
}

func (s *noteService) ListPending(ctx context.Context, userID int64) ([]*models.Note, error) {
	return s.repo.ListPending(ctx, userID)
}

func (s *noteService) ListByProject(ctx context.Context, userID, projectID int64) ([]*models.Note, error) {
	return s.repo.ListByProject(ctx, userID, projectID)
}

func (s *noteService) ListPersonal(ctx context.Context, userID int64) ([]*models.Note, error) {
	return s.repo.ListPersonal(ctx, userID)
}

func (s *noteService) ListByGroup(ctx context.Context, userID int64, group string) ([]*models.Note, error) {
	return s.repo.ListByGroup(ctx, userID, group)
}

func (s *noteService) Update(ctx context.Context, localID int64, patch models.NotePatch) error {
	return s.repo.Update(ctx, localID, patch)
}

// Delete removes the note and its local media file, if any.
func (s *noteService) Delete(ctx context.Context, localID int64) error {
	n, err := s.repo.GetByLocalID(ctx, localID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, localID); err != nil {
		return err
	}
	if n.Media.LocalFilePath != "" {
		_ = filex.RemoveIfExists(n.Media.LocalFilePath)
	}
	return nil
}

func (s *noteService) CountPending(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountPending(ctx, userID)
}

func copyFile(dst, src string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return 0, err
	}
	return n, out.Close()
}
