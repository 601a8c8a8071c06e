package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/common"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
	"github.com/dmitrijs2005/fieldtrack/internal/netx"
)

// HTTPRemote implements Remote over HTTP/JSON. The token callback is invoked
// per request, so a re-login mid-session is picked up without rebuilding the
// client.
type HTTPRemote struct {
	baseURL string
	token   func(ctx context.Context) (string, error)
	http    *http.Client
	logger  logging.Logger
}

func NewHTTPRemote(baseURL string, token func(ctx context.Context) (string, error), logger logging.Logger) *HTTPRemote {
	return &HTTPRemote{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 120 * time.Second},
		logger:  logger.With("component", "remote"),
	}
}

func (c *HTTPRemote) Close() error { return nil }

// classify maps an HTTP status to a sentinel: auth failures, permanent
// rejections (validation) and transient outages are handled differently
// upstream.
func classify(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, msg)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: http %d: %s", common.ErrorRejected, status, msg)
	default:
		return fmt.Errorf("%w: http %d: %s", common.ErrorUnavailable, status, msg)
	}
}

func (c *HTTPRemote) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classify(resp.StatusCode, b)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPRemote) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var resp struct {
		Token      string `json:"token"`
		UserID     int64  `json:"user_id"`
		EmployeeID int64  `json:"employee_id"`
		Username   string `json:"username"`
		FullName   string `json:"full_name"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:      resp.Token,
		UserID:     resp.UserID,
		EmployeeID: resp.EmployeeID,
		Username:   resp.Username,
		FullName:   resp.FullName,
	}, nil
}

func (c *HTTPRemote) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

type timeReportDTO struct {
	ID           int64   `json:"id,omitempty"`
	ProjectID    int64   `json:"project_id"`
	EmployeeID   int64   `json:"employee_id"`
	WorkTypeID   int64   `json:"work_type_id"`
	ReportDate   string  `json:"report_date"`
	DatetimeFrom string  `json:"datetime_from"`
	DatetimeTo   string  `json:"datetime_to"`
	Hours        float64 `json:"hours"`
	Description  string  `json:"description"`
	Status       string  `json:"status,omitempty"`
	ProjectName  string  `json:"project_name,omitempty"`
	WorkTypeName string  `json:"work_type_name,omitempty"`
}

func (c *HTTPRemote) SubmitTimeReport(ctx context.Context, r *models.TimeReport) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/time-reports", timeReportDTO{
		ProjectID:    r.ProjectID,
		EmployeeID:   r.EmployeeID,
		WorkTypeID:   r.WorkTypeID,
		ReportDate:   r.ReportDate,
		DatetimeFrom: r.DatetimeFrom,
		DatetimeTo:   r.DatetimeTo,
		Hours:        r.Hours,
		Description:  r.Description,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.ID, nil
}

type noteDTO struct {
	ID            int64    `json:"id,omitempty"`
	ProjectID     *int64   `json:"project_id"`
	UserID        int64    `json:"user_id"`
	Kind          string   `json:"kind"`
	Group         string   `json:"group"`
	CategoryID    *int64   `json:"category_id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Transcription string   `json:"transcription,omitempty"`
	Important     bool     `json:"important"`
	Tags          []string `json:"tags,omitempty"`
	AuthorName    string   `json:"author_name,omitempty"`
	Priority      string   `json:"priority,omitempty"`
	ScheduledAt   *string  `json:"scheduled_at,omitempty"`
	ReminderAt    *string  `json:"reminder_at,omitempty"`
	MediaURL      string   `json:"media_url,omitempty"`
	MimeType      string   `json:"mime_type,omitempty"`
	FileSize      int64    `json:"file_size,omitempty"`
	Duration      int      `json:"duration,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

func (c *HTTPRemote) SubmitNote(ctx context.Context, n *models.Note) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/notes", noteDTO{
		ProjectID:     n.ProjectID,
		UserID:        n.UserID,
		Kind:          string(n.Kind),
		Group:         n.Group,
		CategoryID:    n.CategoryID,
		Title:         n.Title,
		Content:       n.Content,
		Transcription: n.Transcription,
		Important:     n.Important,
		Tags:          n.Tags,
		AuthorName:    n.AuthorName,
		Priority:      n.Priority,
		ScheduledAt:   n.ScheduledAt,
		ReminderAt:    n.ReminderAt,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *HTTPRemote) FetchProjects(ctx context.Context) ([]*models.Project, error) {
	var resp []struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Active      bool    `json:"active"`
		Placeholder bool    `json:"is_placeholder"`
		Client      string  `json:"client"`
		Priority    string  `json:"priority"`
		Progress    float64 `json:"progress"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.Project, 0, len(resp))
	for _, p := range resp {
		out = append(out, &models.Project{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Active:      p.Active,
			Placeholder: p.Placeholder,
			Client:      p.Client,
			Priority:    p.Priority,
			Progress:    p.Progress,
		})
	}
	return out, nil
}

func (c *HTTPRemote) FetchWorkTypes(ctx context.Context) ([]*models.WorkType, error) {
	var resp []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Active      bool   `json:"active"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/work-types", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.WorkType, 0, len(resp))
	for _, w := range resp {
		out = append(out, &models.WorkType{
			ID:          w.ID,
			Name:        w.Name,
			Description: w.Description,
			Active:      w.Active,
		})
	}
	return out, nil
}

func (c *HTTPRemote) FetchNoteCategories(ctx context.Context, userID int64) ([]*models.NoteCategory, error) {
	var resp []struct {
		ID          int64  `json:"id"`
		UserID      *int64 `json:"user_id"`
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		Description string `json:"description"`
		System      bool   `json:"is_system"`
		SortOrder   int    `json:"sort_order"`
	}
	path := "/api/note-categories?user_id=" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.NoteCategory, 0, len(resp))
	for _, cat := range resp {
		out = append(out, &models.NoteCategory{
			ID:          cat.ID,
			UserID:      cat.UserID,
			Name:        cat.Name,
			Slug:        cat.Slug,
			Icon:        cat.Icon,
			Color:       cat.Color,
			Description: cat.Description,
			System:      cat.System,
			SortOrder:   cat.SortOrder,
		})
	}
	return out, nil
}

func (c *HTTPRemote) FetchTimeReportUpdates(ctx context.Context, since time.Time) ([]*models.TimeReport, error) {
	var resp []timeReportDTO
	path := "/api/time-reports?since=" + url.QueryEscape(since.UTC().Format(models.TimeLayout))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.TimeReport, 0, len(resp))
	for _, d := range resp {
		id := d.ID
		out = append(out, &models.TimeReport{
			RemoteID:         &id,
			ProjectID:        d.ProjectID,
			EmployeeID:       d.EmployeeID,
			WorkTypeID:       d.WorkTypeID,
			ReportDate:       d.ReportDate,
			DatetimeFrom:     d.DatetimeFrom,
			DatetimeTo:       d.DatetimeTo,
			Hours:            d.Hours,
			Description:      d.Description,
			ValidationStatus: d.Status,
			ProjectName:      d.ProjectName,
			WorkTypeName:     d.WorkTypeName,
		})
	}
	return out, nil
}

func (c *HTTPRemote) FetchNoteUpdates(ctx context.Context, since time.Time) ([]*models.Note, error) {
	var resp []noteDTO
	path := "/api/notes?since=" + url.QueryEscape(since.UTC().Format(models.TimeLayout))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.Note, 0, len(resp))
	for _, d := range resp {
		id := d.ID
		out = append(out, &models.Note{
			RemoteID:      &id,
			ProjectID:     d.ProjectID,
			UserID:        d.UserID,
			Kind:          models.NoteKind(d.Kind),
			Group:         d.Group,
			CategoryID:    d.CategoryID,
			Title:         d.Title,
			Content:       d.Content,
			Transcription: d.Transcription,
			Important:     d.Important,
			Tags:          d.Tags,
			AuthorName:    d.AuthorName,
			Priority:      d.Priority,
			ScheduledAt:   d.ScheduledAt,
			ReminderAt:    d.ReminderAt,
			Media: models.MediaAttachment{
				ServerURL: d.MediaURL,
				MimeType:  d.MimeType,
				FileSize:  d.FileSize,
				Duration:  d.Duration,
			},
		})
	}
	return out, nil
}

// UploadMedia streams the file as a multipart form to the note's media
// endpoint. The body is piped so the whole file never sits in memory, and
// byte progress is observed on the reading side of the pipe.
func (c *HTTPRemote) UploadMedia(ctx context.Context, noteRemoteID int64, path, mimeType string, progressFn func(percent int)) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorMediaMissing, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat media file: %w", err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := netx.NewProgressReader(f, fi.Size(), progressFn)
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		if mimeType != "" {
			if err := mw.WriteField("mime_type", mimeType); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	endpoint := fmt.Sprintf("%s/api/notes/%d/media", c.baseURL, noteRemoteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", classify(resp.StatusCode, b)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	c.logger.Info(ctx, "media uploaded", "note", noteRemoteID, "size", fi.Size())
	return out.URL, nil
}
