package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
	"github.com/dmitrijs2005/fieldtrack/internal/common"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func staticToken(tok string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) { return tok, nil }
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "maria", creds["username"])
		assert.Equal(t, "s3cret", creds["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"token":       "tok-1",
			"user_id":     7,
			"employee_id": 12,
			"username":    "maria",
			"full_name":   "Maria Ozola",
		})
	}))
	defer srv.Close()

	c := NewHTTPRemote(srv.URL, staticToken(""), testLogger())
	res, err := c.Login(context.Background(), "maria", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, int64(12), res.EmployeeID)
	assert.Equal(t, "Maria Ozola", res.FullName)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPRemote(srv.URL, staticToken(""), testLogger())
	_, err := c.Login(context.Background(), "maria", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestSubmitTimeReport_SendsAuthAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/time-reports", r.URL.Path)
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var dto timeReportDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&dto))
		assert.Equal(t, int64(3), dto.ProjectID)
		assert.Equal(t, 6.5, dto.Hours)

		json.NewEncoder(w).Encode(map[string]int64{"id": 4041})
	}))
	defer srv.Close()

	c := NewHTTPRemote(srv.URL, staticToken("tok-9"), testLogger())
	id, err := c.SubmitTimeReport(context.Background(), &models.TimeReport{
		ProjectID:  3,
		EmployeeID: 12,
		WorkTypeID: 1,
		ReportDate: "2026-08-30",
		Hours:      6.5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4041), id)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, common.ErrorUnauthorized},
		{http.StatusForbidden, common.ErrorUnauthorized},
		{http.StatusBadRequest, common.ErrorRejected},
		{http.StatusUnprocessableEntity, common.ErrorRejected},
		{http.StatusInternalServerError, common.ErrorUnavailable},
		{http.StatusBadGateway, common.ErrorUnavailable},
	}
	for _, tt := range tests {
		err := classify(tt.status, []byte("detail"))
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		assert.Contains(t, err.Error(), "detail")
	}
}

func TestSubmitNote_ValidationRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "title required", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewHTTPRemote(srv.URL, staticToken("tok"), testLogger())
	_, err := c.SubmitNote(context.Background(), &models.Note{UserID: 7, Kind: models.NoteKindText})
	require.ErrorIs(t, err, common.ErrorRejected)
	assert.Contains(t, err.Error(), "title required")
}

func TestPing_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewHTTPRemote(srv.URL, staticToken(""), testLogger())
	err := c.Ping(context.Background())
	require.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestFetchNoteUpdates_SinceParam(t *testing.T) {
	since := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/notes", r.URL.Path)
		assert.Equal(t, "2026-08-29 10:30:00", r.URL.Query().Get("since"))

		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 88, "user_id": 7, "kind": "audio", "group": "personal",
				"title": "site walkthrough", "media_url": "https://cdn/x.m4a", "duration": 95},
		})
	}))
	defer srv.Close()

	c := NewHTTPRemote(srv.URL, staticToken("tok"), testLogger())
	list, err := c.FetchNoteUpdates(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, list, 1)

	n := list[0]
	require.NotNil(t, n.RemoteID)
	assert.Equal(t, int64(88), *n.RemoteID)
	assert.Equal(t, models.NoteKindAudio, n.Kind)
	assert.Equal(t, "https://cdn/x.m4a", n.Media.ServerURL)
	assert.Equal(t, 95, n.Media.Duration)
}

func TestFetchNoteCategories_UserScoped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/note-categories", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "Ideas", "slug": "ideas", "is_system": true, "sort_order": 1},
		})
	}))
	defer srv.Close()

	c := NewHTTPRemote(srv.URL, staticToken("tok"), testLogger())
	cats, err := c.FetchNoteCategories(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.True(t, cats[0].System)
	assert.Nil(t, cats[0].UserID)
}

func TestUploadMedia(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voice.m4a")
	content := make([]byte, 2048)
	for i := range content {
		content[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(path, content, 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/notes/77/media", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		mr, err := r.MultipartReader()
		require.NoError(t, err)

		var gotFile []byte
		var gotMime string
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			switch part.FormName() {
			case "file":
				assert.Equal(t, "voice.m4a", part.FileName())
				gotFile, err = io.ReadAll(part)
				require.NoError(t, err)
			case "mime_type":
				b, err := io.ReadAll(part)
				require.NoError(t, err)
				gotMime = string(b)
			}
		}
		assert.Equal(t, content, gotFile)
		assert.Equal(t, "audio/mp4", gotMime)

		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn/notes/77/voice.m4a"})
	}))
	defer srv.Close()

	c := NewHTTPRemote(srv.URL, staticToken("tok"), testLogger())

	var progress []int
	url, err := c.UploadMedia(context.Background(), 77, path, "audio/mp4", func(p int) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/notes/77/voice.m4a", url)
	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
}

func TestUploadMedia_MissingFile(t *testing.T) {
	c := NewHTTPRemote("http://127.0.0.1:1", staticToken("tok"), testLogger())
	_, err := c.UploadMedia(context.Background(), 77, filepath.Join(t.TempDir(), "gone.m4a"), "", nil)
	require.ErrorIs(t, err, common.ErrorMediaMissing)
}
