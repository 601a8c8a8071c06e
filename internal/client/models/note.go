package models

import "encoding/json"

// NoteKind classifies the captured content of a note.
type NoteKind string

const (
	NoteKindText      NoteKind = "text"
	NoteKindAudio     NoteKind = "audio"
	NoteKindDictation NoteKind = "dictation"
	NoteKindImage     NoteKind = "image"
	NoteKindVideo     NoteKind = "video"
)

// Note groups recognized by the server.
const (
	NoteGroupProject  = "project"
	NoteGroupPersonal = "personal"
	NoteGroupMeeting  = "meeting"
	NoteGroupTodo     = "todo"
	NoteGroupIdea     = "idea"
	NoteGroupIssue    = "issue"
	NoteGroupOther    = "other"
)

// MediaAttachment is the binary payload of a note. LocalFilePath is set once
// captured, ServerURL once uploaded; both may coexist during upload, and
// LocalFilePath may be cleared by cache cleanup after the upload is durable.
// Its upload lifecycle is tracked independently of the note's own sync status.
type MediaAttachment struct {
	LocalFilePath  string
	ServerURL      string
	FileSize       int64
	MimeType       string
	ThumbnailPath  string
	UploadProgress int // 0-100
	Duration       int // seconds, audio/video only
}

// Present reports whether the note carries a binary payload at all.
func (m *MediaAttachment) Present() bool {
	return m.LocalFilePath != "" || m.ServerURL != ""
}

// Uploaded reports whether the payload is durable on the server.
func (m *MediaAttachment) Uploaded() bool {
	return m.ServerURL != ""
}

// Note is a project or personal note captured in the field. ProjectID is nil
// for personal notes. UserID scopes every query touching notes; it is a
// security boundary, not an optimization.
type Note struct {
	LocalID  int64
	RemoteID *int64

	ProjectID  *int64
	UserID     int64
	Kind       NoteKind
	Group      string
	CategoryID *int64

	Title         string
	Content       string
	Transcription string
	Important     bool
	Tags          []string
	AuthorName    string

	Priority    string
	ScheduledAt *string
	ReminderAt  *string

	Media MediaAttachment

	CreatedAt string
	UpdatedAt string

	SyncStatus   SyncStatus
	SyncError    *string
	SyncAttempts int
}

// NotePatch carries a partial update; nil fields are left untouched.
type NotePatch struct {
	ProjectID  *int64
	CategoryID *int64
	Group      *string
	Title      *string
	Content    *string
	Important  *bool
	Tags       *[]string
	Priority   *string
}

// EncodeTags renders tags as the JSON array string stored in the tags column.
// An empty tag set encodes as the empty string (stored as NULL).
func EncodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeTags parses the stored JSON array string back into a tag list.
func DecodeTags(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
