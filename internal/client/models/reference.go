package models

// Reference entities are owned by the server and read-mostly on the device.
// Locally they are keyed directly by the server-assigned id and are replaced
// wholesale on each successful refresh; they carry no sync lifecycle of their
// own.

// Project is a server-owned project record.
type Project struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	// Placeholder projects are created locally on the server side for
	// unassigned work; the refresh path always stores false for now.
	Placeholder bool
	Client      string
	Priority    string
	Progress    float64
}

// WorkType is a server-owned work classification.
type WorkType struct {
	ID          int64
	Name        string
	Description string
	Active      bool
}

// NoteCategory is a server-owned (or user-defined, server-hosted) note
// category. UserID is nil for system categories.
type NoteCategory struct {
	ID          int64
	UserID      *int64
	Name        string
	Slug        string
	Icon        string
	Color       string
	Description string
	System      bool
	SortOrder   int
}
