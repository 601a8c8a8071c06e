package models

import "time"

// TimeLayout is the timestamp format stored in the local database. It matches
// SQLite's CURRENT_TIMESTAMP output so column defaults and Go-side writes
// stay comparable.
const TimeLayout = "2006-01-02 15:04:05"

// Now returns the current UTC time in TimeLayout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
