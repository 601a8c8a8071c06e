// Package metadata is a small key-value store inside the local database used
// for device-level facts: the consolidated session record, the device id and
// the per-kind sync cursors. It is the single authoritative place for these;
// nothing is duplicated into flat preference files.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Well-known keys.
const (
	KeySession          = "session"
	KeyDeviceID         = "device_id"
	KeyLastFullSync     = "last_full_sync"
	KeyLastUploadSync   = "last_upload_sync"
	KeyLastDownloadSync = "last_download_sync"
)
