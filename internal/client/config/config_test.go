package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args []string) {
	t.Helper()
	saved := os.Args
	os.Args = append([]string{saved[0]}, args...)
	t.Cleanup(func() { os.Args = saved })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t, nil)

	cfg := LoadConfig()
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerEndpointAddr)
	assert.Equal(t, "fieldtrack.db", cfg.DatabasePath)
	assert.Equal(t, "media", cfg.MediaDir)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 5*time.Minute, cfg.ReferenceCacheTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.MediaRetention)
}

func TestLoadConfig_Flags(t *testing.T) {
	withArgs(t, []string{"-a", "https://field.example.com", "-d", "/tmp/x.db", "-i", "10"})

	cfg := LoadConfig()
	assert.Equal(t, "https://field.example.com", cfg.ServerEndpointAddr)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	// untouched fields keep defaults
	assert.Equal(t, "media", cfg.MediaDir)
}

func TestLoadConfig_JsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_endpoint_addr": "https://json.example.com",
		"media_dir": "/var/media",
		"reference_cache_ttl": "90s",
		"media_retention": 3600000000000
	}`), 0o600))

	withArgs(t, []string{"-c", path})

	cfg := LoadConfig()
	assert.Equal(t, "https://json.example.com", cfg.ServerEndpointAddr)
	assert.Equal(t, "/var/media", cfg.MediaDir)
	assert.Equal(t, 90*time.Second, cfg.ReferenceCacheTTL)
	assert.Equal(t, time.Hour, cfg.MediaRetention)
	// absent from the file, stays default
	assert.Equal(t, "fieldtrack.db", cfg.DatabasePath)
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr": "https://json.example.com"}`), 0o600))

	withArgs(t, []string{"-c", path, "-a", "https://flag.example.com"})

	cfg := LoadConfig()
	assert.Equal(t, "https://flag.example.com", cfg.ServerEndpointAddr)
}
