package config

import "time"

// Config holds runtime settings for the FieldTrack client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - DatabasePath: path to the local SQLite store.
//   - MediaDir: directory for captured media files awaiting upload.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - ReferenceCacheTTL: how long the in-memory reference snapshot stays fresh.
//   - MediaRetention: how long uploaded media files are kept locally.
type Config struct {
	ServerEndpointAddr  string
	DatabasePath        string
	MediaDir            string
	OnlineCheckInterval time.Duration
	ReferenceCacheTTL   time.Duration
	MediaRetention      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "fieldtrack.db"
	c.MediaDir = "media"
	c.OnlineCheckInterval = 3 * time.Second
	c.ReferenceCacheTTL = 5 * time.Minute
	c.MediaRetention = 7 * 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
