package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/flagx"
	"github.com/dmitrijs2005/fieldtrack/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s" or
// as integer nanoseconds. After parsing, values are copied into the runtime
// Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabasePath        string         `json:"database_path"`
	MediaDir            string         `json:"media_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ReferenceCacheTTL   timex.Duration `json:"reference_cache_ttl"`
	MediaRetention      timex.Duration `json:"media_retention"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; with no
// flag given, nothing is loaded. Only fields present in the JSON override
// the current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.MediaDir != "" {
		cfg.MediaDir = jc.MediaDir
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.ReferenceCacheTTL.Duration != 0 {
		cfg.ReferenceCacheTTL = time.Duration(jc.ReferenceCacheTTL.Duration)
	}
	if jc.MediaRetention.Duration != 0 {
		cfg.MediaRetention = time.Duration(jc.MediaRetention.Duration)
	}
}
