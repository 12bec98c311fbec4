package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sumdays/internal/flagx"
	"github.com/dmitrijs2005/sumdays/internal/timex"
)

// EnvConfigFile names the variable consulted when no -c/-config flag is given.
const EnvConfigFile = "SUMDAYS_CLIENT_CONFIG"

// JsonConfig is a DTO used only for unmarshalling. Durations may be strings
// like "3h" or integer nanoseconds.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	HealthAddr          *string        `json:"health_addr"`
	DBPath              string         `json:"db_path"`
	SyncInterval        timex.Duration `json:"sync_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogFile             string         `json:"log_file"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the fields present in the JSON file given by
// -c/-config. Read or decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(EnvConfigFile)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.HealthAddr != nil {
		cfg.HealthAddr = *jc.HealthAddr
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.SyncInterval.IsSet() {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.RequestTimeout.IsSet() {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.IsSet() {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
