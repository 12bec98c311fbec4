package config

import "time"

// Config holds runtime settings of the Sumdays client.
type Config struct {
	ServerURL           string
	HealthAddr          string
	DBPath              string
	SyncInterval        time.Duration
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogFile             string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.DBPath = "data/sumdays.db"
	c.SyncInterval = 3 * time.Hour
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.LogFile = "data/sumdays.log"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
