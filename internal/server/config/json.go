package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sumdays/internal/flagx"
	"github.com/dmitrijs2005/sumdays/internal/timex"
)

// EnvConfigFile names the variable consulted when no -c/-config flag is given.
const EnvConfigFile = "SUMDAYS_SERVER_CONFIG"

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Durations accept strings such as "15m" or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	ShutdownTimeout       timex.Duration `json:"shutdown_timeout"`
	MaxBodyBytes          int64          `json:"max_body_bytes"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	PresignExpiry         timex.Duration `json:"presign_expiry"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays config with the fields present in the JSON file given
// by -c/-config (or EnvConfigFile). If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(EnvConfigFile)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.IsSet() {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.RequestTimeout.IsSet() {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.ShutdownTimeout.IsSet() {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.PresignExpiry.IsSet() {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}
