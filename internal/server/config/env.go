package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. SUMDAYS_DATABASE_DSN.
const EnvPrefix = "SUMDAYS"

// dotEnvFile is loaded before the environment is read; a missing file is fine.
var dotEnvFile = ".env"

// EnvConfig mirrors Config for envconfig. Pointer fields distinguish
// "unset" from an explicit zero value.
type EnvConfig struct {
	HTTPAddr              *string        `envconfig:"HTTP_ADDR"`
	EndpointAddrGRPC      *string        `envconfig:"GRPC_ADDR"`
	DatabaseDSN           *string        `envconfig:"DATABASE_DSN"`
	SecretKey             *string        `envconfig:"SECRET_KEY"`
	TokenValidityDuration *time.Duration `envconfig:"TOKEN_VALIDITY"`
	RequestTimeout        *time.Duration `envconfig:"REQUEST_TIMEOUT"`
	MaxBodyBytes          *int64         `envconfig:"MAX_BODY_BYTES"`
	S3RootUser            *string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword        *string        `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket              *string        `envconfig:"S3_BUCKET"`
	S3Region              *string        `envconfig:"S3_REGION"`
	S3BaseEndpoint        *string        `envconfig:"S3_BASE_ENDPOINT"`
	LogLevel              *string        `envconfig:"LOG_LEVEL"`
	LogFormat             *string        `envconfig:"LOG_FORMAT"`
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// parseEnv is applyEnv for LoadConfig: malformed values panic.
func parseEnv(config *Config) {
	if err := applyEnv(config); err != nil {
		panic(err)
	}
}

// FromEnv returns the defaults overlaid with the environment only. Tools that
// own their command line use it instead of LoadConfig.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays config with SUMDAYS_* variables. Variables already set in
// the process environment win over the .env file.
func applyEnv(config *Config) error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var e EnvConfig
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return err
	}

	overlay(&config.HTTPAddr, e.HTTPAddr)
	overlay(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	overlay(&config.DatabaseDSN, e.DatabaseDSN)
	overlay(&config.SecretKey, e.SecretKey)
	overlay(&config.TokenValidityDuration, e.TokenValidityDuration)
	overlay(&config.RequestTimeout, e.RequestTimeout)
	overlay(&config.MaxBodyBytes, e.MaxBodyBytes)
	overlay(&config.S3RootUser, e.S3RootUser)
	overlay(&config.S3RootPassword, e.S3RootPassword)
	overlay(&config.S3Bucket, e.S3Bucket)
	overlay(&config.S3Region, e.S3Region)
	overlay(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	overlay(&config.LogLevel, e.LogLevel)
	overlay(&config.LogFormat, e.LogFormat)
	return nil
}
