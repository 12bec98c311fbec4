// Package config loads runtime configuration for the Sumdays client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config or SUMDAYS_CLIENT_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "health_addr": "127.0.0.1:50051",
//	  "db_path": "data/sumdays.db",
//	  "sync_interval": "3h",
//	  "request_timeout": "30s",
//	  "online_check_interval": "10s",
//	  "log_file": "data/sumdays.log",
//	  "log_level": "info"
//	}
package config
