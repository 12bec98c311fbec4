package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/sumdays/internal/flagx"
)

var knownFlags = []string{"-s", "-a", "-d", "-b", "-t", "-i", "-l", "-v"}

// parseFlags overlays cfg with command-line flags:
//
//	-s string     base URL of the sync server
//	-a string     host:port of the gRPC health endpoint ("" disables it)
//	-d string     path of the local database
//	-b duration   backup interval, e.g. 3h
//	-t duration   request timeout
//	-i duration   online check interval
//	-l string     log file
//	-v string     log level
//
// Unknown flags are left to other components. Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "sync server base URL")
	fs.StringVar(&cfg.HealthAddr, "a", cfg.HealthAddr, "gRPC health endpoint address")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.DurationVar(&cfg.SyncInterval, "b", cfg.SyncInterval, "backup interval")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
