package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "client.json", map[string]any{
		"server_url":    "https://sumdays.example",
		"health_addr":   "",
		"sync_interval": "90m",
		"log_level":     "warn",
	})

	t.Run("loads from flag and keeps absent fields", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://sumdays.example", cfg.ServerURL)
		assert.Equal(t, "", cfg.HealthAddr, "explicit empty value disables the health probe")
		assert.Equal(t, 90*time.Minute, cfg.SyncInterval)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "data/sumdays.db", cfg.DBPath)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("loads from env", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(EnvConfigFile, path)

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, "https://sumdays.example", cfg.ServerURL)
	})

	t.Run("no file → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(EnvConfigFile, "")

		cfg := &Config{ServerURL: "defaults"}
		parseJson(cfg)
		assert.Equal(t, "defaults", cfg.ServerURL)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
