package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "127.0.0.1:6142", cfg.Server.Listen())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	yaml := `
server:
  port: 9000
  rate_limit: 2.5
  session_ttl: 5m
catalog:
  path: ~/catalog.yaml
log:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clauseguard.yaml"), []byte(yaml), 0o644))
	t.Setenv("CLAUSEGUARD_LOG_LEVEL", "debug")
	t.Setenv("CLAUSEGUARD_SERVER_BURST", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
	assert.Equal(t, 7, cfg.Server.Burst)
	assert.Equal(t, 5*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "catalog.yaml"), cfg.Catalog.Path)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLAUSEGUARD_AUDIT_PATH=/var/lib/clauseguard/audit.db\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CLAUSEGUARD_AUDIT_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/clauseguard/audit.db", cfg.Audit.Path)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, "address cannot be empty"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "cannot be negative"},
		{"zero burst", func(c *Config) { c.Server.Burst = 0 }, "burst must be at least 1"},
		{"short session ttl", func(c *Config) { c.Server.SessionTTL = 0 }, "session_ttl"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := Default()
	cfg.Server.RateLimit = 0
	cfg.Server.Burst = 0
	assert.NoError(t, cfg.Validate(), "burst is irrelevant when rate limiting is off")
}
