// Package config loads clauseguard settings from clauseguard.yaml, .env and
// CLAUSEGUARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete clauseguard configuration.
type Config struct {
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`
	Audit   AuditConfig   `json:"audit" mapstructure:"audit"`
	Log     LogConfig     `json:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string  `json:"addr" mapstructure:"addr"`
	Port      int     `json:"port" mapstructure:"port"`
	RateLimit float64 `json:"rate_limit" mapstructure:"rate_limit"` // requests per second per client, 0 disables
	Burst     int     `json:"burst" mapstructure:"burst"`

	// SessionTTL discards REST review sessions idle for longer than this.
	SessionTTL time.Duration `json:"session_ttl" mapstructure:"session_ttl"`
}

// CatalogConfig selects the clause knowledge base.
type CatalogConfig struct {
	Path string `json:"path" mapstructure:"path"` // empty uses the embedded catalog
}

// AuditConfig configures the review audit trail.
type AuditConfig struct {
	Path string `json:"path" mapstructure:"path"` // empty disables auditing
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// Listen returns the host:port the server binds to.
func (s ServerConfig) Listen() string {
	return fmt.Sprintf("%s:%d", s.Addr, s.Port)
}

// Load reads configuration. A missing config file is not an error; explicit
// paths that do not exist are.
func Load(path string) (*Config, error) {
	// Load .env first (ignore error if not present)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("clauseguard")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.clauseguard")
	}
	v.SetEnvPrefix("CLAUSEGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Catalog.Path = resolvePath(cfg.Catalog.Path)
	cfg.Audit.Path = resolvePath(cfg.Audit.Path)
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1", Port: 6142, RateLimit: 10, Burst: 20, SessionTTL: 30 * time.Minute},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.session_ttl", d.Server.SessionTTL)

	v.SetDefault("catalog.path", "")
	v.SetDefault("audit.path", "")

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// resolvePath expands a leading ~ to the user's home directory.
func resolvePath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
