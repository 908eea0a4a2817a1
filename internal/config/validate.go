package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server address cannot be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return errors.New("server rate_limit cannot be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return errors.New("server burst must be at least 1 when rate limiting is enabled")
	}
	if c.Server.SessionTTL < time.Second {
		return fmt.Errorf("server session_ttl %s is too short", c.Server.SessionTTL)
	}

	if !contains(validLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level %q (want one of %s)", c.Log.Level, strings.Join(validLevels, ", "))
	}
	if !contains(validFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("invalid log format %q (want one of %s)", c.Log.Format, strings.Join(validFormats, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
