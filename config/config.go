// Package config loads the host configuration from defaults, an
// optional YAML file and ZAMANAK_-prefixed environment variables, in
// that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/zamanak-app/zamanak/internal/domain"
)

type Config struct {
	DatabasePath  string         `koanf:"database_path"`
	Timezone      string         `koanf:"timezone"`
	PollInterval  time.Duration  `koanf:"poll_interval"`
	DefaultAnchor string         `koanf:"default_anchor"`
	OwnerID       string         `koanf:"owner_id"`
	Log           LogConfig      `koanf:"log"`
	Telegram      TelegramConfig `koanf:"telegram"`
	CalDAV        CalDAVConfig   `koanf:"caldav"`

	location *time.Location
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type TelegramConfig struct {
	Token  string `koanf:"token"`
	ChatID int64  `koanf:"chat_id"`
}

type CalDAVConfig struct {
	URL      string `koanf:"url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Calendar string `koanf:"calendar"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"database_path":  "./data/zamanak.db",
		"timezone":       "Asia/Tehran",
		"poll_interval":  "30s",
		"default_anchor": "09:00",
		"owner_id":       "local",
		"log.level":      "info",
	}
}

// Load reads the configuration. configPath may be empty or point to a
// YAML file; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	// ZAMANAK_TELEGRAM_TOKEN -> telegram.token
	if err := k.Load(env.Provider("ZAMANAK_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "ZAMANAK_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// Keys whose names contain an underscore cannot round-trip through
	// the generic mapping above.
	underscoreKeys := map[string]string{
		"ZAMANAK_TELEGRAM_CHAT_ID": "telegram.chat_id",
		"ZAMANAK_DATABASE_PATH":    "database_path",
		"ZAMANAK_OWNER_ID":         "owner_id",
		"ZAMANAK_POLL_INTERVAL":    "poll_interval",
		"ZAMANAK_DEFAULT_ANCHOR":   "default_anchor",
	}
	for envVar, key := range underscoreKeys {
		if v := os.Getenv(envVar); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("set %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if _, err := domain.ParseClock(cfg.DefaultAnchor); err != nil {
		return nil, fmt.Errorf("invalid default_anchor: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive")
	}

	return &cfg, nil
}

// Location returns the resolved timezone.
func (c *Config) Location() *time.Location {
	return c.location
}

// Anchor returns the parsed default anchor clock.
func (c *Config) Anchor() domain.Clock {
	clock, _ := domain.ParseClock(c.DefaultAnchor)
	return clock
}
