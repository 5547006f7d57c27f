package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures environment driven configuration values for the conference
// hub service.
type Config struct {
	HTTPPort   int           `env:"CONFHUB_HTTP_PORT" envDefault:"8080"`
	SQLiteDSN  string        `env:"CONFHUB_SQLITE_DSN" envDefault:"file:confhub.db?_foreign_keys=on"`
	EventName  string        `env:"CONFHUB_EVENT_NAME"`
	SessionTTL time.Duration `env:"CONFHUB_SESSION_TTL" envDefault:"24h"`
	CacheTTL   time.Duration `env:"CONFHUB_CACHE_TTL" envDefault:"30s"`
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields and validates the
// parsed values, reporting every invalid entry in a single error.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	invalid := make([]string, 0, 2)
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, "CONFHUB_HTTP_PORT")
	}
	if strings.TrimSpace(cfg.SQLiteDSN) == "" {
		invalid = append(invalid, "CONFHUB_SQLITE_DSN")
	}
	if cfg.SessionTTL <= 0 {
		invalid = append(invalid, "CONFHUB_SESSION_TTL")
	}
	if cfg.CacheTTL <= 0 {
		invalid = append(invalid, "CONFHUB_CACHE_TTL")
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
