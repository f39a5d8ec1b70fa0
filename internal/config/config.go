package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Auth      AuthConfig      `yaml:"auth"`
	Fetch     FetchConfig     `yaml:"fetch"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// FetchConfig tunes the fetch coordinator.
type FetchConfig struct {
	// Timezone is the IANA zone for day boundaries, e.g. "America/Denver".
	// Empty means UTC.
	Timezone string `yaml:"timezone"`

	// BackfillDays is the historical window fetched in the background.
	BackfillDays int `yaml:"backfill_days"`

	// SessionGapSeconds is the largest gap between sleep observations that
	// still belongs to one session.
	SessionGapSeconds int `yaml:"session_gap_seconds"`

	// TrustedSources lists the recording sources whose sleep stages are
	// believed. Empty trusts nothing.
	TrustedSources []string `yaml:"trusted_sources"`

	// LedgerDir holds the persistent fetched-day ledger. Empty keeps the
	// ledger in memory only.
	LedgerDir string `yaml:"ledger_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Location resolves the configured time zone.
func (f FetchConfig) Location() (*time.Location, error) {
	if f.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", f.Timezone, err)
	}
	return loc, nil
}

// SessionGap returns the sleep session gap as a duration, zero when unset
// so the segmenter applies its default.
func (f FetchConfig) SessionGap() time.Duration {
	return time.Duration(f.SessionGapSeconds) * time.Second
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix HEALTHBOARD_ and underscore-separated paths:
//
//	HEALTHBOARD_SERVER_HOST, HEALTHBOARD_SERVER_PORT,
//	HEALTHBOARD_DB_HOST, HEALTHBOARD_DB_PORT, HEALTHBOARD_DB_NAME,
//	HEALTHBOARD_DB_USER, HEALTHBOARD_DB_PASSWORD, HEALTHBOARD_DB_SSLMODE,
//	HEALTHBOARD_TS_ENABLED, HEALTHBOARD_TS_HOSTNAME, HEALTHBOARD_TS_STATE_DIR,
//	HEALTHBOARD_AUTH_API_KEY,
//	HEALTHBOARD_FETCH_TIMEZONE, HEALTHBOARD_FETCH_BACKFILL_DAYS,
//	HEALTHBOARD_FETCH_TRUSTED_SOURCES (comma-separated), HEALTHBOARD_FETCH_LEDGER_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEALTHBOARD_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HEALTHBOARD_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HEALTHBOARD_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("HEALTHBOARD_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("HEALTHBOARD_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("HEALTHBOARD_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("HEALTHBOARD_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("HEALTHBOARD_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("HEALTHBOARD_TS_ENABLED"); v != "" {
		cfg.Tailscale.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("HEALTHBOARD_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("HEALTHBOARD_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("HEALTHBOARD_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("HEALTHBOARD_FETCH_TIMEZONE"); v != "" {
		cfg.Fetch.Timezone = v
	}
	if v := os.Getenv("HEALTHBOARD_FETCH_BACKFILL_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.BackfillDays = days
		}
	}
	if v := os.Getenv("HEALTHBOARD_FETCH_TRUSTED_SOURCES"); v != "" {
		var sources []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		cfg.Fetch.TrustedSources = sources
	}
	if v := os.Getenv("HEALTHBOARD_FETCH_LEDGER_DIR"); v != "" {
		cfg.Fetch.LedgerDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Fetch.BackfillDays < 0 {
		return fmt.Errorf("fetch.backfill_days must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
