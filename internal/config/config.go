package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
)

const (
	// DefaultFetchLimit matches the page size the web client uses.
	DefaultFetchLimit = 20
	// MaxFetchLimit is the largest page the API accepts.
	MaxFetchLimit = 50
)

type Config struct {
	Instance       string  `yaml:"instance"        env:"LEMMYTERM_INSTANCE"`
	Username       string  `yaml:"username"        env:"LEMMYTERM_USERNAME"`
	FetchLimit     int     `yaml:"fetch_limit"     env:"LEMMYTERM_FETCH_LIMIT"`
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"LEMMYTERM_TIMEOUT_SECONDS"`
	RatePerSecond  float64 `yaml:"rate_per_second" env:"LEMMYTERM_RATE_PER_SECOND"`
	DBPath         string  `yaml:"db_path"         env:"LEMMYTERM_DB_PATH"`
	LogPath        string  `yaml:"log_path"        env:"LEMMYTERM_LOG_PATH"`
	Debug          bool    `yaml:"debug"           env:"LEMMYTERM_DEBUG"`
}

// Dir returns ~/.config/lemmyterm.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lemmyterm"), nil
}

// Default returns the configuration used when no file or environment
// overrides are present. Paths are rooted at dir.
func Default(dir string) Config {
	return Config{
		FetchLimit:     DefaultFetchLimit,
		TimeoutSeconds: 15,
		RatePerSecond:  2,
		DBPath:         filepath.Join(dir, "lemmyterm.db"),
		LogPath:        filepath.Join(dir, "lemmyterm.log"),
	}
}

// Load layers the YAML file at path (optional) and LEMMYTERM_* environment
// variables over Default(dir).
func Load(path, dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) normalize() error {
	if c.Instance != "" {
		inst, err := NormalizeInstance(c.Instance)
		if err != nil {
			return err
		}
		c.Instance = inst
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = DefaultFetchLimit
	}
	if c.FetchLimit > MaxFetchLimit {
		c.FetchLimit = MaxFetchLimit
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
	if c.RatePerSecond < 0 {
		c.RatePerSecond = 0
	}
	return nil
}

// NormalizeInstance accepts "lemmy.ml", "https://lemmy.ml/" and similar and
// returns the base URL without a trailing slash.
func NormalizeInstance(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("instance cannot be empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid instance URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid instance URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid instance URL %q: missing host", raw)
	}
	return u.Scheme + "://" + u.Host + strings.TrimRight(u.Path, "/"), nil
}
