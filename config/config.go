// Package config loads the front-end configuration from an optional TOML
// file with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the complete front-end configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Backend BackendConfig `toml:"backend"`
	Session SessionConfig `toml:"session"`
	Debug   bool          `toml:"debug"`
}

// ServerConfig holds the listen address of the web front-end itself.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// BackendConfig points at the remote user-management API.
type BackendConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"-"`

	// Raw string value for TOML unmarshaling
	TimeoutRaw string `toml:"timeout"`
}

// SessionConfig controls the cookie that carries the backend credential
// between browser and front-end.
type SessionConfig struct {
	CookieName string `toml:"cookie_name"`
	Secure     bool   `toml:"secure"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":4000"},
		Backend: BackendConfig{BaseURL: "http://localhost:5000", Timeout: 15 * time.Second},
		Session: SessionConfig{CookieName: "adminfront_session", Secure: true},
	}
}

// Load reads the TOML file at path when it exists, then applies environment
// overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		}
	}

	if cfg.Backend.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.Backend.TimeoutRaw)
		if err != nil {
			return cfg, fmt.Errorf("config: backend.timeout: %w", err)
		}
		cfg.Backend.Timeout = d
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ADMINFRONT_ADDR")); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMINFRONT_BACKEND_URL")); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMINFRONT_BACKEND_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("ADMINFRONT_COOKIE_NAME")); v != "" {
		cfg.Session.CookieName = v
	}
	if v := os.Getenv("ADMINFRONT_COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Session.Secure = b
		}
	}
	if v := os.Getenv("ADMINFRONT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}

func (c Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("config: backend.base_url is required")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("config: backend.base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("config: session.cookie_name is required")
	}
	return nil
}
