package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/sidestatus/internal/daemon"
	"github.com/danieljhkim/sidestatus/internal/fsops"
)

// ErrInvalidConfig indicates a config value failed validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the contents of config.yaml.
type Config struct {
	// BaseURL is the daemon API root.
	BaseURL string `yaml:"baseURL"`

	// ConnectTimeout bounds connecting to the daemon.
	ConnectTimeout time.Duration `yaml:"connectTimeout"`

	Log LogConfig `yaml:"log"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Development selects the colored console encoder instead of JSON.
	Development bool `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:        daemon.DefaultBaseURL,
		ConnectTimeout: daemon.DefaultConnectTimeout,
		Log: LogConfig{
			Level:       "warn",
			Development: true,
		},
	}
}

// Load reads the config file at path on top of the defaults.
// A missing file is not an error.
func Load(fs fsops.FS, path string) (*Config, error) {
	cfg := Default()

	exists, err := fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file: %w", err)
	}
	if !exists {
		return cfg, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(fs fsops.FS, path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(BaseURLEnvKey); v != "" {
		c.BaseURL = v
	}
}

// Validate checks that the config can be used to reach the daemon.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: baseURL %q: %v", ErrInvalidConfig, c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: baseURL %q must use http or https", ErrInvalidConfig, c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: baseURL %q has no host", ErrInvalidConfig, c.BaseURL)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("%w: connectTimeout must be positive, got %s", ErrInvalidConfig, c.ConnectTimeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}
