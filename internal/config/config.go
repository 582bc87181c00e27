// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "WINSNAP"

// Config holds all runtime configuration. Persisted user settings
// (auto-save, exclusions) live in settings.json instead. The sub-configs
// are embedded so their variables keep the bare WINSNAP_ prefix.
type Config struct {
	DataDir   string `envconfig:"DATA_DIR"`
	SelfTitle string `envconfig:"SELF_TITLE" default:"Workspace Manager"`
	LogConfig
	RestoreConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE"`
}

// RestoreConfig holds restore timing.
type RestoreConfig struct {
	SettleDelay time.Duration `envconfig:"SETTLE_DELAY" default:"2s"`
	RetryDelay  time.Duration `envconfig:"RETRY_DELAY" default:"1s"`
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"5"`
}

// Load loads configuration from WINSNAP_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		SelfTitle: "Workspace Manager",
		LogConfig: LogConfig{
			Level: "info",
		},
		RestoreConfig: RestoreConfig{
			SettleDelay: 2 * time.Second,
			RetryDelay:  1 * time.Second,
			MaxAttempts: 5,
		},
	}
	_ = cfg.resolve()
	return cfg
}

func (c *Config) resolve() error {
	if c.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("failed to locate config directory: %w", err)
		}
		c.DataDir = filepath.Join(base, "winsnap")
	}
	dir, err := expandHome(c.DataDir)
	if err != nil {
		return err
	}
	c.DataDir = filepath.Clean(dir)

	if c.LogConfig.File != "" {
		if c.LogConfig.File, err = expandHome(c.LogConfig.File); err != nil {
			return err
		}
	}
	if c.RestoreConfig.MaxAttempts <= 0 {
		return fmt.Errorf("%s_MAX_ATTEMPTS must be positive, got %d", Prefix, c.RestoreConfig.MaxAttempts)
	}
	if c.RestoreConfig.SettleDelay < 0 || c.RestoreConfig.RetryDelay < 0 {
		return fmt.Errorf("restore delays must not be negative")
	}
	return nil
}

// WorkspacesDir is where snapshot files are stored.
func (c *Config) WorkspacesDir() string {
	return filepath.Join(c.DataDir, "workspaces")
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, path[1:]), nil
}
