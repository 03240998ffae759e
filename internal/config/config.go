// Package config provides unified configuration loading for offleaf.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all offleaf configuration settings.
type Config struct {
	// Cache contains settings for the local asset directory.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Download contains settings for CDN downloads.
	Download DownloadConfig `json:"download" yaml:"download"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// CacheConfig configures where downloaded assets live.
type CacheConfig struct {
	// Dir is the asset directory. Empty means the default
	// (~/.offleaf/assets). Supports ${VAR} syntax for env vars.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// DownloadConfig configures the HTTP download engine.
type DownloadConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// UserAgent is sent with every asset request. Some CDNs reject
	// requests without one.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`

	// Concurrency bounds how many downloads run at once.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// HostRate is the per-host request rate in requests/second.
	// Zero disables throttling.
	HostRate float64 `json:"host_rate,omitempty" yaml:"host_rate,omitempty"`

	// HostBurst is the per-host burst size for the rate limiter.
	HostBurst int `json:"host_burst,omitempty" yaml:"host_burst,omitempty"`
}

// LoggingConfig configures offleaf's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Dir: "",
		},
		Download: DownloadConfig{
			Timeout:     30 * time.Second,
			UserAgent:   "offline-leaflet/0.1",
			Concurrency: 4,
			HostRate:    4,
			HostBurst:   2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.offleaf/config.yaml -> environment
// variables.
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".offleaf", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in the cache dir
	config.Cache.Dir = expandEnvVars(config.Cache.Dir)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Download.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Download.Timeout)
	}

	if c.Download.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Download.Concurrency)
	}

	if c.Download.HostRate < 0 {
		return fmt.Errorf("host_rate must be non-negative, got %f", c.Download.HostRate)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("OFFLEAF_DIR"); v != "" {
		config.Cache.Dir = v
	}

	if v := os.Getenv("OFFLEAF_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Download.Timeout = d
		}
	}

	if v := os.Getenv("OFFLEAF_USER_AGENT"); v != "" {
		config.Download.UserAgent = v
	}

	if v := os.Getenv("OFFLEAF_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Download.Concurrency = n
		}
	}

	if v := os.Getenv("OFFLEAF_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
