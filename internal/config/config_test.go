package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Cache.Dir != "" {
		t.Errorf("expected empty Cache.Dir, got '%s'", config.Cache.Dir)
	}
	if config.Download.Timeout != 30*time.Second {
		t.Errorf("expected Timeout 30s, got %v", config.Download.Timeout)
	}
	if config.Download.UserAgent == "" {
		t.Error("expected a default UserAgent")
	}
	if config.Download.Concurrency != 4 {
		t.Errorf("expected Concurrency 4, got %d", config.Download.Concurrency)
	}
	if config.Download.HostRate != 4 {
		t.Errorf("expected HostRate 4, got %f", config.Download.HostRate)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
cache:
  dir: /srv/offleaf/assets

download:
  timeout: 10s
  user_agent: custom-agent/1.0
  concurrency: 8
  host_rate: 2
  host_burst: 1

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Cache.Dir != "/srv/offleaf/assets" {
		t.Errorf("expected Cache.Dir '/srv/offleaf/assets', got '%s'", config.Cache.Dir)
	}
	if config.Download.Timeout != 10*time.Second {
		t.Errorf("expected Timeout 10s, got %v", config.Download.Timeout)
	}
	if config.Download.UserAgent != "custom-agent/1.0" {
		t.Errorf("expected UserAgent 'custom-agent/1.0', got '%s'", config.Download.UserAgent)
	}
	if config.Download.Concurrency != 8 {
		t.Errorf("expected Concurrency 8, got %d", config.Download.Concurrency)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("logging:\n  level: trace\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Logging.Level != "trace" {
		t.Errorf("expected level 'trace', got '%s'", config.Logging.Level)
	}
	if config.Download.Timeout != 30*time.Second {
		t.Errorf("unset values should keep defaults, Timeout = %v", config.Download.Timeout)
	}
}

func TestLoadFromFileExpandsEnvVars(t *testing.T) {
	t.Setenv("OFFLEAF_TEST_BASE", "/data")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("cache:\n  dir: ${OFFLEAF_TEST_BASE}/assets\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if config.Cache.Dir != "/data/assets" {
		t.Errorf("expected '/data/assets', got '%s'", config.Cache.Dir)
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("cache: [not a mapping"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OFFLEAF_DIR", "/env/assets")
	t.Setenv("OFFLEAF_TIMEOUT", "5s")
	t.Setenv("OFFLEAF_CONCURRENCY", "2")
	t.Setenv("OFFLEAF_LOG_LEVEL", "debug")

	config := Default()
	applyEnvOverrides(config)

	if config.Cache.Dir != "/env/assets" {
		t.Errorf("expected '/env/assets', got '%s'", config.Cache.Dir)
	}
	if config.Download.Timeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", config.Download.Timeout)
	}
	if config.Download.Concurrency != 2 {
		t.Errorf("expected 2, got %d", config.Download.Concurrency)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected 'debug', got '%s'", config.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name            string
		mutate          func(*Config)
		wantErrContains string
	}{
		{
			name:   "default is valid",
			mutate: func(*Config) {},
		},
		{
			name:            "negative timeout",
			mutate:          func(c *Config) { c.Download.Timeout = -time.Second },
			wantErrContains: "timeout",
		},
		{
			name:            "zero concurrency",
			mutate:          func(c *Config) { c.Download.Concurrency = 0 },
			wantErrContains: "concurrency",
		},
		{
			name:            "negative host rate",
			mutate:          func(c *Config) { c.Download.HostRate = -1 },
			wantErrContains: "host_rate",
		},
		{
			name:            "bad log level",
			mutate:          func(c *Config) { c.Logging.Level = "verbose" },
			wantErrContains: "log level",
		},
		{
			name:   "empty log level allowed",
			mutate: func(c *Config) { c.Logging.Level = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErrContains == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErrContains) {
				t.Errorf("error %q should contain %q", err, tt.wantErrContains)
			}
		})
	}
}
