package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/debrief/offline-leaflet/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage offleaf configuration",
		Long: `View and modify offleaf configuration settings.

Configuration is stored in ~/.offleaf/config.yaml.

Examples:
  offleaf config list                        # Show all settings
  offleaf config get cache.dir               # Get a specific setting
  offleaf config set download.concurrency 8  # Set a setting`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(cfg)
			} else {
				fmt.Println("Configuration (~/.offleaf/config.yaml):")
				fmt.Println()
				fmt.Println("Cache Settings:")
				fmt.Printf("  cache.dir:             %s\n", valueOrDefault(cfg.Cache.Dir, "(default: ~/.offleaf/assets)"))
				fmt.Println()
				fmt.Println("Download Settings:")
				fmt.Printf("  download.timeout:      %v\n", cfg.Download.Timeout)
				fmt.Printf("  download.user_agent:   %s\n", cfg.Download.UserAgent)
				fmt.Printf("  download.concurrency:  %d\n", cfg.Download.Concurrency)
				fmt.Printf("  download.host_rate:    %.1f req/s\n", cfg.Download.HostRate)
				fmt.Printf("  download.host_burst:   %d\n", cfg.Download.HostBurst)
				fmt.Println()
				fmt.Println("Logging Settings:")
				fmt.Printf("  logging.level:         %s\n", valueOrDefault(cfg.Logging.Level, "(default: info)"))
			}

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"error": "key not found",
						"key":   key,
					})
				} else {
					fmt.Printf("Unknown configuration key: %s\n", key)
				}
				return nil
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			} else {
				fmt.Printf("%s = %v\n", key, value)
			}

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			value := args[1]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"error": err.Error(),
						"key":   key,
					})
				} else {
					fmt.Printf("Error: %v\n", err)
				}
				return nil
			}

			if err := saveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			} else {
				fmt.Printf("Set %s = %s\n", key, value)
			}

			return nil
		},
	}
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (interface{}, bool) {
	switch key {
	case "cache.dir":
		return cfg.Cache.Dir, true
	case "download.timeout":
		return cfg.Download.Timeout.String(), true
	case "download.user_agent":
		return cfg.Download.UserAgent, true
	case "download.concurrency":
		return cfg.Download.Concurrency, true
	case "download.host_rate":
		return cfg.Download.HostRate, true
	case "download.host_burst":
		return cfg.Download.HostBurst, true
	case "logging.level":
		return cfg.Logging.Level, true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "cache.dir":
		cfg.Cache.Dir = value
	case "download.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %s", value)
		}
		cfg.Download.Timeout = d
	case "download.user_agent":
		cfg.Download.UserAgent = value
	case "download.concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid concurrency: %s (must be a positive integer)", value)
		}
		cfg.Download.Concurrency = n
	case "download.host_rate":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid host_rate: %s (must be a non-negative number)", value)
		}
		cfg.Download.HostRate = f
	case "download.host_burst":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid host_burst: %s (must be a non-negative integer)", value)
		}
		cfg.Download.HostBurst = n
	case "logging.level":
		if value != "info" && value != "debug" && value != "trace" {
			return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", value)
		}
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// saveConfig writes the configuration to ~/.offleaf/config.yaml.
func saveConfig(cfg *config.Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	offleafDir := filepath.Join(homeDir, ".offleaf")
	if err := os.MkdirAll(offleafDir, 0700); err != nil {
		return fmt.Errorf("failed to create .offleaf directory: %w", err)
	}

	configPath := filepath.Join(offleafDir, "config.yaml")
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
