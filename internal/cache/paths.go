// Package cache manages the local asset directory and its download
// manifest.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDir is the environment variable that overrides the asset
// directory location.
const EnvDir = "OFFLEAF_DIR"

// DefaultDir returns the path to the default asset directory.
// On Unix: ~/.offleaf/assets
// On Windows: %USERPROFILE%\.offleaf\assets
func DefaultDir() (string, error) {
	if v := os.Getenv(EnvDir); v != "" {
		return v, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".offleaf", "assets"), nil
}

// EnsureDir creates dir if it doesn't exist. Returns nil if the
// directory already exists or was successfully created.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}
	return nil
}
