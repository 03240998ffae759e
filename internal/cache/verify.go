package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// VerifyStatus classifies one manifest entry against the file on disk.
type VerifyStatus string

const (
	VerifyOK       VerifyStatus = "ok"
	VerifyMissing  VerifyStatus = "missing"
	VerifyModified VerifyStatus = "modified"
)

// VerifyResult is the outcome of checking one cached asset.
type VerifyResult struct {
	Entry  Entry        `json:"entry"`
	Status VerifyStatus `json:"status"`
}

// HashFile returns the hex-encoded SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify re-hashes every cached file the manifest knows about and
// reports files that are missing or whose content has drifted since
// download.
func (c *Cache) Verify(ctx context.Context) ([]VerifyResult, error) {
	entries, err := c.manifest.List(ctx, "")
	if err != nil {
		return nil, err
	}

	results := make([]VerifyResult, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(c.dir, e.Filename)

		sum, err := HashFile(path)
		switch {
		case os.IsNotExist(err):
			results = append(results, VerifyResult{Entry: e, Status: VerifyMissing})
		case err != nil:
			return nil, err
		case sum != e.SHA256:
			results = append(results, VerifyResult{Entry: e, Status: VerifyModified})
		default:
			results = append(results, VerifyResult{Entry: e, Status: VerifyOK})
		}
	}
	return results, nil
}

// Purge removes the cached files for a component (empty component:
// all components) along with their manifest rows. Files already gone
// are not an error. Returns the number of files actually removed.
func (c *Cache) Purge(ctx context.Context, component string) (int, error) {
	entries, err := c.manifest.Delete(ctx, component)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		path := filepath.Join(c.dir, e.Filename)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}
