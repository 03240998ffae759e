package cache

import (
	"os"
	"path/filepath"

	"github.com/debrief/offline-leaflet/internal/catalog"
)

// Cache is a flat directory of downloaded assets, keyed by the URL
// basename, plus a manifest recording where each file came from.
type Cache struct {
	dir      string
	manifest *Manifest
}

// Open opens (creating if needed) the cache rooted at dir. When dir is
// empty the default directory is used.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	manifest, err := OpenManifest(dir)
	if err != nil {
		return nil, err
	}

	return &Cache{dir: dir, manifest: manifest}, nil
}

// Close releases the manifest database.
func (c *Cache) Close() error {
	return c.manifest.Close()
}

// Dir returns the cache's asset directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Manifest returns the cache's download manifest.
func (c *Cache) Manifest() *Manifest {
	return c.manifest
}

// Path returns the local path an asset URL would be stored at,
// whether or not the file exists.
func (c *Cache) Path(url string) (string, error) {
	name, err := catalog.Basename(url)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, name), nil
}

// Resolve maps a remote URL to a local file path. The second return
// is false when the URL is not remote, has no usable basename, or the
// file has not been downloaded: callers fall back to the remote URL.
// Resolution keys on file existence, not the manifest, so a manually
// placed file works and a manually deleted one stops resolving.
func (c *Cache) Resolve(url string) (string, bool) {
	if !catalog.IsRemote(url) {
		return "", false
	}
	local, err := c.Path(url)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(local); err != nil {
		return "", false
	}
	return local, true
}
