package cache

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Entry is one downloaded asset in the manifest.
type Entry struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Component string    `json:"component"`
	SHA256    string    `json:"sha256"`
	Size      int64     `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Manifest records which assets have been downloaded, from where, and
// what their content hash was at download time. It lives alongside the
// asset files as manifest.db.
type Manifest struct {
	db *sql.DB
}

// OpenManifest opens (creating if needed) the manifest database in dir.
func OpenManifest(dir string) (*Manifest, error) {
	dbPath := filepath.Join(dir, "manifest.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS assets (
			url        TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			component  TEXT NOT NULL,
			sha256     TEXT NOT NULL,
			size       INTEGER NOT NULL,
			fetched_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_assets_component ON assets(component);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize manifest schema: %w", err)
	}

	return &Manifest{db: db}, nil
}

// Close closes the manifest database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// Record upserts an entry after a successful download.
func (m *Manifest) Record(ctx context.Context, e Entry) error {
	if e.URL == "" {
		return fmt.Errorf("manifest entry URL is required")
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO assets (url, filename, component, sha256, size, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			filename = excluded.filename,
			component = excluded.component,
			sha256 = excluded.sha256,
			size = excluded.size,
			fetched_at = excluded.fetched_at
	`, e.URL, e.Filename, e.Component, e.SHA256, e.Size, e.FetchedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record manifest entry: %w", err)
	}
	return nil
}

// List returns all entries, optionally filtered by component.
// An empty component returns everything, ordered by component then
// filename.
func (m *Manifest) List(ctx context.Context, component string) ([]Entry, error) {
	query := `SELECT url, filename, component, sha256, size, fetched_at FROM assets`
	args := []any{}
	if component != "" {
		query += ` WHERE component = ?`
		args = append(args, component)
	}
	query += ` ORDER BY component, filename`

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query manifest: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fetchedAt string
		if err := rows.Scan(&e.URL, &e.Filename, &e.Component, &e.SHA256, &e.Size, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manifest entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
			e.FetchedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry for url, or false when it was never recorded.
func (m *Manifest) Get(ctx context.Context, url string) (Entry, bool, error) {
	var e Entry
	var fetchedAt string
	err := m.db.QueryRowContext(ctx, `
		SELECT url, filename, component, sha256, size, fetched_at
		FROM assets WHERE url = ?
	`, url).Scan(&e.URL, &e.Filename, &e.Component, &e.SHA256, &e.Size, &fetchedAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to get manifest entry: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339, fetchedAt); perr == nil {
		e.FetchedAt = t
	}
	return e, true, nil
}

// Delete removes the entries for a component; an empty component
// removes everything. Returns the removed entries so callers can
// delete the files too.
func (m *Manifest) Delete(ctx context.Context, component string) ([]Entry, error) {
	entries, err := m.List(ctx, component)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM assets`
	args := []any{}
	if component != "" {
		query += ` WHERE component = ?`
		args = append(args, component)
	}
	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to delete manifest entries: %w", err)
	}
	return entries, nil
}
