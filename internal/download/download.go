// Package download orchestrates fetching cataloged components into
// the local cache: it expands component names to asset jobs, runs the
// fetcher, and records successful downloads in the cache manifest.
package download

import (
	"context"
	"log/slog"
	"time"

	"github.com/debrief/offline-leaflet/internal/cache"
	"github.com/debrief/offline-leaflet/internal/catalog"
	"github.com/debrief/offline-leaflet/internal/fetch"
)

// Downloader wires the fetcher to the cache.
type Downloader struct {
	cache   *cache.Cache
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// New creates a Downloader.
func New(c *cache.Cache, f *fetch.Fetcher, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{cache: c, fetcher: f, logger: logger}
}

// Failure pairs a failed job with its error, for reporting.
type Failure struct {
	URL       string `json:"url"`
	Component string `json:"component"`
	Error     string `json:"error"`
}

// Summary aggregates the outcome of one download run.
type Summary struct {
	Downloaded int       `json:"downloaded"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Failures   []Failure `json:"failures,omitempty"`
}

// Expand resolves plugin names to components. The core map component
// is always first. Unknown names are returned separately so the CLI
// can warn and continue; a caller wanting strict behavior treats a
// non-empty unknown slice as an error.
func Expand(pluginNames []string) (components []catalog.Component, unknown []string) {
	components = append(components, catalog.CoreComponent())
	seen := map[string]bool{catalog.Core: true}

	for _, name := range pluginNames {
		c, err := catalog.Lookup(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		components = append(components, c)
	}
	return components, unknown
}

// Jobs builds the fetch jobs for a set of components. URLs without a
// usable basename are skipped with a warning; the catalog should never
// contain one.
func (d *Downloader) Jobs(components []catalog.Component) []fetch.Job {
	var jobs []fetch.Job
	for _, c := range components {
		for _, a := range c.Assets() {
			dest, err := d.cache.Path(a.URL)
			if err != nil {
				d.logger.Warn("skipping asset with unusable URL", "component", c.Name, "url", a.URL, "error", err)
				continue
			}
			jobs = append(jobs, fetch.Job{URL: a.URL, Dest: dest, Component: c.Name})
		}
	}
	return jobs
}

// Run downloads the jobs and records each successful download in the
// manifest. One asset failing does not stop the rest.
func (d *Downloader) Run(ctx context.Context, jobs []fetch.Job) (Summary, []fetch.Result, error) {
	results := d.fetcher.FetchAll(ctx, jobs)

	var summary Summary
	for _, r := range results {
		switch r.Status {
		case fetch.StatusDownloaded:
			summary.Downloaded++
			name, err := catalog.Basename(r.Job.URL)
			if err != nil {
				continue
			}
			entry := cache.Entry{
				URL:       r.Job.URL,
				Filename:  name,
				Component: r.Job.Component,
				SHA256:    r.SHA256,
				Size:      r.Size,
				FetchedAt: time.Now().UTC(),
			}
			if err := d.cache.Manifest().Record(ctx, entry); err != nil {
				// The file is on disk and usable; a manifest miss only
				// degrades list/verify, so report and keep going.
				d.logger.Warn("failed to record download in manifest", "url", r.Job.URL, "error", err)
			}
		case fetch.StatusSkipped:
			summary.Skipped++
		case fetch.StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				URL:       r.Job.URL,
				Component: r.Job.Component,
				Error:     r.Err.Error(),
			})
		}
	}
	return summary, results, nil
}

// Components is the full pipeline: expand plugin names, build jobs,
// download, record. Unknown plugin names are returned for the caller
// to report; they do not abort the run.
func (d *Downloader) Components(ctx context.Context, pluginNames []string) (Summary, []string, error) {
	components, unknown := Expand(pluginNames)
	summary, _, err := d.Run(ctx, d.Jobs(components))
	return summary, unknown, err
}
