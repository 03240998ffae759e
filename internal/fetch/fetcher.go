// Package fetch downloads CDN assets to the local cache directory.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/debrief/offline-leaflet/internal/ratelimit"
)

// DefaultUserAgent identifies offleaf to CDNs. Some CDNs return 403
// to requests without a User-Agent.
const DefaultUserAgent = "offline-leaflet/0.1"

// Status describes the outcome of a single fetch.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Job is one asset to download.
type Job struct {
	URL       string // remote asset URL
	Dest      string // local file path to write
	Component string // owning component, for reporting
}

// Result is the outcome of one Job.
type Result struct {
	Job    Job
	Status Status
	SHA256 string // hex hash of the written file (downloaded only)
	Size   int64  // bytes written (downloaded only)
	Err    error  // set when Status is StatusFailed
}

// Fetcher downloads assets over HTTP. The zero value is not usable;
// use New.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	limiter     *ratelimit.Limiter
	concurrency int
	force       bool
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client (used by tests and proxies).
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithLimiter sets the per-host rate limiter. A nil limiter disables
// throttling.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithConcurrency bounds how many downloads run at once.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithForce makes Fetch overwrite files that already exist.
func WithForce(force bool) Option {
	return func(f *Fetcher) { f.force = force }
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher with a 30s timeout, default User-Agent and a
// concurrency of 4.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 30 * time.Second},
		userAgent:   DefaultUserAgent,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads a single asset to dest. When the destination file
// already exists and force is off, the download is skipped. The file
// is written via a temp file and renamed into place, so a failed or
// cancelled download never leaves a truncated asset behind.
func (f *Fetcher) Fetch(ctx context.Context, job Job) Result {
	if _, err := os.Stat(job.Dest); err == nil && !f.force {
		f.logger.Debug("asset already cached", "file", filepath.Base(job.Dest))
		return Result{Job: job, Status: StatusSkipped}
	}

	if host := hostOf(job.URL); host != "" {
		if err := f.limiter.Wait(ctx, host); err != nil {
			return Result{Job: job, Status: StatusFailed, Err: err}
		}
	}

	sum, size, err := f.download(ctx, job.URL, job.Dest)
	if err != nil {
		f.logger.Debug("download failed", "url", job.URL, "error", err)
		return Result{Job: job, Status: StatusFailed, Err: err}
	}

	f.logger.Debug("downloaded asset", "file", filepath.Base(job.Dest), "bytes", size)
	return Result{Job: job, Status: StatusDownloaded, SHA256: sum, Size: size}
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, fmt.Errorf("GET %s: unexpected status %s", rawURL, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", 0, fmt.Errorf("creating asset directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp*")
	if err != nil {
		return "", 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", dest, err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return "", 0, fmt.Errorf("moving %s into place: %w", dest, err)
	}

	return hex.EncodeToString(h.Sum(nil)), size, nil
}

// FetchAll downloads a set of jobs with bounded concurrency. One
// asset failing does not stop the others; per-job errors are reported
// in the returned results, which preserve job order.
func (f *Fetcher) FetchAll(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	seen := make(map[string]bool)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, job := range jobs {
		// De-duplicate by URL: the same asset can belong to several
		// components.
		if seen[job.URL] {
			results[i] = Result{Job: job, Status: StatusSkipped}
			continue
		}
		seen[job.URL] = true

		g.Go(func() error {
			results[i] = f.Fetch(ctx, job)
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()
	return results
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
