package mcp

import (
	"time"

	"github.com/debrief/offline-leaflet/internal/download"
)

// GetInput defines the input for the offleaf_get tool.
type GetInput struct {
	Plugins []string `json:"plugins,omitempty" jsonschema:"Plugin names to download (e.g. 'heatmap' 'markercluster'). Core map assets are always included"`
	Force   bool     `json:"force,omitempty" jsonschema:"Re-download assets that are already cached (default: false)"`
}

// GetOutput defines the output for the offleaf_get tool.
type GetOutput struct {
	Summary download.Summary `json:"summary" jsonschema:"Download counts and failures"`
	Unknown []string         `json:"unknown,omitempty" jsonschema:"Plugin names not in the catalog (skipped)"`
	Dir     string           `json:"dir" jsonschema:"Asset directory assets were written to"`
	Message string           `json:"message" jsonschema:"Human-readable result message"`
}

// ListInput defines the input for the offleaf_list tool.
type ListInput struct {
	Cached bool `json:"cached,omitempty" jsonschema:"List cached assets from the manifest instead of available components (default: false)"`
}

// ListOutput defines the output for the offleaf_list tool.
type ListOutput struct {
	Components []ComponentItem `json:"components,omitempty" jsonschema:"Available components and their assets"`
	Cached     []CachedItem    `json:"cached,omitempty" jsonschema:"Assets recorded in the download manifest"`
	Count      int             `json:"count" jsonschema:"Number of items"`
}

// ComponentItem is the list view of a catalog component.
type ComponentItem struct {
	Name   string   `json:"name"`
	Assets []string `json:"assets"`
}

// CachedItem is the list view of one manifest entry.
type CachedItem struct {
	Filename  string    `json:"filename"`
	Component string    `json:"component"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ResolveInput defines the input for the offleaf_resolve tool.
type ResolveInput struct {
	URL string `json:"url" jsonschema:"Remote asset URL to resolve"`
}

// ResolveOutput defines the output for the offleaf_resolve tool.
type ResolveOutput struct {
	URL   string `json:"url" jsonschema:"The local path when cached, otherwise the input URL unchanged"`
	Local bool   `json:"local" jsonschema:"Whether a cached local copy was found"`
}

// RewriteInput defines the input for the offleaf_rewrite tool.
type RewriteInput struct {
	Path   string `json:"path" jsonschema:"HTML file to rewrite"`
	Output string `json:"output,omitempty" jsonschema:"Output path; empty rewrites the file in place"`
}

// RewriteOutput defines the output for the offleaf_rewrite tool.
type RewriteOutput struct {
	Rewritten int    `json:"rewritten" jsonschema:"References pointed at local files"`
	Kept      int    `json:"kept" jsonschema:"Remote references kept (no local copy)"`
	Path      string `json:"path" jsonschema:"Path of the rewritten file"`
}

// VerifyInput defines the input for the offleaf_verify tool.
type VerifyInput struct{}

// VerifyOutput defines the output for the offleaf_verify tool.
type VerifyOutput struct {
	OK       int          `json:"ok" jsonschema:"Cached files matching their recorded hash"`
	Missing  []CachedItem `json:"missing,omitempty" jsonschema:"Manifest entries whose file is gone"`
	Modified []CachedItem `json:"modified,omitempty" jsonschema:"Manifest entries whose file content drifted"`
}
