package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debrief/offline-leaflet/internal/cache"
	"github.com/debrief/offline-leaflet/internal/catalog"
	"github.com/debrief/offline-leaflet/internal/fetch"
	"github.com/debrief/offline-leaflet/internal/logging"
)

func newTestDownloader(t *testing.T, client *http.Client) (*Downloader, *cache.Cache) {
	t.Helper()
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	var opts []fetch.Option
	if client != nil {
		opts = append(opts, fetch.WithClient(client))
	}
	logger := logging.NewLogger("info", &strings.Builder{})
	return New(c, fetch.New(opts...), logger), c
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name        string
		plugins     []string
		wantNames   []string
		wantUnknown []string
	}{
		{
			name:      "no plugins still includes core",
			plugins:   nil,
			wantNames: []string{"map"},
		},
		{
			name:      "plugins follow core",
			plugins:   []string{"heatmap", "draw"},
			wantNames: []string{"map", "heatmap", "draw"},
		},
		{
			name:      "duplicates collapse",
			plugins:   []string{"heatmap", "HeatMap"},
			wantNames: []string{"map", "heatmap"},
		},
		{
			name:        "unknown names reported, known ones kept",
			plugins:     []string{"heatmap", "streetview"},
			wantNames:   []string{"map", "heatmap"},
			wantUnknown: []string{"streetview"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components, unknown := Expand(tt.plugins)

			var names []string
			for _, c := range components {
				names = append(names, c.Name)
			}
			if len(names) != len(tt.wantNames) {
				t.Fatalf("components = %v, want %v", names, tt.wantNames)
			}
			for i := range names {
				if names[i] != tt.wantNames[i] {
					t.Errorf("components = %v, want %v", names, tt.wantNames)
					break
				}
			}

			if len(unknown) != len(tt.wantUnknown) {
				t.Fatalf("unknown = %v, want %v", unknown, tt.wantUnknown)
			}
			for i := range unknown {
				if unknown[i] != tt.wantUnknown[i] {
					t.Errorf("unknown = %v, want %v", unknown, tt.wantUnknown)
				}
			}
		})
	}
}

func TestJobsCoverComponentAssets(t *testing.T) {
	d, c := newTestDownloader(t, nil)

	components, _ := Expand([]string{"markercluster"})
	jobs := d.Jobs(components)

	core := catalog.CoreComponent()
	mc, _ := catalog.Lookup("markercluster")
	want := len(core.Assets()) + len(mc.Assets())
	if len(jobs) != want {
		t.Fatalf("got %d jobs, want %d", len(jobs), want)
	}

	for _, job := range jobs {
		if filepath.Dir(job.Dest) != c.Dir() {
			t.Errorf("job dest %q not under cache dir %q", job.Dest, c.Dir())
		}
		if job.Component == "" {
			t.Errorf("job for %s missing component", job.URL)
		}
	}
}

func TestRunRecordsManifestForDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("asset body"))
	}))
	defer srv.Close()

	d, c := newTestDownloader(t, srv.Client())
	ctx := context.Background()

	jobs := []fetch.Job{
		{URL: srv.URL + "/leaflet.js", Dest: filepath.Join(c.Dir(), "leaflet.js"), Component: "map"},
		{URL: srv.URL + "/broken.css", Dest: filepath.Join(c.Dir(), "broken.css"), Component: "map"},
	}

	summary, results, err := d.Run(ctx, jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if summary.Downloaded != 1 || summary.Failed != 1 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want 1 downloaded / 1 failed", summary)
	}
	if len(summary.Failures) != 1 || !strings.Contains(summary.Failures[0].Error, "404") {
		t.Errorf("failures = %+v, want one 404", summary.Failures)
	}

	entry, ok, err := c.Manifest().Get(ctx, srv.URL+"/leaflet.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("downloaded asset should be in the manifest")
	}
	if entry.Filename != "leaflet.js" || entry.Component != "map" || entry.Size != int64(len("asset body")) {
		t.Errorf("manifest entry = %+v", entry)
	}

	if _, ok, _ := c.Manifest().Get(ctx, srv.URL+"/broken.css"); ok {
		t.Error("failed download must not be recorded in the manifest")
	}
}

func TestRunContinuesWhenManifestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("asset body"))
	}))
	defer srv.Close()

	d, c := newTestDownloader(t, srv.Client())
	ctx := context.Background()

	jobs := []fetch.Job{
		{URL: srv.URL + "/leaflet.js", Dest: filepath.Join(c.Dir(), "leaflet.js"), Component: "map"},
		{URL: srv.URL + "/jquery.min.js", Dest: filepath.Join(c.Dir(), "jquery.min.js"), Component: "map"},
	}

	// With the manifest gone the recording step fails for every asset,
	// but the files still land on disk and the run reports them all.
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, results, err := d.Run(ctx, jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if summary.Downloaded != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 2 downloaded", summary)
	}
}

func TestRunSecondPassSkips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("asset body"))
	}))
	defer srv.Close()

	d, c := newTestDownloader(t, srv.Client())
	ctx := context.Background()

	jobs := []fetch.Job{
		{URL: srv.URL + "/leaflet.js", Dest: filepath.Join(c.Dir(), "leaflet.js"), Component: "map"},
	}

	if _, _, err := d.Run(ctx, jobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, _, err := d.Run(ctx, jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Skipped != 1 || summary.Downloaded != 0 {
		t.Errorf("summary = %+v, want 1 skipped", summary)
	}
}
