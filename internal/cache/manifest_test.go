package cache

import (
	"context"
	"testing"
	"time"
)

func testEntry(url, filename, component string) Entry {
	return Entry{
		URL:       url,
		Filename:  filename,
		Component: component,
		SHA256:    "deadbeef",
		Size:      42,
		FetchedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestManifestRecordAndGet(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	e := testEntry("https://cdn.example.com/leaflet.js", "leaflet.js", "map")
	if err := c.Manifest().Record(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Manifest().Get(ctx, e.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to exist")
	}
	if got.Filename != e.Filename || got.Component != e.Component || got.SHA256 != e.SHA256 || got.Size != e.Size {
		t.Errorf("got %+v, want %+v", got, e)
	}
	if !got.FetchedAt.Equal(e.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, e.FetchedAt)
	}
}

func TestManifestGetMissing(t *testing.T) {
	c := openTestCache(t)

	_, ok, err := c.Manifest().Get(context.Background(), "https://cdn.example.com/nope.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected entry to be missing")
	}
}

func TestManifestRecordUpsertsOnSameURL(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	e := testEntry("https://cdn.example.com/leaflet.js", "leaflet.js", "map")
	if err := c.Manifest().Record(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.SHA256 = "cafef00d"
	e.Size = 99
	if err := c.Manifest().Record(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := c.Manifest().List(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].SHA256 != "cafef00d" || entries[0].Size != 99 {
		t.Errorf("entry not updated: %+v", entries[0])
	}
}

func TestManifestRecordRequiresURL(t *testing.T) {
	c := openTestCache(t)

	err := c.Manifest().Record(context.Background(), Entry{Filename: "leaflet.js"})
	if err == nil {
		t.Fatal("expected error for entry without URL")
	}
}

func TestManifestListFiltersByComponent(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	entries := []Entry{
		testEntry("https://cdn.example.com/leaflet.js", "leaflet.js", "map"),
		testEntry("https://cdn.example.com/leaflet.css", "leaflet.css", "map"),
		testEntry("https://cdn.example.com/leaflet_heat.min.js", "leaflet_heat.min.js", "heatmap"),
	}
	for _, e := range entries {
		if err := c.Manifest().Record(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	heat, err := c.Manifest().List(ctx, "heatmap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(heat) != 1 || heat[0].Filename != "leaflet_heat.min.js" {
		t.Errorf("heatmap list = %+v, want single leaflet_heat.min.js entry", heat)
	}

	all, err := c.Manifest().List(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d entries, want 3", len(all))
	}
}

func TestManifestDeleteByComponent(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Manifest().Record(ctx, testEntry("https://cdn.example.com/leaflet.js", "leaflet.js", "map")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Manifest().Record(ctx, testEntry("https://cdn.example.com/leaflet_heat.min.js", "leaflet_heat.min.js", "heatmap")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	removed, err := c.Manifest().Delete(ctx, "heatmap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removed) != 1 || removed[0].Component != "heatmap" {
		t.Errorf("removed = %+v, want single heatmap entry", removed)
	}

	rest, err := c.Manifest().List(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rest) != 1 || rest[0].Component != "map" {
		t.Errorf("remaining = %+v, want single map entry", rest)
	}
}
