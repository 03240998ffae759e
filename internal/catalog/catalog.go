// Package catalog is the static registry of CDN assets used by
// Leaflet-based map HTML. It maps component names (the core map plus
// optional plugins) to the JavaScript and CSS files those components
// load from content-delivery networks.
package catalog

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// Asset is a single remote JavaScript or CSS reference.
type Asset struct {
	// Name is the logical name the map HTML knows the asset by
	// (e.g. "leaflet", "leaflet_heat_js").
	Name string `json:"name"`

	// URL is the remote location the asset is normally loaded from.
	URL string `json:"url"`
}

// Component groups the assets of the core map or one plugin.
type Component struct {
	// Name is the component key used on the command line ("map",
	// "heatmap", "draw", ...).
	Name string `json:"name"`

	// JS and CSS list the component's remote assets in the order the
	// generated HTML references them.
	JS  []Asset `json:"js"`
	CSS []Asset `json:"css"`
}

// Assets returns the component's JS and CSS assets as one slice,
// JS first, preserving order.
func (c Component) Assets() []Asset {
	out := make([]Asset, 0, len(c.JS)+len(c.CSS))
	out = append(out, c.JS...)
	out = append(out, c.CSS...)
	return out
}

// Core is the name of the always-included map component.
const Core = "map"

// components holds the full registry. URLs are pinned to the versions
// the upstream map templates reference; a new template version means
// updating this table.
var components = map[string]Component{
	Core: {
		Name: Core,
		JS: []Asset{
			{Name: "leaflet", URL: "https://cdn.jsdelivr.net/npm/leaflet@1.9.3/dist/leaflet.js"},
			{Name: "jquery", URL: "https://code.jquery.com/jquery-3.7.1.min.js"},
			{Name: "bootstrap", URL: "https://cdn.jsdelivr.net/npm/bootstrap@5.2.2/dist/js/bootstrap.bundle.min.js"},
			{Name: "awesome_markers", URL: "https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.js"},
		},
		CSS: []Asset{
			{Name: "leaflet_css", URL: "https://cdn.jsdelivr.net/npm/leaflet@1.9.3/dist/leaflet.css"},
			{Name: "bootstrap_css", URL: "https://cdn.jsdelivr.net/npm/bootstrap@5.2.2/dist/css/bootstrap.min.css"},
			{Name: "glyphicons_css", URL: "https://netdna.bootstrapcdn.com/bootstrap/3.0.0/css/bootstrap-glyphicons.css"},
			{Name: "awesome_markers_font_css", URL: "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.2.0/css/all.min.css"},
			{Name: "awesome_markers_css", URL: "https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.css"},
			{Name: "awesome_rotate_css", URL: "https://cdn.jsdelivr.net/gh/python-visualization/folium/folium/templates/leaflet.awesome.rotate.min.css"},
		},
	},
	"heatmap": {
		Name: "heatmap",
		JS: []Asset{
			{Name: "leaflet_heat_js", URL: "https://cdn.jsdelivr.net/gh/python-visualization/folium@main/folium/templates/leaflet_heat.min.js"},
		},
	},
	"markercluster": {
		Name: "markercluster",
		JS: []Asset{
			{Name: "markercluster_js", URL: "https://cdnjs.cloudflare.com/ajax/libs/leaflet.markercluster/1.5.3/leaflet.markercluster.js"},
		},
		CSS: []Asset{
			{Name: "markercluster_css", URL: "https://cdnjs.cloudflare.com/ajax/libs/leaflet.markercluster/1.5.3/MarkerCluster.css"},
			{Name: "markercluster_default_css", URL: "https://cdnjs.cloudflare.com/ajax/libs/leaflet.markercluster/1.5.3/MarkerCluster.Default.css"},
		},
	},
	"draw": {
		Name: "draw",
		JS: []Asset{
			{Name: "leaflet_draw_js", URL: "https://cdnjs.cloudflare.com/ajax/libs/leaflet.draw/1.0.4/leaflet.draw.js"},
		},
		CSS: []Asset{
			{Name: "leaflet_draw_css", URL: "https://cdnjs.cloudflare.com/ajax/libs/leaflet.draw/1.0.4/leaflet.draw.css"},
		},
	},
	"minimap": {
		Name: "minimap",
		JS: []Asset{
			{Name: "minimap_js", URL: "https://cdn.jsdelivr.net/npm/leaflet-minimap@3.6.1/dist/Control.MiniMap.min.js"},
		},
		CSS: []Asset{
			{Name: "minimap_css", URL: "https://cdn.jsdelivr.net/npm/leaflet-minimap@3.6.1/dist/Control.MiniMap.min.css"},
		},
	},
	"mouseposition": {
		Name: "mouseposition",
		JS: []Asset{
			{Name: "mouseposition_js", URL: "https://cdn.jsdelivr.net/gh/ardhi/Leaflet.MousePosition/src/L.Control.MousePosition.min.js"},
		},
		CSS: []Asset{
			{Name: "mouseposition_css", URL: "https://cdn.jsdelivr.net/gh/ardhi/Leaflet.MousePosition/src/L.Control.MousePosition.min.css"},
		},
	},
	"fullscreen": {
		Name: "fullscreen",
		JS: []Asset{
			{Name: "fullscreen_js", URL: "https://cdn.jsdelivr.net/npm/leaflet.fullscreen@3.0.0/Control.FullScreen.min.js"},
		},
		CSS: []Asset{
			{Name: "fullscreen_css", URL: "https://cdn.jsdelivr.net/npm/leaflet.fullscreen@3.0.0/Control.FullScreen.css"},
		},
	},
	"beautifyicon": {
		Name: "beautifyicon",
		JS: []Asset{
			{Name: "beautify_icon_js", URL: "https://cdn.jsdelivr.net/gh/marslan390/BeautifyMarker/leaflet-beautify-marker-icon.min.js"},
		},
		CSS: []Asset{
			{Name: "beautify_icon_css", URL: "https://cdn.jsdelivr.net/gh/marslan390/BeautifyMarker/leaflet-beautify-marker-icon.min.css"},
		},
	},
}

// Lookup returns the component registered under name (case-insensitive).
func Lookup(name string) (Component, error) {
	c, ok := components[strings.ToLower(name)]
	if !ok {
		return Component{}, fmt.Errorf("unknown component %q (available: %s)", name, strings.Join(PluginNames(), ", "))
	}
	return c, nil
}

// CoreComponent returns the always-included map component.
func CoreComponent() Component {
	return components[Core]
}

// PluginNames returns the names of all registered plugins (the core
// map excluded), sorted.
func PluginNames() []string {
	names := make([]string, 0, len(components)-1)
	for name := range components {
		if name == Core {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRemote reports whether u is an absolute http(s) URL. Relative
// paths, data URIs and file paths are not remote.
func IsRemote(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Basename extracts the file name from a URL, ignoring any query
// string or fragment. Returns an error when the URL has no usable
// path component (e.g. "https://cdn.example.com/").
func Basename(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing asset URL: %w", err)
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("no file name in asset URL %q", rawURL)
	}
	return name, nil
}
