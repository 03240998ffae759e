// Package element models the object graph behind generated map HTML:
// a root map element with child elements and plugins, each carrying
// the JS/CSS references its rendered output needs.
package element

import (
	"fmt"

	"github.com/debrief/offline-leaflet/internal/catalog"
)

// Element is one node in the map tree. The root is the map itself;
// children are markers, layers, plugins and controls. Only the asset
// references matter here: element behavior lives in the JS/CSS files
// themselves.
type Element struct {
	// Name identifies the element kind ("map", "heatmap", ...).
	Name string

	// JS and CSS are the element's asset references in include order.
	JS  []catalog.Asset
	CSS []catalog.Asset

	children map[string]*Element
	order    []string
	seq      int
}

// New creates an element with no assets.
func New(name string) *Element {
	return &Element{
		Name:     name,
		children: make(map[string]*Element),
	}
}

// NewMap creates the root map element carrying the core Leaflet assets.
func NewMap() *Element {
	core := catalog.CoreComponent()
	m := New(catalog.Core)
	m.JS = append(m.JS, core.JS...)
	m.CSS = append(m.CSS, core.CSS...)
	return m
}

// NewPlugin creates an element for a cataloged plugin.
func NewPlugin(name string) (*Element, error) {
	c, err := catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	e := New(c.Name)
	e.JS = append(e.JS, c.JS...)
	e.CSS = append(e.CSS, c.CSS...)
	return e, nil
}

// AddChild attaches child to e, keyed by an auto-generated id.
// Children keep insertion order.
func (e *Element) AddChild(child *Element) *Element {
	e.seq++
	id := fmt.Sprintf("%s_%d", child.Name, e.seq)
	e.children[id] = child
	e.order = append(e.order, id)
	return e
}

// Children returns the element's children in insertion order.
func (e *Element) Children() []*Element {
	out := make([]*Element, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.children[id])
	}
	return out
}

// Walk visits every element in the tree exactly once, depth-first,
// the root first. Shared or cyclic subtrees are visited once.
func (e *Element) Walk(visit func(*Element)) {
	visited := make(map[*Element]bool)

	var walk func(n *Element)
	walk = func(n *Element) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		visit(n)
		for _, id := range n.order {
			walk(n.children[id])
		}
	}
	walk(e)
}
