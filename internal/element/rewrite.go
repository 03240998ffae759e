package element

import (
	"fmt"
	"html"
	"strings"
)

// Resolver maps a remote URL to a local path. The second return is
// false when no local copy exists and the remote URL should be kept.
type Resolver interface {
	Resolve(url string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(url string) (string, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(url string) (string, bool) { return f(url) }

// Rewrite walks the tree and replaces each asset URL with its local
// path when the resolver has one, leaving the remote URL in place
// otherwise. It rewrites in place and is idempotent: a URL that was
// already rewritten no longer resolves as remote and is left alone.
// Returns the number of references rewritten.
func Rewrite(root *Element, r Resolver) int {
	rewritten := 0
	root.Walk(func(e *Element) {
		for i, a := range e.JS {
			if local, ok := r.Resolve(a.URL); ok {
				e.JS[i].URL = local
				rewritten++
			}
		}
		for i, a := range e.CSS {
			if local, ok := r.Resolve(a.URL); ok {
				e.CSS[i].URL = local
				rewritten++
			}
		}
	})
	return rewritten
}

// Header renders the script and link tags the map HTML needs in its
// head: every JS reference in the tree, then every CSS reference,
// tree order, de-duplicated by URL.
func Header(root *Element) string {
	var js, css []string
	seen := make(map[string]bool)

	root.Walk(func(e *Element) {
		for _, a := range e.JS {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			js = append(js, fmt.Sprintf(`<script src="%s"></script>`, html.EscapeString(a.URL)))
		}
		for _, a := range e.CSS {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			css = append(css, fmt.Sprintf(`<link rel="stylesheet" href="%s"/>`, html.EscapeString(a.URL)))
		}
	})

	var b strings.Builder
	for _, line := range js {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, line := range css {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
