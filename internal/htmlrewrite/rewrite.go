// Package htmlrewrite rewrites asset references in already-rendered
// map HTML. It is the post-hoc counterpart to the element tree
// rewrite: when the HTML was generated elsewhere, this pass points its
// script/link tags at cached local files.
package htmlrewrite

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/debrief/offline-leaflet/internal/element"
)

// Result summarizes one rewrite pass.
type Result struct {
	Rewritten int `json:"rewritten"` // references pointed at local files
	Kept      int `json:"kept"`      // remote references with no local copy
}

// Rewrite copies HTML from r to w, substituting the src of script
// tags and the href of link tags whenever the resolver has a local
// copy. Everything else passes through byte-exact; only rewritten
// tags are re-serialized.
func Rewrite(r io.Reader, w io.Writer, resolver element.Resolver) (Result, error) {
	var res Result
	z := html.NewTokenizer(r)

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return res, fmt.Errorf("parsing HTML: %w", err)
			}
			return res, nil
		}

		raw := z.Raw()

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			if out, changed, kept := rewriteTag(z, tt, resolver); changed {
				res.Rewritten++
				if _, err := io.WriteString(w, out); err != nil {
					return res, err
				}
				continue
			} else if kept {
				res.Kept++
			}
		}

		if _, err := w.Write(raw); err != nil {
			return res, err
		}
	}
}

// urlAttr names the attribute carrying the asset URL for a tag, or ""
// when the tag references no assets.
func urlAttr(tag string) string {
	switch tag {
	case "script":
		return "src"
	case "link":
		return "href"
	default:
		return ""
	}
}

// rewriteTag inspects the current tag token. When its URL attribute
// resolves locally it returns the re-serialized tag and changed=true.
// kept reports a remote URL that stayed remote.
func rewriteTag(z *html.Tokenizer, tt html.TokenType, resolver element.Resolver) (out string, changed, kept bool) {
	name, hasAttr := z.TagName()
	attr := urlAttr(string(name))
	if attr == "" || !hasAttr {
		return "", false, false
	}

	type kv struct{ key, val string }
	var attrs []kv
	more := true
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs = append(attrs, kv{string(key), string(val)})
	}

	for i, a := range attrs {
		if a.key != attr {
			continue
		}
		local, ok := resolver.Resolve(a.val)
		if !ok {
			return "", false, strings.HasPrefix(a.val, "http")
		}
		attrs[i].val = local
		changed = true
		break
	}
	if !changed {
		return "", false, false
	}

	var b strings.Builder
	b.WriteString("<")
	b.Write(name)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.val))
		b.WriteString(`"`)
	}
	if tt == html.SelfClosingTagToken {
		b.WriteString("/>")
	} else {
		b.WriteString(">")
	}
	return b.String(), true, false
}

// RewriteFile rewrites an HTML file. When outPath is empty the input
// file is replaced in place (atomically, via temp file and rename).
func RewriteFile(inPath, outPath string, resolver element.Resolver) (Result, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Result{}, err
	}
	defer in.Close()

	inPlace := outPath == "" || outPath == inPath
	dest := outPath
	if inPlace {
		dest = inPath
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp*")
	if err != nil {
		return Result{}, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	res, err := Rewrite(in, tmp, resolver)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return res, err
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return res, err
	}
	return res, nil
}
