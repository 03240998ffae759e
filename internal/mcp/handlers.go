package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/debrief/offline-leaflet/internal/cache"
	"github.com/debrief/offline-leaflet/internal/catalog"
	"github.com/debrief/offline-leaflet/internal/element"
	"github.com/debrief/offline-leaflet/internal/htmlrewrite"
)

// registerTools registers all offleaf MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "offleaf_get",
		Description: "Download map and plugin assets from their CDNs into the local cache",
	}, s.handleGet)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "offleaf_list",
		Description: "List available components or the cached assets in the manifest",
	}, s.handleList)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "offleaf_resolve",
		Description: "Resolve a remote asset URL to its cached local path, falling back to the URL itself",
	}, s.handleResolve)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "offleaf_rewrite",
		Description: "Rewrite a rendered HTML file so cached asset references point at local files",
	}, s.handleRewrite)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "offleaf_verify",
		Description: "Re-hash cached assets against the download manifest and report drift",
	}, s.handleVerify)
}

func (s *Server) handleGet(ctx context.Context, req *sdk.CallToolRequest, args GetInput) (*sdk.CallToolResult, GetOutput, error) {
	if err := s.checkLimit("offleaf_get"); err != nil {
		return nil, GetOutput{}, err
	}

	summary, unknown, err := s.newDownloader(args.Force).Components(ctx, args.Plugins)
	if err != nil {
		return nil, GetOutput{}, err
	}

	msg := fmt.Sprintf("%d downloaded, %d skipped, %d failed", summary.Downloaded, summary.Skipped, summary.Failed)
	if len(unknown) > 0 {
		msg += fmt.Sprintf(" (unknown plugins skipped: %v)", unknown)
	}

	return nil, GetOutput{
		Summary: summary,
		Unknown: unknown,
		Dir:     s.cache.Dir(),
		Message: msg,
	}, nil
}

func (s *Server) handleList(ctx context.Context, req *sdk.CallToolRequest, args ListInput) (*sdk.CallToolResult, ListOutput, error) {
	if err := s.checkLimit("offleaf_list"); err != nil {
		return nil, ListOutput{}, err
	}

	if args.Cached {
		entries, err := s.cache.Manifest().List(ctx, "")
		if err != nil {
			return nil, ListOutput{}, err
		}
		out := ListOutput{Count: len(entries)}
		for _, e := range entries {
			out.Cached = append(out.Cached, CachedItem{
				Filename:  e.Filename,
				Component: e.Component,
				URL:       e.URL,
				Size:      e.Size,
				FetchedAt: e.FetchedAt,
			})
		}
		return nil, out, nil
	}

	names := append([]string{catalog.Core}, catalog.PluginNames()...)
	out := ListOutput{Count: len(names)}
	for _, name := range names {
		c, err := catalog.Lookup(name)
		if err != nil {
			return nil, ListOutput{}, err
		}
		item := ComponentItem{Name: c.Name}
		for _, a := range c.Assets() {
			item.Assets = append(item.Assets, a.URL)
		}
		out.Components = append(out.Components, item)
	}
	return nil, out, nil
}

func (s *Server) handleResolve(ctx context.Context, req *sdk.CallToolRequest, args ResolveInput) (*sdk.CallToolResult, ResolveOutput, error) {
	if err := s.checkLimit("offleaf_resolve"); err != nil {
		return nil, ResolveOutput{}, err
	}
	if args.URL == "" {
		return nil, ResolveOutput{}, fmt.Errorf("url is required")
	}

	if local, ok := s.cache.Resolve(args.URL); ok {
		return nil, ResolveOutput{URL: local, Local: true}, nil
	}
	return nil, ResolveOutput{URL: args.URL, Local: false}, nil
}

func (s *Server) handleRewrite(ctx context.Context, req *sdk.CallToolRequest, args RewriteInput) (*sdk.CallToolResult, RewriteOutput, error) {
	if err := s.checkLimit("offleaf_rewrite"); err != nil {
		return nil, RewriteOutput{}, err
	}
	if args.Path == "" {
		return nil, RewriteOutput{}, fmt.Errorf("path is required")
	}

	res, err := htmlrewrite.RewriteFile(args.Path, args.Output, element.ResolverFunc(s.cache.Resolve))
	if err != nil {
		return nil, RewriteOutput{}, fmt.Errorf("failed to rewrite %s: %w", args.Path, err)
	}

	path := args.Output
	if path == "" {
		path = args.Path
	}
	return nil, RewriteOutput{Rewritten: res.Rewritten, Kept: res.Kept, Path: path}, nil
}

func (s *Server) handleVerify(ctx context.Context, req *sdk.CallToolRequest, args VerifyInput) (*sdk.CallToolResult, VerifyOutput, error) {
	if err := s.checkLimit("offleaf_verify"); err != nil {
		return nil, VerifyOutput{}, err
	}

	results, err := s.cache.Verify(ctx)
	if err != nil {
		return nil, VerifyOutput{}, err
	}

	var out VerifyOutput
	for _, r := range results {
		item := CachedItem{
			Filename:  r.Entry.Filename,
			Component: r.Entry.Component,
			URL:       r.Entry.URL,
			Size:      r.Entry.Size,
			FetchedAt: r.Entry.FetchedAt,
		}
		switch r.Status {
		case cache.VerifyMissing:
			out.Missing = append(out.Missing, item)
		case cache.VerifyModified:
			out.Modified = append(out.Modified, item)
		default:
			out.OK++
		}
	}
	return nil, out, nil
}
