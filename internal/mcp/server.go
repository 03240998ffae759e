// Package mcp provides an MCP (Model Context Protocol) server for
// offleaf, so agents can fetch and resolve map assets through the
// same pipeline the CLI uses.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/debrief/offline-leaflet/internal/cache"
	"github.com/debrief/offline-leaflet/internal/config"
	"github.com/debrief/offline-leaflet/internal/download"
	"github.com/debrief/offline-leaflet/internal/fetch"
	"github.com/debrief/offline-leaflet/internal/ratelimit"
)

// Server wraps the MCP SDK server around the asset cache.
type Server struct {
	server   *sdk.Server
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
	limiters map[string]*ratelimit.Limiter
}

// Config holds server configuration.
type Config struct {
	Name    string         // Server name (e.g., "offleaf")
	Version string         // Server version
	Offleaf *config.Config // Loaded offleaf configuration
	Logger  *slog.Logger
}

// NewServer creates a new MCP server with offleaf tools.
func NewServer(cfg *Config) (*Server, error) {
	offleafCfg := cfg.Offleaf
	if offleafCfg == nil {
		offleafCfg = config.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	assetCache, err := cache.Open(offleafCfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset cache: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:   mcpServer,
		cache:    assetCache,
		cfg:      offleafCfg,
		logger:   logger,
		limiters: newToolLimiters(),
	}

	s.registerTools()

	return s, nil
}

// newDownloader builds a downloader from the server's configuration.
// Force fetchers are per-call: the shared configuration stays immutable.
func (s *Server) newDownloader(force bool) *download.Downloader {
	fetcher := fetch.New(
		fetch.WithClient(&http.Client{Timeout: s.cfg.Download.Timeout}),
		fetch.WithUserAgent(s.cfg.Download.UserAgent),
		fetch.WithConcurrency(s.cfg.Download.Concurrency),
		fetch.WithLimiter(ratelimit.NewLimiter(s.cfg.Download.HostRate, s.cfg.Download.HostBurst)),
		fetch.WithLogger(s.logger),
		fetch.WithForce(force),
	)
	return download.New(s.cache, fetcher, s.logger)
}

// newToolLimiters creates the default set of per-tool rate limiters.
// Download-shaped tools get tight limits; lookups are generous.
func newToolLimiters() map[string]*ratelimit.Limiter {
	return map[string]*ratelimit.Limiter{
		"offleaf_get":     ratelimit.NewLimiter(5.0/60.0, 2),  // 5/minute, burst 2
		"offleaf_verify":  ratelimit.NewLimiter(10.0/60.0, 2), // 10/minute, burst 2
		"offleaf_list":    ratelimit.NewLimiter(1.0, 10),      // 60/minute, burst 10
		"offleaf_resolve": ratelimit.NewLimiter(1.0, 10),      // 60/minute, burst 10
		"offleaf_rewrite": ratelimit.NewLimiter(30.0/60.0, 5), // 30/minute, burst 5
	}
}

// checkLimit checks the rate limit for a tool. Tools without a
// configured limiter are always allowed.
func (s *Server) checkLimit(tool string) error {
	limiter, ok := s.limiters[tool]
	if !ok {
		return nil
	}
	if !limiter.Allow(tool) {
		return fmt.Errorf("rate limit exceeded for %s, please try again shortly", tool)
	}
	return nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.cache.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.cache.Close()
}
