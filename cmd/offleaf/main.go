package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/debrief/offline-leaflet/internal/cache"
	"github.com/debrief/offline-leaflet/internal/config"
	"github.com/debrief/offline-leaflet/internal/download"
	"github.com/debrief/offline-leaflet/internal/fetch"
	"github.com/debrief/offline-leaflet/internal/logging"
	"github.com/debrief/offline-leaflet/internal/ratelimit"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "offleaf",
		Short: "Offline asset cache for Leaflet maps",
		Long: `offleaf downloads the JavaScript and CSS assets that Leaflet-based
maps load from CDNs, stores them locally, and rewrites generated HTML
so the map renders without an internet connection.

Assets already cached are reused; references with no cached copy keep
their remote URL.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.offleaf/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newGetCmd(),
		newListCmd(),
		newHeaderCmd(),
		newResolveCmd(),
		newRewriteCmd(),
		newVerifyCmd(),
		newPurgeCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("offleaf version %s\n", version)
			}
		},
	}
}

// loadConfig loads the configuration, honoring the global --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openCache opens the asset cache at the configured directory.
func openCache(cfg *config.Config) (*cache.Cache, error) {
	c, err := cache.Open(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset cache: %w", err)
	}
	return c, nil
}

// newDownloader builds the download pipeline from the configuration.
func newDownloader(cfg *config.Config, c *cache.Cache, force bool) *download.Downloader {
	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

	opts := []fetch.Option{
		fetch.WithClient(&http.Client{Timeout: cfg.Download.Timeout}),
		fetch.WithUserAgent(cfg.Download.UserAgent),
		fetch.WithConcurrency(cfg.Download.Concurrency),
		fetch.WithForce(force),
		fetch.WithLogger(logger),
	}
	if cfg.Download.HostRate > 0 {
		opts = append(opts, fetch.WithLimiter(ratelimit.NewLimiter(cfg.Download.HostRate, cfg.Download.HostBurst)))
	}

	return download.New(c, fetch.New(opts...), logger)
}
