package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/debrief/offline-leaflet/internal/catalog"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [plugins...]",
		Short: "Download map assets into the local cache",
		Long: `Download the core map assets, plus the assets of any named plugins,
into the local cache directory.

Assets already present are skipped unless --force is given. One asset
failing does not stop the rest; the command exits non-zero if any
asset could not be fetched.

Examples:
  offleaf get                        # core map plus the heatmap plugin
  offleaf get markercluster draw     # core plus two plugins
  offleaf get --all                  # everything in the catalog
  offleaf get --all --force          # re-download everything`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			all, _ := cmd.Flags().GetBool("all")
			force, _ := cmd.Flags().GetBool("force")

			plugins := args
			if all {
				if len(args) > 0 {
					return fmt.Errorf("cannot combine --all with plugin names")
				}
				plugins = catalog.PluginNames()
			} else if len(plugins) == 0 {
				plugins = []string{"heatmap"}
				if !jsonOut {
					fmt.Println("No plugins specified, defaulting to: heatmap")
				}
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			d := newDownloader(cfg, c, force)
			summary, unknown, err := d.Components(cmd.Context(), plugins)
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"summary": summary,
					"unknown": unknown,
					"dir":     c.Dir(),
				})
			} else {
				fmt.Printf("Assets: %d downloaded, %d skipped, %d failed\n",
					summary.Downloaded, summary.Skipped, summary.Failed)
				fmt.Printf("Cache: %s\n", c.Dir())
				for _, f := range summary.Failures {
					fmt.Printf("  failed: %s (%s)\n", f.URL, f.Error)
				}
				for _, name := range unknown {
					fmt.Printf("  unknown plugin: %s\n", name)
				}
				if len(unknown) > 0 {
					fmt.Printf("\nRun 'offleaf list' to see available plugins.\n")
				}
			}

			if summary.Failed > 0 {
				return fmt.Errorf("%d assets failed to download", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Download assets for every plugin in the catalog")
	cmd.Flags().Bool("force", false, "Re-download assets even if already cached")

	return cmd
}
