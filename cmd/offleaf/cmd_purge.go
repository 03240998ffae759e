package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/debrief/offline-leaflet/internal/catalog"
	"github.com/spf13/cobra"
)

func newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge [plugins...]",
		Short: "Remove cached assets",
		Long: `Remove the cached assets of the named plugins, or everything with
--all. Files already gone are not an error.

Examples:
  offleaf purge markercluster
  offleaf purge --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			all, _ := cmd.Flags().GetBool("all")
			force, _ := cmd.Flags().GetBool("force")

			// JSON mode implies force (no interactive prompts)
			if jsonOut {
				force = true
			}

			if all && len(args) > 0 {
				return fmt.Errorf("cannot combine --all with plugin names")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("name the plugins to purge, or pass --all")
			}

			// Validate plugin names before touching anything
			var components []string
			if all {
				components = []string{""}
			} else {
				for _, name := range args {
					c, err := catalog.Lookup(name)
					if err != nil {
						return err
					}
					components = append(components, c.Name)
				}
			}

			if !force {
				what := strings.Join(args, ", ")
				if all {
					what = "all cached assets"
				}
				fmt.Printf("Purge %s from the cache.\n", what)
				fmt.Print("\nConfirm? [y/N]: ")
				reader := bufio.NewReader(os.Stdin)
				response, _ := reader.ReadString('\n')
				response = strings.TrimSpace(strings.ToLower(response))
				if response != "y" && response != "yes" {
					fmt.Println("Cancelled.")
					return nil
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

			removed := 0
			for _, component := range components {
				n, err := c.Purge(cmd.Context(), component)
				removed += n
				if err != nil {
					return fmt.Errorf("purge failed: %w", err)
				}
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"status":  "purged",
					"removed": removed,
				})
			} else {
				fmt.Printf("Removed %d cached files.\n", removed)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Purge every cached asset")
	cmd.Flags().Bool("force", false, "Skip confirmation prompt")

	return cmd
}
