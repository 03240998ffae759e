package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/debrief/offline-leaflet/internal/element"
	"github.com/debrief/offline-leaflet/internal/htmlrewrite"
	"github.com/spf13/cobra"
)

func newRewriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite <file>",
		Short: "Rewrite an HTML file to use cached assets",
		Long: `Rewrite script and stylesheet references in an HTML file so they
point at locally cached copies. References with no cached copy keep
their remote URL.

The file is rewritten in place unless --output is given. Running the
command twice is harmless: already-local references are left alone.

Examples:
  offleaf rewrite map.html
  offleaf rewrite map.html --output map-offline.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			output, _ := cmd.Flags().GetString("output")
			path := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := htmlrewrite.RewriteFile(path, output, element.ResolverFunc(c.Resolve))
			if err != nil {
				return fmt.Errorf("failed to rewrite %s: %w", path, err)
			}

			outPath := path
			if output != "" {
				outPath = output
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"path":      outPath,
					"rewritten": result.Rewritten,
					"kept":      result.Kept,
				})
			} else {
				fmt.Printf("Rewrote %s: %d references now local, %d still remote\n",
					outPath, result.Rewritten, result.Kept)
				if result.Kept > 0 {
					fmt.Println("\nUse 'offleaf get' to cache the remaining assets, then rerun.")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write result to this file instead of rewriting in place")

	return cmd
}
