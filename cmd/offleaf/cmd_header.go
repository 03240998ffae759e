package main

import (
	"encoding/json"
	"fmt"

	"github.com/debrief/offline-leaflet/internal/element"
	"github.com/spf13/cobra"
)

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header [plugins...]",
		Short: "Print the script and link tags for a map",
		Long: `Build the element tree for a map using the named plugins, point its
asset references at cached local files where copies exist, and print
the <script> and <link> tags the map HTML needs in its head.

References with no cached copy keep their remote URL, so the output
is always usable; run 'offleaf get' first for a fully offline page.

Examples:
  offleaf header                     # core map assets only
  offleaf header heatmap draw        # core plus two plugins`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			root := element.NewMap()
			for _, name := range args {
				p, err := element.NewPlugin(name)
				if err != nil {
					return err
				}
				root.AddChild(p)
			}

			rewritten := element.Rewrite(root, element.ResolverFunc(c.Resolve))
			header := element.Header(root)

			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"header":    header,
					"rewritten": rewritten,
				})
			} else {
				fmt.Fprint(cmd.OutOrStdout(), header)
			}
			return nil
		},
	}
}
