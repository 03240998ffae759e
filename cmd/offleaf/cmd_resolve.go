package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <url>",
		Short: "Resolve an asset URL to its local cached path",
		Long: `Print the local path for an asset URL if a cached copy exists,
otherwise print the URL unchanged.

This mirrors what 'offleaf rewrite' does for every reference in an
HTML file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			url := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			resolved, local := c.Resolve(url)
			if !local {
				resolved = url
			}

			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"url":   resolved,
					"local": local,
				})
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), resolved)
			}
			return nil
		},
	}
}
