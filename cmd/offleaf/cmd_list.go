package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/debrief/offline-leaflet/internal/catalog"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available components or cached assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			cached, _ := cmd.Flags().GetBool("cached")

			if cached {
				return listCached(cmd, jsonOut)
			}
			return listComponents(jsonOut)
		},
	}

	cmd.Flags().Bool("cached", false, "Show cached assets instead of the component catalog")

	return cmd
}

func listComponents(jsonOut bool) error {
	names := append([]string{catalog.Core}, catalog.PluginNames()...)

	if jsonOut {
		type item struct {
			Name   string   `json:"name"`
			Assets []string `json:"assets"`
		}
		items := make([]item, 0, len(names))
		for _, name := range names {
			c, err := catalog.Lookup(name)
			if err != nil {
				return err
			}
			it := item{Name: c.Name}
			for _, a := range c.Assets() {
				it.Assets = append(it.Assets, a.URL)
			}
			items = append(items, it)
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"components": items,
			"count":      len(items),
		})
	}

	fmt.Printf("Available components (%d):\n\n", len(names))
	for _, name := range names {
		c, err := catalog.Lookup(name)
		if err != nil {
			return err
		}
		label := "plugin"
		if name == catalog.Core {
			label = "core"
		}
		fmt.Printf("  %-16s [%s] %d assets\n", c.Name, label, len(c.Assets()))
	}
	fmt.Printf("\nUse 'offleaf get <plugin>' to download plugin assets.\n")
	return nil
}

func listCached(cmd *cobra.Command, jsonOut bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.Manifest().List(cmd.Context(), "")
	if err != nil {
		return fmt.Errorf("failed to list cached assets: %w", err)
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"assets": entries,
			"count":  len(entries),
			"dir":    c.Dir(),
		})
	}

	if len(entries) == 0 {
		fmt.Println("No assets cached yet.")
		fmt.Println("\nUse 'offleaf get' to download the core map assets.")
		return nil
	}

	fmt.Printf("Cached assets in %s (%d):\n\n", c.Dir(), len(entries))
	for _, e := range entries {
		fmt.Printf("  %-40s %-14s %8d bytes  %s\n",
			e.Filename, e.Component, e.Size, e.FetchedAt.Format(time.RFC3339))
	}
	return nil
}
