package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/debrief/offline-leaflet/internal/cache"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check cached assets against their recorded checksums",
		Long: `Re-hash every cached asset and compare it to the checksum recorded
at download time. Reports files that have gone missing or whose
content has changed.

Use 'offleaf get --force' to re-download anything reported here.`,
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

			results, err := c.Verify(cmd.Context())
			if err != nil {
				return fmt.Errorf("verify failed: %w", err)
			}

			var ok, missing, modified []cache.VerifyResult
			for _, r := range results {
				switch r.Status {
				case cache.VerifyMissing:
					missing = append(missing, r)
				case cache.VerifyModified:
					modified = append(modified, r)
				default:
					ok = append(ok, r)
				}
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"ok":       len(ok),
					"missing":  missing,
					"modified": modified,
				})
			} else {
				fmt.Printf("Verified %d cached assets: %d ok, %d missing, %d modified\n",
					len(results), len(ok), len(missing), len(modified))
				for _, r := range missing {
					fmt.Printf("  missing:  %s (%s)\n", r.Entry.Filename, r.Entry.Component)
				}
				for _, r := range modified {
					fmt.Printf("  modified: %s (%s)\n", r.Entry.Filename, r.Entry.Component)
				}
				if len(missing)+len(modified) > 0 {
					fmt.Println("\nUse 'offleaf get --force' to repair the cache.")
				}
			}

			if len(missing)+len(modified) > 0 {
				return fmt.Errorf("%d assets failed verification", len(missing)+len(modified))
			}
			return nil
		},
	}
}
