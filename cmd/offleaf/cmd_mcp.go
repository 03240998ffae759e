package main

import (
	"fmt"
	"os"

	"github.com/debrief/offline-leaflet/internal/logging"
	"github.com/debrief/offline-leaflet/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run as an MCP server over stdio",
		Long: `Run offleaf as an MCP (Model Context Protocol) server so agents can
download, resolve, and rewrite map assets through the same pipeline
the CLI uses.

The server speaks stdio transport; wire it into an agent's MCP server
configuration rather than running it by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// Logs go to stderr: stdout carries the MCP protocol.
			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "offleaf",
				Version: version,
				Offleaf: cfg,
				Logger:  logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			logger.Info("starting MCP server", "version", version)
			return server.Run(cmd.Context())
		},
	}
}
