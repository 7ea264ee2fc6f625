package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/3GHCRE/atlas-sub000/internal/config"
	"github.com/3GHCRE/atlas-sub000/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the traversal tool over MCP on stdin/stdout",
		Long:  "Serve the traverse_ownership_network tool over the Model Context Protocol stdio transport. Logs go to stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			a.log.Info("serving mcp on stdio")

			return mcp.RunStdio(ctx, mcp.NewServer(a.network, a.log, config.Version))
		},
	}
}
