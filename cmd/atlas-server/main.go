// Command atlas-server serves ownership network traversals over HTTP and MCP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/3GHCRE/atlas-sub000/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "atlas-server",
		Short:         "Atlas ownership network server",
		Long:          "Serve multi-hop ownership network traversals over the REST API or as an MCP tool.",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newMigrateCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
