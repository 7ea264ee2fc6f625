package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var ready bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server liveness, or readiness with --ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ready {
				resp, err := apiClient.Ready(cmd.Context())
				if err != nil {
					return fmt.Errorf("ready: %w", err)
				}
				return formatJSON(cmd.OutOrStdout(), resp)
			}

			resp, err := apiClient.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health: %w", err)
			}
			if flagFmt == "table" {
				formatTable(cmd.OutOrStdout(),
					[]string{"STATUS", "VERSION", "DATABASE", "UPTIME"},
					[][]string{{resp.Status, resp.Version, resp.Database, fmt.Sprintf("%.0fs", resp.UptimeSeconds)}})
				return nil
			}
			return formatJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().BoolVar(&ready, "ready", false, "Query the readiness endpoint instead")
	return cmd
}
