package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"friday-chat/internal/client"
)

func newStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the chat proxy is up and configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadClientConfig(v)
			c := client.New(cfg.ServerURL, cfg.Timeout)
			out := cmd.OutOrStdout()

			health, err := c.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			fmt.Fprintf(out, "server:  %s (%s)\n", cfg.ServerURL, health.Status)

			diag, err := c.Diagnostics(cmd.Context())
			if err != nil {
				return fmt.Errorf("diagnostics failed: %w", err)
			}
			if diag.APIKeyPresent {
				fmt.Fprintf(out, "api key: present (%d chars)\n", diag.APIKeyLength)
			} else {
				fmt.Fprintln(out, "api key: missing")
			}
			return nil
		},
	}
}
