package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command
func NewHealthCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the relay is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Testing relay: %s\n", a.cfg.RelayURL)
			resp, err := a.relay.Health(ctx)
			if err != nil {
				return fmt.Errorf("relay health check failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", resp.Status)
			if resp.Service != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Service: %s\n", resp.Service)
			}
			names := make([]string, 0, len(resp.Checks))
			for name := range resp.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, resp.Checks[name])
			}
			return nil
		},
	}
}
