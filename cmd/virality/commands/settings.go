package commands

import (
	"fmt"

	"github.com/benvon/virality-checker/internal/analyzer"
	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command with show and set subcommands
func NewSettingsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage user settings",
		Long:  "Show or update settings. Settings live in the synced scope.",
	}
	cmd.AddCommand(newSettingsShowCmd(opts))
	cmd.AddCommand(newSettingsSetCmd(opts))
	return cmd
}

func newSettingsShowCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := analyzer.LoadSettings(ctx, a.scopes.Synced)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "save-history:  %t\nshow-warnings: %t\n", s.SaveHistory, s.ShowWarnings)
			return nil
		},
	}
}

func newSettingsSetCmd(opts *Options) *cobra.Command {
	var saveHistory, showWarnings bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("save-history") && !flags.Changed("show-warnings") {
				return fmt.Errorf("nothing to set: pass --save-history or --show-warnings")
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := analyzer.LoadSettings(ctx, a.scopes.Synced)
			if err != nil {
				return err
			}
			if flags.Changed("save-history") {
				s.SaveHistory = saveHistory
			}
			if flags.Changed("show-warnings") {
				s.ShowWarnings = showWarnings
			}
			if err := analyzer.SaveSettings(ctx, a.scopes.Synced, s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings updated.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&saveHistory, "save-history", true, "Record each analysis in history")
	cmd.Flags().BoolVar(&showWarnings, "show-warnings", true, "Show potential risks in results")
	return cmd
}
