package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/benvon/virality-checker/cmd/virality/commands"
	"github.com/spf13/cobra"
)

func main() {
	opts := &commands.Options{}

	var rootCmd = &cobra.Command{
		Use:           "virality",
		Short:         "Score X posts for viral potential",
		Long:          "Host CLI for the X Virality Checker: analyzes drafts through the relay and keeps usage and history locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/virality/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging to stderr")

	rootCmd.AddCommand(commands.NewAnalyzeCmd(opts))
	rootCmd.AddCommand(commands.NewHistoryCmd(opts))
	rootCmd.AddCommand(commands.NewStatsCmd(opts))
	rootCmd.AddCommand(commands.NewSettingsCmd(opts))
	rootCmd.AddCommand(commands.NewHealthCmd(opts))
	rootCmd.AddCommand(commands.NewConfigCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		// Analysis failures were already shown as a toast
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
