package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-planner/internal/config"
)

var (
	flagVerbose   bool
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "rpgo",
	Short: "Earliest retirement age planner",
	Long: `rpgo projects the earliest age at which current savings and ongoing
contributions can cover inflation-adjusted expenses through life expectancy,
for a frugal, a content and a luxury lifestyle.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format for CLI commands (text or json)")
}

// cliLogger logs to stderr so report output on stdout stays clean.
func cliLogger() *slog.Logger {
	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	return config.LogSettings{Level: level, Format: flagLogFormat}.NewLogger(os.Stderr)
}
