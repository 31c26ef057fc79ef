package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-planner/internal/config"
)

var flagSettingsOutput string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or create server settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := config.LoadSettings(flagSettings)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  Settings file: %s\n\n", flagSettings)
		fmt.Fprintln(out, "  [server]")
		fmt.Fprintf(out, "    addr:        %s\n", s.Server.Addr)
		fmt.Fprintf(out, "    rate limit:  %d/min (burst %d)\n", s.Server.RateLimitPerMinute, s.Server.RateLimitBurst)
		fmt.Fprintln(out, "  [store]")
		fmt.Fprintf(out, "    driver:      %s\n", s.Store.Driver)
		fmt.Fprintln(out, "  [cache]")
		fmt.Fprintf(out, "    backend:     %s (ttl %s)\n", s.Cache.Backend, s.Cache.CacheTTL())
		fmt.Fprintln(out, "  [log]")
		fmt.Fprintf(out, "    level:       %s (%s)\n", s.Log.Level, s.Log.Format)
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.SaveSettings(flagSettingsOutput, config.DefaultSettings()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", flagSettingsOutput)
		return nil
	},
}

func init() {
	settingsCmd.Flags().StringVar(&flagSettings, "settings", "rpgo.toml", "Settings file (TOML)")
	settingsInitCmd.Flags().StringVarP(&flagSettingsOutput, "output", "o", "rpgo.toml", "Destination file")
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}
