package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-planner/internal/config"
)

var flagExampleOutput string

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := config.MarshalProfile(config.NewInputParser().CreateExampleProfile())
		if err != nil {
			return err
		}
		if flagExampleOutput == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(flagExampleOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flagExampleOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Example profile written to %s\n", flagExampleOutput)
		return nil
	},
}

func init() {
	exampleCmd.Flags().StringVarP(&flagExampleOutput, "output", "o", "", "Write the profile to this file")
	rootCmd.AddCommand(exampleCmd)
}
