package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-planner/internal/calculation"
	"github.com/rpgo/retirement-planner/internal/config"
	"github.com/rpgo/retirement-planner/internal/output"
)

var (
	flagInput  string
	flagFormat string
	flagOutput string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Project retirement ages for a profile file",
	Long: `Load a YAML profile, derive current savings, annual contributions and
annual expenses, and report the earliest feasible retirement age for each
lifestyle.`,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVarP(&flagInput, "input", "i", "", "Profile YAML file (required)")
	calculateCmd.Flags().StringVarP(&flagFormat, "format", "f", "console", "Output format (see `rpgo formats`)")
	calculateCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the report to this file instead of stdout")
	_ = calculateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, _ []string) error {
	formatter := output.GetFormatterByName(flagFormat)
	if formatter == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, flagFormat)
	}

	parser := config.NewInputParser()
	profile, err := parser.LoadFromFile(flagInput)
	if err != nil {
		return err
	}

	logger := cliLogger()
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(calculation.NewSlogLogger(logger))
	engine.IncludeSchedules = output.NeedsSchedules(flagFormat)

	report, err := engine.RunProjections(cmd.Context(), profile)
	if err != nil {
		return fmt.Errorf("running projections: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOutput, err)
		}
		defer f.Close()
		w = f
	}
	if err := output.GenerateReport(w, report, flagFormat); err != nil {
		return err
	}
	if flagOutput != "" {
		logger.Info("report written", "path", flagOutput, "format", formatter.Name())
	}
	return nil
}
