package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/creatureai/internal/presentation"
)

var (
	simTicks  int
	simTickMs int
	simEntry  uint32
	simFormat string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive the selected controllers for a number of ticks",
	Long: `Selects a controller and movement generator for each spawn, then updates
both --ticks times with --tick-ms between updates and prints the intent and
movement step of every tick.

Examples:
  creatureai simulate --ticks 10 --tick-ms 500
  creatureai simulate --entry 416 --format json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if simTicks < 0 || simTickMs < 0 {
			return fmt.Errorf("--ticks and --tick-ms must not be negative")
		}
		formatter, err := presentation.NewFormatter(cmd.OutOrStdout(), simFormat)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.WithoutCancel(cmd.Context())) }()

		sims, err := a.Simulate(cmd.Context(), simEntry, simTicks, time.Duration(simTickMs)*time.Millisecond)
		if err != nil {
			return err
		}
		return formatter.FormatSimulations(presentation.FromSimulations(sims))
	},
}

func init() {
	simulateCmd.Flags().IntVarP(&simTicks, "ticks", "n", 5, "number of updates per creature")
	simulateCmd.Flags().IntVar(&simTickMs, "tick-ms", 1000, "milliseconds between updates")
	simulateCmd.Flags().Uint32VarP(&simEntry, "entry", "e", 0, "only spawns of this creature entry")
	simulateCmd.Flags().StringVarP(&simFormat, "format", "f", presentation.FormatTable, "output format: table or json")
	rootCmd.AddCommand(simulateCmd)
}
