package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zjrosen/creatureai/internal/presentation"
)

var (
	selectEntry  uint32
	selectFormat string
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the AI and movement generator for each spawn",
	Long: `Loads every spawn from the content source and prints the controller and
movement generator selected for it, with the step of the selection chain
that produced the controller.

Examples:
  # All spawns as a table
  creatureai select

  # Only spawns of entry 68, as JSON
  creatureai select --entry 68 --format json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatter, err := presentation.NewFormatter(cmd.OutOrStdout(), selectFormat)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.WithoutCancel(cmd.Context())) }()

		rows, err := a.Select(cmd.Context(), selectEntry)
		if err != nil {
			return err
		}
		return formatter.FormatSelections(presentation.FromSelections(rows))
	},
}

func init() {
	selectCmd.Flags().Uint32VarP(&selectEntry, "entry", "e", 0, "only spawns of this creature entry")
	selectCmd.Flags().StringVarP(&selectFormat, "format", "f", presentation.FormatTable, "output format: table or json")
	rootCmd.AddCommand(selectCmd)
}
