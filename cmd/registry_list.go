package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/creatureai/internal/app"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/presentation"
)

var (
	regKind   string
	regFormat string
)

var registryListCmd = &cobra.Command{
	Use:   "registry:list",
	Short: "List registered AI and movement factories",
	Long: `List the AI and movement factories the configuration registers, in
registration order. The permit scan visits AI factories in this order, so
on equal scores the earlier factory wins.

Examples:
  # Everything
  creatureai registry:list

  # AI factories only, as JSON
  creatureai registry:list --kind ai --format json

  # Parse specific fields with jq
  creatureai registry:list -f json | jq '.[].key'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatter, err := presentation.NewFormatter(cmd.OutOrStdout(), regFormat)
		if err != nil {
			return err
		}

		var factories []presentation.FactoryDTO
		switch regKind {
		case "", "ai", "movement":
		default:
			return fmt.Errorf("--kind must be \"ai\" or \"movement\", got %q", regKind)
		}

		if regKind != "movement" {
			aiReg, err := app.BuildAIRegistry(cfg.AI, log.Default())
			if err != nil {
				return err
			}
			factories = append(factories, presentation.FromAIRegistry(aiReg)...)
		}
		if regKind != "ai" {
			moveReg, err := app.BuildMovementRegistry()
			if err != nil {
				return err
			}
			factories = append(factories, presentation.FromMovementKeys(moveReg.Keys())...)
		}

		return formatter.FormatFactories(factories)
	},
}

func init() {
	registryListCmd.Flags().StringVarP(&regKind, "kind", "k", "", "only this registry: ai or movement")
	registryListCmd.Flags().StringVarP(&regFormat, "format", "f", presentation.FormatTable, "output format: table or json")
	rootCmd.AddCommand(registryListCmd)
}
