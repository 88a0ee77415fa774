package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/creatureai/internal/config"
)

var (
	initPath  string
	initForce bool
)

var configInitCmd = &cobra.Command{
	Use:   "config:init",
	Short: "Write the default configuration file",
	Long: `Writes the commented default configuration to --path
(default .creatureai/config.yaml). An existing file is kept unless --force.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := os.Stat(initPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", initPath)
		}
		if err := config.WriteDefaultConfig(initPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", initPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&initPath, "path", "p", DefaultLocalConfig, "where to write the config")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(configInitCmd)
}
