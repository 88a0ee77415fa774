package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/ai/builtin"
	"github.com/zjrosen/creatureai/internal/config"
	"github.com/zjrosen/creatureai/internal/log"
)

var registryDisableCmd = &cobra.Command{
	Use:   "registry:disable KEY",
	Short: "Stop registering a built-in AI factory",
	Long: `Adds KEY to ai.disabled in the config file. The factory is no longer
registered, so keyed lookups for it fall back to NullCreatureAI and the
permit scan skips it. NullCreatureAI itself cannot be disabled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := requireBuiltin(key); err != nil {
			return err
		}
		if key == ai.KeyNull {
			return fmt.Errorf("%s cannot be disabled", ai.KeyNull)
		}
		if slices.Contains(cfg.AI.Disabled, key) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already disabled\n", key)
			return nil
		}
		return saveDisabled(cmd, append(slices.Clone(cfg.AI.Disabled), key), "disabled "+key)
	},
}

var registryEnableCmd = &cobra.Command{
	Use:   "registry:enable KEY",
	Short: "Register a previously disabled built-in AI factory again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if err := requireBuiltin(key); err != nil {
			return err
		}
		if !slices.Contains(cfg.AI.Disabled, key) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not disabled\n", key)
			return nil
		}
		keys := slices.DeleteFunc(slices.Clone(cfg.AI.Disabled), func(k string) bool { return k == key })
		return saveDisabled(cmd, keys, "enabled "+key)
	},
}

func init() {
	rootCmd.AddCommand(registryDisableCmd)
	rootCmd.AddCommand(registryEnableCmd)
}

func requireBuiltin(key string) error {
	for _, f := range builtin.Factories() {
		if f.Key() == key {
			return nil
		}
	}
	return fmt.Errorf("%q is not a built-in AI factory", key)
}

func saveDisabled(cmd *cobra.Command, keys []string, what string) error {
	path := configPath()
	if err := config.SaveDisabled(path, keys); err != nil {
		return err
	}
	cfg.AI.Disabled = keys
	log.Info(log.CatConfig, "updated ai.disabled", "path", path, "disabled", keys)
	fmt.Fprintf(cmd.OutOrStdout(), "%s in %s\n", what, path)
	return nil
}
