package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/creatureai/internal/app"
	"github.com/zjrosen/creatureai/internal/config"
	"github.com/zjrosen/creatureai/internal/log"
)

// DefaultLocalConfig is the project-local config path, checked first.
const DefaultLocalConfig = ".creatureai/config.yaml"

var (
	version = "dev"
	cfgFile string
	logFile string
	debug   bool
	cfg     config.Config

	cfgErr     error
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "creatureai",
	Short: "Creature AI and movement selection",
	Long: `Selects the AI controller and movement generator for every creature spawn
in a content source, and drives the selected controllers for inspection.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .creatureai/config.yaml, then ~/.config/creatureai/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"log at debug level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to this file instead of stderr")
}

func initConfig() {
	viper.Reset()
	cfg = config.Defaults()
	cfgErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .creatureai/config.yaml (current directory)
		// 2. ~/.config/creatureai/config.yaml (user config)
		if _, err := os.Stat(DefaultLocalConfig); err == nil {
			viper.SetConfigFile(DefaultLocalConfig)
		} else {
			if dir := config.DefaultConfigDir(); dir != "" {
				viper.AddConfigPath(dir)
			}
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cfgErr = fmt.Errorf("reading config: %w", err)
			return
		}
		// no config anywhere: run on defaults
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		cfgErr = fmt.Errorf("decoding config: %w", err)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	path := logFile
	if path == "" {
		path = cfg.Log.File
	}

	var logger *log.Logger
	if path != "" {
		cleanup, err := log.Init(path)
		if err != nil {
			return err
		}
		logCleanup = cleanup
		logger = log.Default()
	} else {
		logger = log.New(cmd.ErrOrStderr())
		log.SetDefault(logger)
		logCleanup = func() { log.SetDefault(nil) }
	}

	level, _ := log.ParseLevel(cfg.Log.Level)
	if debug {
		level = log.LevelDebug
	}
	logger.SetMinLevel(level)
	for _, cat := range cfg.Log.DisabledCategories {
		logger.SetCategoryEnabled(log.Category(cat), false)
	}

	log.Debug(log.CatConfig, "config loaded", "file", viper.ConfigFileUsed())
	return nil
}

func teardown() {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

// openApp builds the application from the loaded config.
func openApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), cfg, app.WithLogger(log.Default()))
}

// configPath is the file config edits are written to.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Clean(DefaultLocalConfig)
}

// Execute runs the root command
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
