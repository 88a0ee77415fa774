// Package config provides configuration types and defaults for creatureai.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/content"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/tracing"
)

// Config holds all configuration options for creatureai.
type Config struct {
	Content content.Config `mapstructure:"content"`
	Scripts ScriptsConfig  `mapstructure:"scripts"`
	AI      AIConfig       `mapstructure:"ai"`
	Log     LogConfig      `mapstructure:"log"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// ScriptsConfig controls the JavaScript override hook.
type ScriptsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`   // directory of *.js files
	Watch   bool   `mapstructure:"watch"` // reload when files change
}

// RuleConfig defines a scoring factory whose permit is an expression.
type RuleConfig struct {
	Key    string `mapstructure:"key" yaml:"key"`
	Base   string `mapstructure:"base" yaml:"base"`     // controller created when selected
	Permit string `mapstructure:"permit" yaml:"permit"` // expr returning an int
}

// AIConfig shapes the AI factory registry.
type AIConfig struct {
	// Disabled lists built-in factory keys that are not registered.
	// NullCreatureAI cannot be disabled.
	Disabled []string     `mapstructure:"disabled"`
	Rules    []RuleConfig `mapstructure:"rules"`
}

// LogConfig controls the category logger.
type LogConfig struct {
	Level              string   `mapstructure:"level"` // debug, info, warn, error
	File               string   `mapstructure:"file"`
	DisabledCategories []string `mapstructure:"disabled_categories"`
}

// DefaultConfigDir returns ~/.config/creatureai, or empty when the home
// directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "creatureai")
}

// DefaultTracesFilePath returns the default path for the file trace exporter.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := ValidateScripts(c.Scripts); err != nil {
		return err
	}
	if err := ValidateAI(c.AI); err != nil {
		return err
	}
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateScripts checks the script hook configuration.
func ValidateScripts(s ScriptsConfig) error {
	if s.Enabled && s.Dir == "" {
		return fmt.Errorf("scripts.dir is required when scripts are enabled")
	}
	if s.Watch && !s.Enabled {
		return fmt.Errorf("scripts.watch requires scripts.enabled")
	}
	return nil
}

// ValidateAI checks disabled keys and rule definitions. Expressions are
// compiled later, when the registry is built.
func ValidateAI(a AIConfig) error {
	if slices.Contains(a.Disabled, ai.KeyNull) {
		return fmt.Errorf("ai.disabled: %s cannot be disabled", ai.KeyNull)
	}

	seen := make(map[string]bool, len(a.Rules))
	for i, r := range a.Rules {
		switch {
		case r.Key == "":
			return fmt.Errorf("ai.rules[%d]: key is required", i)
		case r.Base == "":
			return fmt.Errorf("ai.rules[%d] (%s): base is required", i, r.Key)
		case r.Permit == "":
			return fmt.Errorf("ai.rules[%d] (%s): permit is required", i, r.Key)
		case seen[r.Key]:
			return fmt.Errorf("ai.rules[%d]: duplicate key %q", i, r.Key)
		}
		seen[r.Key] = true
	}
	return nil
}

// ValidateLog checks the level and category names.
func ValidateLog(l LogConfig) error {
	if _, ok := log.ParseLevel(l.Level); !ok {
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", l.Level)
	}
	known := log.Categories()
	for _, cat := range l.DisabledCategories {
		if !slices.Contains(known, log.Category(cat)) {
			return fmt.Errorf("log.disabled_categories: unknown category %q", cat)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if t.Enabled {
		if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()

	return Config{
		Content: content.DefaultConfig(),
		Scripts: ScriptsConfig{
			Dir: "scripts",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: tc,
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# creatureai configuration

# Creature content
content:
  backend: yaml            # "yaml" (default) or "sqlite"
  path: creatures.yaml     # content file, or the sqlite database path
  cache:
    enabled: true          # cache template lookups
    ttl: 10m

# JavaScript override hook. Each *.js file in dir may call
# registerCreatureScript(name, factory); creatures whose script name matches
# are offered to the factory before built-in selection.
scripts:
  enabled: false
  dir: scripts
  watch: false             # reload scripts when files change

# AI factory registry
ai:
  # Built-in factories that are not registered (NullCreatureAI is required)
  # disabled: [TotemAI]
  disabled: []
  #
  # Scoring factories defined by an expression. The expression sees the
  # creature's facts (is_pet, is_guard, react_state, has_victim, health_pct,
  # ...) and the permit constants (permit_no ... permit_special).
  # rules:
  #   - key: CowardAI
  #     base: ReactorAI
  #     permit: "is_civilian && health_pct < 30 ? permit_special : permit_no"
  rules: []

# Logging
log:
  level: info              # debug, info, warn, error
  # file: creatureai.log
  # Categories: ai, movegen, db, script, config, content, cache, trace, app
  disabled_categories: []

# Tracing (OpenTelemetry)
tracing:
  enabled: false
  exporter: file           # none, file, stdout, otlp
  # file_path: ~/.config/creatureai/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  #
  # Example: Send traces to Jaeger via OTLP
  # tracing:
  #   enabled: true
  #   exporter: otlp
  #   otlp_endpoint: jaeger.internal:4317
  #   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
