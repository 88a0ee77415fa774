package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/creatureai/internal/content"
	"github.com/zjrosen/creatureai/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, content.BackendYAML, cfg.Content.Backend)
	require.Equal(t, "creatures.yaml", cfg.Content.Path)
	require.True(t, cfg.Content.Cache.Enabled)
	require.Equal(t, 10*time.Minute, cfg.Content.Cache.TTL)
	require.False(t, cfg.Scripts.Enabled)
	require.Equal(t, "scripts", cfg.Scripts.Dir)
	require.Empty(t, cfg.AI.Disabled)
	require.Empty(t, cfg.AI.Rules)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, tracing.ExporterFile, cfg.Tracing.Exporter)
	require.NoError(t, cfg.Validate())
}

func TestValidateScripts(t *testing.T) {
	require.NoError(t, ValidateScripts(ScriptsConfig{}))
	require.NoError(t, ValidateScripts(ScriptsConfig{Enabled: true, Dir: "scripts", Watch: true}))

	err := ValidateScripts(ScriptsConfig{Enabled: true})
	require.ErrorContains(t, err, "scripts.dir is required")

	err = ValidateScripts(ScriptsConfig{Dir: "scripts", Watch: true})
	require.ErrorContains(t, err, "scripts.watch requires scripts.enabled")
}

func TestValidateAI(t *testing.T) {
	require.NoError(t, ValidateAI(AIConfig{}))
	require.NoError(t, ValidateAI(AIConfig{
		Disabled: []string{"TotemAI"},
		Rules:    []RuleConfig{{Key: "CowardAI", Base: "ReactorAI", Permit: "permit_no"}},
	}))

	cases := []struct {
		name string
		cfg  AIConfig
		want string
	}{
		{"null disabled", AIConfig{Disabled: []string{"NullCreatureAI"}}, "cannot be disabled"},
		{"missing key", AIConfig{Rules: []RuleConfig{{Base: "GuardAI", Permit: "1"}}}, "ai.rules[0]: key is required"},
		{"missing base", AIConfig{Rules: []RuleConfig{{Key: "X", Permit: "1"}}}, "base is required"},
		{"missing permit", AIConfig{Rules: []RuleConfig{{Key: "X", Base: "GuardAI"}}}, "permit is required"},
		{"duplicate", AIConfig{Rules: []RuleConfig{
			{Key: "X", Base: "GuardAI", Permit: "1"},
			{Key: "X", Base: "GuardAI", Permit: "2"},
		}}, "ai.rules[1]: duplicate key \"X\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorContains(t, ValidateAI(tc.cfg), tc.want)
		})
	}
}

func TestValidateLog(t *testing.T) {
	require.NoError(t, ValidateLog(LogConfig{Level: "debug", DisabledCategories: []string{"ai", "movegen"}}))
	require.NoError(t, ValidateLog(LogConfig{}))

	require.ErrorContains(t, ValidateLog(LogConfig{Level: "loud"}), "log.level")
	require.ErrorContains(t, ValidateLog(LogConfig{DisabledCategories: []string{"gfx"}}), "unknown category \"gfx\"")
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(tracing.Config{}))
	require.NoError(t, ValidateTracing(tracing.Config{Enabled: true, Exporter: "stdout", SampleRate: 0.5}))

	require.ErrorContains(t, ValidateTracing(tracing.Config{SampleRate: 1.5}), "sample_rate")
	require.ErrorContains(t, ValidateTracing(tracing.Config{Exporter: "zipkin"}), "tracing.exporter")
	require.ErrorContains(t, ValidateTracing(tracing.Config{Enabled: true, Exporter: "file"}), "file_path is required")
	require.ErrorContains(t, ValidateTracing(tracing.Config{Enabled: true, Exporter: "otlp"}), "otlp_endpoint is required")

	// path requirements only apply once enabled
	require.NoError(t, ValidateTracing(tracing.Config{Exporter: "file"}))
}

func TestConfig_Validate_Content(t *testing.T) {
	cfg := Defaults()
	cfg.Content.Backend = "mongo"
	require.ErrorContains(t, cfg.Validate(), "content.backend")
}

func TestDefaultConfigTemplate_IsValidYAML(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &doc))

	for _, section := range []string{"content", "scripts", "ai", "log", "tracing"} {
		require.Contains(t, doc, section)
	}
}

func TestDefaultConfigTemplate_LoadsWithViper(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	require.Equal(t, content.BackendYAML, cfg.Content.Backend)
	require.Equal(t, 10*time.Minute, cfg.Content.Cache.TTL)
	require.Equal(t, "scripts", cfg.Scripts.Dir)
	require.Equal(t, "localhost:4317", cfg.Tracing.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
	require.NoError(t, cfg.Validate())
}

func TestViper_RulesSection(t *testing.T) {
	doc := `
ai:
  disabled: [TotemAI, GuardAI]
  rules:
    - key: CowardAI
      base: ReactorAI
      permit: "health_pct < 30 ? permit_special : permit_no"
`
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	require.Equal(t, []string{"TotemAI", "GuardAI"}, cfg.AI.Disabled)
	require.Equal(t, []RuleConfig{{Key: "CowardAI", Base: "ReactorAI", Permit: "health_pct < 30 ? permit_special : permit_no"}}, cfg.AI.Rules)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestDefaultTracesFilePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	require.Equal(t, filepath.Join("/home/tester", ".config", "creatureai", "traces", "traces.jsonl"), DefaultTracesFilePath())
}
