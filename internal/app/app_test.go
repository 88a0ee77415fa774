package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/config"
	"github.com/zjrosen/creatureai/internal/content"
	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/pubsub"
	"github.com/zjrosen/creatureai/internal/selector"
	"github.com/zjrosen/creatureai/internal/testutil"
	"github.com/zjrosen/creatureai/internal/tracing"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	path, db := testutil.NewTestDBFile(t)
	testutil.NewBuilder(t, db).WithStandardContent().Build()

	cfg := config.Defaults()
	cfg.Content.Backend = content.BackendSQLite
	cfg.Content.Path = path
	return cfg
}

func newApp(t *testing.T, cfg config.Config, opts ...Option) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestNew_BuildsFrozenRegistries(t *testing.T) {
	a := newApp(t, sqliteConfig(t))

	require.True(t, a.AIRegistry().Frozen())
	require.True(t, a.MovementRegistry().Frozen())
	require.Equal(t, []string{
		ai.KeyPet, ai.KeyGuardian, ai.KeyTotem, ai.KeyGuard, ai.KeyAggressor, ai.KeyReactor, ai.KeyNull,
	}, a.AIRegistry().Keys())
	require.Equal(t, []string{"idle", "random", "waypoint", "follow"}, a.MovementRegistry().Keys())
	require.Nil(t, a.Scripts())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.AI.Disabled = []string{ai.KeyNull}

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "invalid config")
}

func TestNew_MissingContent(t *testing.T) {
	cfg := config.Defaults()
	cfg.Content.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "content")
}

func TestNew_BadRule(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.AI.Rules = []config.RuleConfig{{Key: "BrokenAI", Base: ai.KeyGuard, Permit: "is_guard +"}}

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestBuildAIRegistry_DisabledAndRules(t *testing.T) {
	reg, err := BuildAIRegistry(config.AIConfig{
		Disabled: []string{ai.KeyTotem},
		Rules:    []config.RuleConfig{{Key: "CowardAI", Base: ai.KeyReactor, Permit: "permit_special"}},
	}, nil)
	require.NoError(t, err)

	require.False(t, reg.Contains(ai.KeyTotem))
	require.True(t, reg.Contains("CowardAI"))
	require.Equal(t, "CowardAI", reg.Keys()[len(reg.Keys())-1])
	require.True(t, reg.Frozen())
}

func TestApp_Select_StandardContent(t *testing.T) {
	var buf bytes.Buffer
	a := newApp(t, sqliteConfig(t), WithLogger(log.New(&buf)))

	rows, err := a.Select(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 7, "spawn of unknown entry is skipped")

	type want struct {
		ai     string
		source selector.Source
		move   string
	}
	expected := map[uint32]want{
		testutil.EntryWolf:        {ai.KeyAggressor, selector.SourcePermit, "random"},
		testutil.EntryStormwind:   {ai.KeyGuard, selector.SourceGuard, "idle"},
		testutil.EntryHealingWard: {ai.KeyTotem, selector.SourceTotem, "idle"},
		testutil.EntryRabbit:      {ai.KeyReactor, selector.SourcePermit, "random"},
		testutil.EntryBoss:        {ai.KeyGuard, selector.SourceName, "idle"},
		testutil.EntryImp:         {ai.KeyPet, selector.SourcePet, "follow"},
		testutil.EntryPatrol:      {ai.KeyGuard, selector.SourceGuard, "waypoint"},
	}
	for _, row := range rows {
		w, ok := expected[row.Entry]
		require.True(t, ok, "unexpected entry %d", row.Entry)
		require.Equal(t, w.ai, row.AIKey, row.Name)
		require.Equal(t, w.source, row.Source, row.Name)
		require.Equal(t, w.move, row.MovementKey, row.Name)
		require.True(t, row.MovementFound, row.Name)
	}

	require.Contains(t, buf.String(), "[ERROR] [db] spawn references unknown creature entry")
}

func TestApp_Select_EntryFilter(t *testing.T) {
	a := newApp(t, sqliteConfig(t))

	rows, err := a.Select(context.Background(), testutil.EntryImp)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, creature.NewGUID(creature.HighPet, 6), rows[0].GUID)
}

func TestApp_Select_DisabledBuiltinFallsBack(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.AI.Disabled = []string{ai.KeyTotem}
	a := newApp(t, cfg)

	rows, err := a.Select(context.Background(), testutil.EntryHealingWard)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, ai.KeyNull, rows[0].AIKey)
	require.Equal(t, selector.SourceNull, rows[0].Source)
}

func TestApp_Select_RuleWinsScan(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.AI.Rules = []config.RuleConfig{{
		Key:    "CowardAI",
		Base:   ai.KeyReactor,
		Permit: "is_civilian ? permit_special : permit_no",
	}}
	a := newApp(t, cfg)

	rows, err := a.Select(context.Background(), testutil.EntryRabbit)
	require.NoError(t, err)
	require.Equal(t, "CowardAI", rows[0].AIKey)
	require.Equal(t, selector.SourcePermit, rows[0].Source)
}

func TestApp_Simulate(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	a := newApp(t, sqliteConfig(t), WithTracerProvider(tracing.NewProviderWith(tp)))

	sims, err := a.Simulate(context.Background(), 0, 3, 500*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, sims, 7)

	for _, sim := range sims {
		require.Len(t, sim.Ticks, 3)
		require.Equal(t, 1, sim.Ticks[0].N)
		switch sim.Entry {
		case testutil.EntryImp:
			require.Equal(t, ai.IntentFollowOwner, sim.Ticks[2].Intent)
			require.True(t, sim.Ticks[0].Step.Follow.IsPlayer())
		case testutil.EntryWolf, testutil.EntryStormwind:
			require.Equal(t, ai.IntentIdle, sim.Ticks[0].Intent)
		}
	}

	names := make(map[string]int)
	for _, s := range recorder.Ended() {
		names[s.Name()]++
		if s.Name() == tracing.SpanSimulate {
			runID := attrValue(s.Attributes(), tracing.AttrRunID)
			_, err := uuid.Parse(runID)
			require.NoError(t, err, "run id %q", runID)
		}
	}
	require.Equal(t, 1, names[tracing.SpanSimulate])
	require.Equal(t, 7, names[tracing.SpanSelectAI])
	require.Equal(t, 7, names[tracing.SpanSelectMovement])
}

func attrValue(kvs []attribute.KeyValue, key string) string {
	for _, kv := range kvs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestApp_Simulate_NegativeTicks(t *testing.T) {
	a := newApp(t, sqliteConfig(t))

	_, err := a.Simulate(context.Background(), 0, -1, time.Second)
	require.Error(t, err)
}

const scriptedContent = `
templates:
  - entry: 1
    name: Cowardly Kobold
    script_name: coward
  - entry: 2
    name: Kobold Guard
    guard: true
    script_name: coward
spawns:
  - guid: 1
    entry: 1
  - guid: 2
    entry: 2
`

const cowardScript = `
registerCreatureScript("coward", function (c) {
  if (c.is_guard) return null;
  return { updateAI: function (diffMs) { return "evade"; } };
});
`

func scriptedConfig(t *testing.T, script string) (config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "coward.js"), []byte(script), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "creatures.yaml"), []byte(scriptedContent), 0o600))

	cfg := config.Defaults()
	cfg.Content.Path = filepath.Join(dir, "creatures.yaml")
	cfg.Scripts = config.ScriptsConfig{Enabled: true, Dir: scripts}
	return cfg, scripts
}

func TestApp_Scripts(t *testing.T) {
	cfg, _ := scriptedConfig(t, cowardScript)
	a := newApp(t, cfg)

	require.Equal(t, []string{"coward"}, a.Scripts().Names())

	sims, err := a.Simulate(context.Background(), 0, 2, time.Second)
	require.NoError(t, err)
	require.Len(t, sims, 2)

	require.Equal(t, ai.KeyScripted, sims[0].AIKey)
	require.Equal(t, selector.SourceScript, sims[0].Source)
	require.Equal(t, ai.IntentEvade, sims[0].Ticks[1].Intent)

	// the script declines guards, so the chain continues to GuardAI
	require.Equal(t, ai.KeyGuard, sims[1].AIKey)
	require.Equal(t, selector.SourceGuard, sims[1].Source)
}

func TestApp_Scripts_LoadError(t *testing.T) {
	cfg, _ := scriptedConfig(t, `registerCreatureScript(`)

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "scripts")
}

func TestApp_Scripts_Watch(t *testing.T) {
	cfg, dir := scriptedConfig(t, cowardScript)
	cfg.Scripts.Watch = true
	a := newApp(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := a.Scripts().Subscribe(ctx)

	brave := `registerCreatureScript("brave", function (c) { return null; });`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brave.js"), []byte(brave), 0o600))

	ev, ok := pubsub.Next(ctx, events)
	require.True(t, ok, "expected a reload event")
	require.Equal(t, pubsub.ReloadedEvent, ev.Type)
	require.ElementsMatch(t, []string{"brave", "coward"}, a.Scripts().Names())
}

func TestApp_Close_Idempotent(t *testing.T) {
	cfg, _ := scriptedConfig(t, cowardScript)
	cfg.Scripts.Watch = true
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()))
}
