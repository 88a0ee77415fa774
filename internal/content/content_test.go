package content

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/testutil"
)

const creaturesYAML = `
templates:
  - entry: 68
    name: Stormwind City Guard
    guard: true
  - entry: 299
    name: Young Wolf
    movement_type: random
    wander_distance: 5
  - entry: 1423
    name: Stormwind Patrol
    guard: true
    movement_type: waypoint
    waypoints:
      - {x: 1, y: 0, z: 0}
      - {x: 2, y: 0, z: 0}
  - entry: 416
    name: Imp
    ai_name: EventAI
    react_state: defensive
spawns:
  - guid: 6
    entry: 416
    pet: true
    controlled: true
    owner: player:1
  - guid: 1
    entry: 299
    home: {x: 10, y: 10, z: 0}
  - guid: 9
    entry: 9999
`

func newYAMLStore(t *testing.T) *YAMLStore {
	t.Helper()
	store, err := NewYAMLStore(fstest.MapFS{"creatures.yaml": {Data: []byte(creaturesYAML)}}, "creatures.yaml")
	require.NoError(t, err)
	return store
}

func TestYAMLStore_Templates(t *testing.T) {
	store := newYAMLStore(t)

	templates, err := store.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 4)

	entries := make([]uint32, 0, len(templates))
	for _, tmpl := range templates {
		entries = append(entries, tmpl.Entry)
	}
	require.Equal(t, []uint32{68, 299, 416, 1423}, entries)
}

func TestYAMLStore_Template(t *testing.T) {
	store := newYAMLStore(t)

	imp, err := store.Template(context.Background(), 416)
	require.NoError(t, err)
	require.Equal(t, "EventAI", imp.AIName)
	require.Equal(t, creature.ReactDefensive, imp.ReactState)

	patrol, err := store.Template(context.Background(), 1423)
	require.NoError(t, err)
	require.True(t, patrol.Guard)
	require.Equal(t, creature.WaypointMovement, patrol.MovementType)
	require.Equal(t, []creature.Position{{X: 1}, {X: 2}}, patrol.Waypoints)

	_, err = store.Template(context.Background(), 1)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestYAMLStore_Spawns(t *testing.T) {
	store := newYAMLStore(t)

	spawns, err := store.Spawns(context.Background())
	require.NoError(t, err)
	require.Len(t, spawns, 3)

	require.Equal(t, creature.NewGUID(creature.HighUnit, 1), spawns[0].GUID)
	require.Equal(t, creature.Position{X: 10, Y: 10}, spawns[0].Home)

	imp := spawns[1]
	require.Equal(t, creature.NewGUID(creature.HighPet, 6), imp.GUID)
	require.True(t, imp.Pet)
	require.True(t, imp.Controlled)
	require.Equal(t, creature.NewGUID(creature.HighPlayer, 1), imp.Owner)
}

func TestNewYAMLStore_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad react":      "templates:\n  - entry: 1\n    react_state: furious\n",
		"missing entry":  "templates:\n  - name: nobody\n",
		"duplicate":      "templates:\n  - entry: 1\n  - entry: 1\n",
		"bad owner":      "spawns:\n  - guid: 1\n    entry: 1\n    owner: wizard:1\n",
		"malformed yaml": "templates: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewYAMLStore(fstest.MapFS{"c.yaml": {Data: []byte(doc)}}, "c.yaml")
			require.Error(t, err)
		})
	}

	_, err := NewYAMLStore(fstest.MapFS{}, "missing.yaml")
	require.Error(t, err)
}

func TestSnapshots_SkipsUnknownEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	snaps, err := Snapshots(context.Background(), newYAMLStore(t), logger)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	require.Equal(t, "Young Wolf", snaps[0].Name())
	require.Equal(t, creature.RandomMovement, snaps[0].DefaultMovementType())
	require.True(t, snaps[1].IsControlled())
	require.Equal(t, "EventAI", snaps[1].AIName())

	require.Contains(t, buf.String(), "[ERROR] [db] spawn references unknown creature entry guid=unit:9 entry=9999")
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path, db := testutil.NewTestDBFile(t)
	testutil.NewBuilder(t, db).WithStandardContent().Build()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Templates(t *testing.T) {
	store := newSQLiteStore(t)

	templates, err := store.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 7)
	require.Equal(t, testutil.EntryStormwind, templates[0].Entry)

	var patrol creature.Template
	for _, tmpl := range templates {
		if tmpl.Entry == testutil.EntryPatrol {
			patrol = tmpl
		}
	}
	require.Len(t, patrol.Waypoints, 3)
	require.Equal(t, 3.0, patrol.Waypoints[2].X)
}

func TestSQLiteStore_Template(t *testing.T) {
	store := newSQLiteStore(t)

	rabbit, err := store.Template(context.Background(), testutil.EntryRabbit)
	require.NoError(t, err)
	require.True(t, rabbit.Civilian)
	require.Equal(t, creature.ReactPassive, rabbit.ReactState)
	require.Equal(t, 3.0, rabbit.WanderDistance)
	require.Empty(t, rabbit.Waypoints)

	patrol, err := store.Template(context.Background(), testutil.EntryPatrol)
	require.NoError(t, err)
	require.Equal(t, []creature.Position{{X: 1}, {X: 2}, {X: 3}}, patrol.Waypoints)

	_, err = store.Template(context.Background(), 9999)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSQLiteStore_Spawns(t *testing.T) {
	store := newSQLiteStore(t)

	spawns, err := store.Spawns(context.Background())
	require.NoError(t, err)
	require.Len(t, spawns, 8)

	imp := spawns[5]
	require.Equal(t, creature.NewGUID(creature.HighPet, 6), imp.GUID)
	require.True(t, imp.Controlled)
	require.Equal(t, creature.NewGUID(creature.HighPlayer, 1), imp.Owner)
	require.Equal(t, creature.Position{X: 10, Y: 10}, spawns[0].Home)
}

func TestSQLiteStore_Snapshots(t *testing.T) {
	var buf bytes.Buffer

	snaps, err := Snapshots(context.Background(), newSQLiteStore(t), log.New(&buf))
	require.NoError(t, err)
	require.Len(t, snaps, 7)
	require.Contains(t, buf.String(), "entry=9999")
}

func TestSQLiteStore_ReadOnly(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.db.Exec(`DELETE FROM creature`)
	require.Error(t, err)
}

func TestNewSQLiteStore_MissingFile(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
}

type countingStore struct {
	Store
	calls int
}

func (c *countingStore) Template(ctx context.Context, entry uint32) (creature.Template, error) {
	c.calls++
	return c.Store.Template(ctx, entry)
}

func TestCachedStore_Template(t *testing.T) {
	inner := &countingStore{Store: newYAMLStore(t)}
	store := NewCachedStore(inner, time.Minute)

	for i := 0; i < 3; i++ {
		tmpl, err := store.Template(context.Background(), 299)
		require.NoError(t, err)
		require.Equal(t, "Young Wolf", tmpl.Name)
	}
	require.Equal(t, 1, inner.calls)

	require.NoError(t, store.Invalidate(context.Background(), 299))
	_, err := store.Template(context.Background(), 299)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestCachedStore_MissIsNotCached(t *testing.T) {
	inner := &countingStore{Store: newYAMLStore(t)}
	store := NewCachedStore(inner, 0)

	for i := 0; i < 2; i++ {
		_, err := store.Template(context.Background(), 5)
		require.ErrorIs(t, err, ErrTemplateNotFound)
	}
	require.Equal(t, 2, inner.calls)

	spawns, err := store.Spawns(context.Background())
	require.NoError(t, err)
	require.Len(t, spawns, 3)
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creatures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(creaturesYAML), 0o600))

	store, err := NewStore(Config{Backend: BackendYAML, Path: path})
	require.NoError(t, err)
	require.IsType(t, &YAMLStore{}, store)

	cached, err := NewStore(Config{Path: path, Cache: CacheConfig{Enabled: true, TTL: time.Minute}})
	require.NoError(t, err)
	require.IsType(t, &CachedStore{}, cached)
	require.NoError(t, cached.Close())

	_, err = NewStore(Config{Backend: "postgres", Path: path})
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewStore_SQLite(t *testing.T) {
	path, db := testutil.NewTestDBFile(t)
	testutil.NewBuilder(t, db).WithStandardContent().Build()

	store, err := NewStore(Config{Backend: BackendSQLite, Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	templates, err := store.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 7)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.Error(t, Config{Backend: "csv", Path: "x"}.Validate())
	require.Error(t, Config{Backend: BackendYAML}.Validate())
	require.Error(t, Config{Path: "x", Cache: CacheConfig{TTL: -time.Second}}.Validate())
}
