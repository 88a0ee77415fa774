package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builder accumulates content rows and inserts them in dependency order.
type Builder struct {
	t         *testing.T
	db        *sql.DB
	templates []templateData
	spawns    []spawnData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithTemplate adds a creature template.
func (b *Builder) WithTemplate(entry uint32, name string, opts ...TemplateOption) *Builder {
	tmpl := defaultTemplate(entry, name)
	for _, opt := range opts {
		opt(&tmpl)
	}
	b.templates = append(b.templates, tmpl)
	return b
}

// WithSpawn adds a creature spawn of entry.
func (b *Builder) WithSpawn(guid, entry uint32, opts ...SpawnOption) *Builder {
	spawn := spawnData{guid: guid, entry: entry, health: 100}
	for _, opt := range opts {
		opt(&spawn)
	}
	b.spawns = append(b.spawns, spawn)
	return b
}

// Build inserts all accumulated rows.
func (b *Builder) Build() {
	b.t.Helper()

	for _, tmpl := range b.templates {
		_, err := b.db.Exec(`
			INSERT INTO creature_template (entry, name, ai_name, script_name, movement_type,
				is_guard, is_totem, is_civilian, react_state, wander_distance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tmpl.entry, tmpl.name, tmpl.aiName, tmpl.scriptName, tmpl.movementType,
			boolToInt(tmpl.guard), boolToInt(tmpl.totem), boolToInt(tmpl.civilian),
			tmpl.reactState, tmpl.wanderDistance)
		require.NoError(b.t, err, "insert template %d", tmpl.entry)

		for i, p := range tmpl.waypoints {
			_, err := b.db.Exec(`INSERT INTO creature_waypoint (entry, point, x, y, z) VALUES (?, ?, ?, ?, ?)`,
				tmpl.entry, i, p.X, p.Y, p.Z)
			require.NoError(b.t, err, "insert waypoint %d/%d", tmpl.entry, i)
		}
	}

	for _, s := range b.spawns {
		_, err := b.db.Exec(`
			INSERT INTO creature (guid, entry, is_pet, is_controlled, is_charmed, owner, victim,
				health, home_x, home_y, home_z, movement_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.guid, s.entry, boolToInt(s.pet), boolToInt(s.controlled), boolToInt(s.charmed),
			s.owner, s.victim, s.health, s.home.X, s.home.Y, s.home.Z, s.movementType)
		require.NoError(b.t, err, "insert spawn %d", s.guid)
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
