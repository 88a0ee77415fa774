// Package testutil provides creature fixtures and sqlite content databases for tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
)

// Schema is the creature content schema read by content.SQLiteStore.
const Schema = `
CREATE TABLE creature_template (
	entry INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	ai_name TEXT NOT NULL DEFAULT '',
	script_name TEXT NOT NULL DEFAULT '',
	movement_type TEXT NOT NULL DEFAULT 'idle',
	is_guard INTEGER NOT NULL DEFAULT 0,
	is_totem INTEGER NOT NULL DEFAULT 0,
	is_civilian INTEGER NOT NULL DEFAULT 0,
	react_state TEXT NOT NULL DEFAULT 'aggressive',
	wander_distance REAL NOT NULL DEFAULT 0
);

CREATE TABLE creature_waypoint (
	entry INTEGER NOT NULL,
	point INTEGER NOT NULL,
	x REAL NOT NULL DEFAULT 0,
	y REAL NOT NULL DEFAULT 0,
	z REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (entry, point),
	FOREIGN KEY (entry) REFERENCES creature_template(entry)
);

CREATE TABLE creature (
	guid INTEGER PRIMARY KEY,
	entry INTEGER NOT NULL,
	is_pet INTEGER NOT NULL DEFAULT 0,
	is_controlled INTEGER NOT NULL DEFAULT 0,
	is_charmed INTEGER NOT NULL DEFAULT 0,
	owner TEXT NOT NULL DEFAULT '',
	victim TEXT NOT NULL DEFAULT '',
	health REAL NOT NULL DEFAULT 100,
	home_x REAL NOT NULL DEFAULT 0,
	home_y REAL NOT NULL DEFAULT 0,
	home_z REAL NOT NULL DEFAULT 0,
	movement_type TEXT NOT NULL DEFAULT ''
);
`

// NewTestDB creates an in-memory SQLite database with the content schema.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(Schema)
	require.NoError(t, err)

	return db
}

// NewTestDBFile creates a content database file under t.TempDir and returns
// its path along with a writable handle. The handle is closed on cleanup.
func NewTestDBFile(t *testing.T) (string, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "content.db")
	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(Schema)
	require.NoError(t, err)

	return path, db
}
