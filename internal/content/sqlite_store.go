package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
)

const templateColumns = `entry, name, ai_name, script_name, movement_type,
	is_guard, is_totem, is_civilian, react_state, wander_distance`

// SQLiteStore reads content from a creature database opened read-only.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	log.Debug(log.CatContent, "Opening content database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		log.ErrorErr(log.CatContent, "Failed to open content database", err, "path", path)
		return nil, fmt.Errorf("open content database: %w", err)
	}
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatContent, "Failed to ping content database", err, "path", path)
		_ = db.Close()
		return nil, fmt.Errorf("open content database: %w", err)
	}
	log.Info(log.CatContent, "Connected to content database", "path", path)
	return NewSQLiteStoreFromDB(db, path), nil
}

// NewSQLiteStoreFromDB wraps an open handle. Close closes db.
func NewSQLiteStoreFromDB(db *sql.DB, path string) *SQLiteStore {
	return &SQLiteStore{db: db, path: path}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (creature.Template, error) {
	var (
		tmpl                    creature.Template
		movementType, react     string
		isGuard, isTotem, isCiv int
	)
	err := row.Scan(&tmpl.Entry, &tmpl.Name, &tmpl.AIName, &tmpl.ScriptName, &movementType,
		&isGuard, &isTotem, &isCiv, &react, &tmpl.WanderDistance)
	if err != nil {
		return creature.Template{}, err
	}
	tmpl.MovementType = creature.MovementType(movementType)
	tmpl.Guard = isGuard != 0
	tmpl.Totem = isTotem != 0
	tmpl.Civilian = isCiv != 0
	tmpl.ReactState, err = creature.ParseReactState(react)
	if err != nil {
		return creature.Template{}, fmt.Errorf("%w: entry %d: %w", ErrInvalidContent, tmpl.Entry, err)
	}
	return tmpl, nil
}

// Templates returns every template with its waypoints.
func (s *SQLiteStore) Templates(ctx context.Context) ([]creature.Template, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM creature_template ORDER BY entry`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []creature.Template
	index := make(map[uint32]int)
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		index[tmpl.Entry] = len(templates)
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	wps, err := s.db.QueryContext(ctx, `SELECT entry, x, y, z FROM creature_waypoint ORDER BY entry, point`)
	if err != nil {
		return nil, fmt.Errorf("query waypoints: %w", err)
	}
	defer func() { _ = wps.Close() }()

	for wps.Next() {
		var (
			entry uint32
			p     creature.Position
		)
		if err := wps.Scan(&entry, &p.X, &p.Y, &p.Z); err != nil {
			return nil, fmt.Errorf("scan waypoint: %w", err)
		}
		if i, ok := index[entry]; ok {
			templates[i].Waypoints = append(templates[i].Waypoints, p)
		}
	}
	if err := wps.Err(); err != nil {
		return nil, fmt.Errorf("iterate waypoints: %w", err)
	}

	return templates, nil
}

// Template returns one template with its waypoints.
func (s *SQLiteStore) Template(ctx context.Context, entry uint32) (creature.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM creature_template WHERE entry = ?`, entry)
	tmpl, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return creature.Template{}, fmt.Errorf("%w: %d", ErrTemplateNotFound, entry)
	}
	if err != nil {
		return creature.Template{}, fmt.Errorf("query template %d: %w", entry, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT x, y, z FROM creature_waypoint WHERE entry = ? ORDER BY point`, entry)
	if err != nil {
		return creature.Template{}, fmt.Errorf("query waypoints %d: %w", entry, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var p creature.Position
		if err := rows.Scan(&p.X, &p.Y, &p.Z); err != nil {
			return creature.Template{}, fmt.Errorf("scan waypoint %d: %w", entry, err)
		}
		tmpl.Waypoints = append(tmpl.Waypoints, p)
	}
	if err := rows.Err(); err != nil {
		return creature.Template{}, fmt.Errorf("iterate waypoints %d: %w", entry, err)
	}
	return tmpl, nil
}

// Spawns returns every creature row ordered by guid.
func (s *SQLiteStore) Spawns(ctx context.Context) ([]creature.Spawn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, entry, is_pet, is_controlled, is_charmed, owner, victim,
			health, home_x, home_y, home_z, movement_type
		FROM creature
		ORDER BY guid`)
	if err != nil {
		return nil, fmt.Errorf("query spawns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var spawns []creature.Spawn
	for rows.Next() {
		var (
			spawn                    creature.Spawn
			counter                  uint32
			isPet, isCtrl, isCharmed int
			owner, victim, moveType  string
		)
		err := rows.Scan(&counter, &spawn.Entry, &isPet, &isCtrl, &isCharmed, &owner, &victim,
			&spawn.Health, &spawn.Home.X, &spawn.Home.Y, &spawn.Home.Z, &moveType)
		if err != nil {
			return nil, fmt.Errorf("scan spawn: %w", err)
		}
		spawn.Pet = isPet != 0
		spawn.Controlled = isCtrl != 0
		spawn.Charmed = isCharmed != 0
		spawn.GUID = spawnGUID(counter, spawn.Pet)
		spawn.MovementType = creature.MovementType(moveType)
		if spawn.Owner, err = creature.ParseGUID(owner); err != nil {
			return nil, fmt.Errorf("%w: guid %d owner: %w", ErrInvalidContent, counter, err)
		}
		if spawn.Victim, err = creature.ParseGUID(victim); err != nil {
			return nil, fmt.Errorf("%w: guid %d victim: %w", ErrInvalidContent, counter, err)
		}
		spawns = append(spawns, spawn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spawns: %w", err)
	}
	return spawns, nil
}
