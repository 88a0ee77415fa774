package content

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/creatureai/internal/domain/creature"
)

// File is the root structure of a YAML content file.
type File struct {
	Templates []TemplateDef `yaml:"templates"`
	Spawns    []SpawnDef    `yaml:"spawns"`
}

// TemplateDef is a creature template in YAML.
type TemplateDef struct {
	Entry          uint32              `yaml:"entry"`
	Name           string              `yaml:"name"`
	AIName         string              `yaml:"ai_name"`
	ScriptName     string              `yaml:"script_name"`
	MovementType   string              `yaml:"movement_type"`
	Guard          bool                `yaml:"guard"`
	Totem          bool                `yaml:"totem"`
	Civilian       bool                `yaml:"civilian"`
	ReactState     string              `yaml:"react_state"`
	WanderDistance float64             `yaml:"wander_distance"`
	Waypoints      []creature.Position `yaml:"waypoints"`
}

// SpawnDef is a creature spawn in YAML.
type SpawnDef struct {
	GUID         uint32            `yaml:"guid"`
	Entry        uint32            `yaml:"entry"`
	Pet          bool              `yaml:"pet"`
	Controlled   bool              `yaml:"controlled"`
	Charmed      bool              `yaml:"charmed"`
	Owner        string            `yaml:"owner"`  // e.g. "player:1"
	Victim       string            `yaml:"victim"` // e.g. "unit:12"
	Health       float64           `yaml:"health"`
	Home         creature.Position `yaml:"home"`
	MovementType string            `yaml:"movement_type"`
}

// YAMLStore serves content parsed once from a YAML file.
type YAMLStore struct {
	templates []creature.Template
	byEntry   map[uint32]int
	spawns    []creature.Spawn
}

var _ Store = (*YAMLStore)(nil)

// OpenYAMLStore reads the content file at path.
func OpenYAMLStore(path string) (*YAMLStore, error) {
	return NewYAMLStore(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// NewYAMLStore parses name from fsys.
func NewYAMLStore(fsys fs.FS, name string) (*YAMLStore, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", name, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse content %s: %w", name, err)
	}

	s := &YAMLStore{byEntry: make(map[uint32]int, len(file.Templates))}
	for i, def := range file.Templates {
		tmpl, err := def.template()
		if err != nil {
			return nil, fmt.Errorf("%s: templates[%d]: %w", name, i, err)
		}
		if _, dup := s.byEntry[tmpl.Entry]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate template entry %d", ErrInvalidContent, name, tmpl.Entry)
		}
		s.byEntry[tmpl.Entry] = len(s.templates)
		s.templates = append(s.templates, tmpl)
	}
	for i, def := range file.Spawns {
		spawn, err := def.spawn()
		if err != nil {
			return nil, fmt.Errorf("%s: spawns[%d]: %w", name, i, err)
		}
		s.spawns = append(s.spawns, spawn)
	}

	slices.SortStableFunc(s.templates, func(a, b creature.Template) int { return cmp.Compare(a.Entry, b.Entry) })
	for i, tmpl := range s.templates {
		s.byEntry[tmpl.Entry] = i
	}
	slices.SortStableFunc(s.spawns, func(a, b creature.Spawn) int { return cmp.Compare(a.GUID.Counter, b.GUID.Counter) })

	return s, nil
}

func (d TemplateDef) template() (creature.Template, error) {
	if d.Entry == 0 {
		return creature.Template{}, fmt.Errorf("%w: entry is required", ErrInvalidContent)
	}
	react, err := creature.ParseReactState(d.ReactState)
	if err != nil {
		return creature.Template{}, fmt.Errorf("%w: entry %d: %w", ErrInvalidContent, d.Entry, err)
	}
	return creature.Template{
		Entry:          d.Entry,
		Name:           d.Name,
		AIName:         d.AIName,
		ScriptName:     d.ScriptName,
		MovementType:   creature.MovementType(d.MovementType),
		Guard:          d.Guard,
		Totem:          d.Totem,
		Civilian:       d.Civilian,
		ReactState:     react,
		WanderDistance: d.WanderDistance,
		Waypoints:      d.Waypoints,
	}, nil
}

func (d SpawnDef) spawn() (creature.Spawn, error) {
	owner, err := creature.ParseGUID(d.Owner)
	if err != nil {
		return creature.Spawn{}, fmt.Errorf("%w: guid %d owner: %w", ErrInvalidContent, d.GUID, err)
	}
	victim, err := creature.ParseGUID(d.Victim)
	if err != nil {
		return creature.Spawn{}, fmt.Errorf("%w: guid %d victim: %w", ErrInvalidContent, d.GUID, err)
	}
	return creature.Spawn{
		GUID:         spawnGUID(d.GUID, d.Pet),
		Entry:        d.Entry,
		Pet:          d.Pet,
		Controlled:   d.Controlled,
		Charmed:      d.Charmed,
		Owner:        owner,
		Victim:       victim,
		Health:       d.Health,
		Home:         d.Home,
		MovementType: creature.MovementType(d.MovementType),
	}, nil
}

// Templates returns a copy of the parsed templates.
func (s *YAMLStore) Templates(context.Context) ([]creature.Template, error) {
	return slices.Clone(s.templates), nil
}

// Template returns the template for entry.
func (s *YAMLStore) Template(_ context.Context, entry uint32) (creature.Template, error) {
	i, ok := s.byEntry[entry]
	if !ok {
		return creature.Template{}, fmt.Errorf("%w: %d", ErrTemplateNotFound, entry)
	}
	return s.templates[i], nil
}

// Spawns returns a copy of the parsed spawns.
func (s *YAMLStore) Spawns(context.Context) ([]creature.Spawn, error) {
	return slices.Clone(s.spawns), nil
}

func (s *YAMLStore) Close() error { return nil }
