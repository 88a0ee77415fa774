// Package movement defines movement generators and their registry.
//
// Movement generators are selected by key only: the creature's default
// movement type, or follow when its owner is a player. Factories may expose
// Selectable but the selector never scans this registry.
package movement

import (
	"time"

	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/domain/registry"
)

// Step is a generator's output for one update.
type Step struct {
	// Moving is false when the creature should hold position.
	Moving bool
	// Point is the current destination.
	Point creature.Position
	// Follow is the unit being followed, empty unless following.
	Follow creature.GUID
}

// Generator produces movement for one creature.
type Generator interface {
	Type() creature.MovementType
	Update(diff time.Duration) Step
}

// Factory builds generators bound to a creature.
type Factory interface {
	Key() string
	Create(c creature.Creature) Generator
}

// Selectable mirrors ai.Selectable for movement factories. It is not
// consulted during selection.
type Selectable interface {
	Permit(c creature.Creature) int
}

// CreateFunc builds a generator for c.
type CreateFunc func(c creature.Creature) Generator

type factory struct {
	key    creature.MovementType
	create CreateFunc
}

func (f *factory) Key() string                          { return string(f.key) }
func (f *factory) Create(c creature.Creature) Generator { return f.create(c) }

// NewFactory returns a keyed movement factory.
func NewFactory(key creature.MovementType, create CreateFunc) Factory {
	return &factory{key: key, create: create}
}

// Registry is the movement generator registry.
type Registry = registry.Registry[Factory]

// Provider is read access to a movement registry.
type Provider = registry.Provider[Factory]

// NewRegistry returns an empty movement registry.
func NewRegistry() *Registry {
	return registry.New[Factory]("movement")
}
