// Package ai defines behaviour controllers, the factories that build them and
// the permit-scoring capability used when no explicit controller key applies.
package ai

import (
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/domain/registry"
)

// Well-known controller keys.
const (
	KeyPet       = "PetAI"
	KeyGuardian  = "GuardianAI"
	KeyTotem     = "TotemAI"
	KeyGuard     = "GuardAI"
	KeyNull      = "NullCreatureAI"
	KeyPossessed = "PossessedAI"
	KeyScripted  = "ScriptedAI"
	KeyAggressor = "AggressorAI"
	KeyReactor   = "ReactorAI"
)

// Permit levels returned by Selectable.Permit. Higher wins.
const (
	PermitBaseNo              = -1
	PermitBaseIdle            = 1
	PermitBaseReactive        = 100
	PermitBaseProactive       = 200
	PermitBaseFactionSpecific = 400
	PermitBaseSpecial         = 800
)

// ErrNotSelectable is returned when a factory without the scoring capability
// is registered in the AI registry.
var ErrNotSelectable = errors.New("factory does not implement Selectable")

// Controller drives one creature. It is owned by the creature for the
// creature's behavioural lifetime.
type Controller interface {
	// UpdateAI advances the controller by diff and reports its decision.
	UpdateAI(diff time.Duration) Intent
}

// Factory builds controllers bound to a creature.
type Factory interface {
	Key() string
	Create(c creature.Creature) Controller
}

// Selectable is the optional scoring capability of a Factory.
type Selectable interface {
	// Permit rates how well the factory fits c. PermitBaseNo means "never".
	Permit(c creature.Creature) int
}

// CreateFunc builds a controller for c.
type CreateFunc func(c creature.Creature) Controller

// PermitFunc scores c.
type PermitFunc func(c creature.Creature) int

type keyedFactory struct {
	key    string
	create CreateFunc
}

func (f *keyedFactory) Key() string                           { return f.key }
func (f *keyedFactory) Create(c creature.Creature) Controller { return f.create(c) }

type selectableFactory struct {
	keyedFactory
	permit PermitFunc
}

func (f *selectableFactory) Permit(c creature.Creature) int { return f.permit(c) }

// NewKeyedFactory returns a factory that can only be selected by key.
// The AI registry rejects it; it exists for registries that do not scan.
func NewKeyedFactory(key string, create CreateFunc) Factory {
	return &keyedFactory{key: key, create: create}
}

// NewFactory returns a scoring-capable factory.
func NewFactory(key string, create CreateFunc, permit PermitFunc) Factory {
	return &selectableFactory{
		keyedFactory: keyedFactory{key: key, create: create},
		permit:       permit,
	}
}

// Registry is the AI controller registry.
type Registry = registry.Registry[Factory]

// Provider is read access to an AI registry.
type Provider = registry.Provider[Factory]

// NewRegistry returns an empty AI registry that only admits Selectable factories.
func NewRegistry() *Registry {
	return registry.New[Factory]("ai", registry.WithValidator(RequireSelectable))
}

// RequireSelectable is the AI registry's registration-time check.
func RequireSelectable(f Factory) error {
	if _, ok := f.(Selectable); !ok {
		return fmt.Errorf("%w: %T", ErrNotSelectable, f)
	}
	return nil
}
