package testutil

import "github.com/zjrosen/creatureai/internal/domain/creature"

// Creature is a mutable creature.Creature for tests that need to change state
// between ticks.
type Creature struct {
	ID          creature.GUID
	EntryID     uint32
	DisplayName string
	Pet         bool
	Controlled  bool
	Charmed     bool
	Totem       bool
	Guard       bool
	Civilian    bool
	React       creature.ReactState
	AI          string
	Script      string
	Owner       creature.GUID
	Target      creature.GUID
	Health      float64
	Movement    creature.MovementType
	HomePos     creature.Position
	Path        []creature.Position
	Wander      float64
}

var _ creature.Creature = (*Creature)(nil)

// CreatureOption configures a Creature built by NewCreature.
type CreatureOption func(*Creature)

// NewCreature returns a unit creature with counter guid, adjusted by opts.
func NewCreature(counter uint32, opts ...CreatureOption) *Creature {
	c := &Creature{
		ID:       creature.NewGUID(creature.HighUnit, counter),
		EntryID:  counter,
		React:    creature.ReactAggressive,
		Health:   100,
		Movement: creature.IdleMovement,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AsPet marks the creature as a pet, owned by a player when controlled.
func AsPet(controlled bool) CreatureOption {
	return func(c *Creature) {
		c.Pet = true
		c.Controlled = controlled
		if controlled && c.Owner.IsEmpty() {
			c.Owner = creature.NewGUID(creature.HighPlayer, 1)
		}
	}
}

// AsTotem marks the creature as a totem.
func AsTotem() CreatureOption { return func(c *Creature) { c.Totem = true } }

// AsGuard marks the creature as a guard.
func AsGuard() CreatureOption { return func(c *Creature) { c.Guard = true } }

// AsCivilian marks the creature as a civilian.
func AsCivilian() CreatureOption { return func(c *Creature) { c.Civilian = true } }

// Charmed marks the creature as charmed.
func Charmed() CreatureOption { return func(c *Creature) { c.Charmed = true } }

// WithReact sets the react state.
func WithReact(r creature.ReactState) CreatureOption { return func(c *Creature) { c.React = r } }

// WithAIName sets the content AI name.
func WithAIName(name string) CreatureOption { return func(c *Creature) { c.AI = name } }

// WithScriptName sets the content script name.
func WithScriptName(name string) CreatureOption { return func(c *Creature) { c.Script = name } }

// WithOwner sets the owner guid.
func WithOwner(g creature.GUID) CreatureOption { return func(c *Creature) { c.Owner = g } }

// WithVictim sets the current target.
func WithVictim(g creature.GUID) CreatureOption { return func(c *Creature) { c.Target = g } }

// WithHealth sets the health percentage.
func WithHealth(pct float64) CreatureOption { return func(c *Creature) { c.Health = pct } }

// WithMovement sets the default movement type.
func WithMovement(m creature.MovementType) CreatureOption {
	return func(c *Creature) { c.Movement = m }
}

// WithPath sets the waypoint path.
func WithPath(points ...creature.Position) CreatureOption {
	return func(c *Creature) { c.Path = points }
}

// WithWander sets the home position and wander distance.
func WithWander(home creature.Position, distance float64) CreatureOption {
	return func(c *Creature) {
		c.HomePos = home
		c.Wander = distance
	}
}

func (c *Creature) GUID() creature.GUID                        { return c.ID }
func (c *Creature) Entry() uint32                              { return c.EntryID }
func (c *Creature) Name() string                               { return c.DisplayName }
func (c *Creature) IsPet() bool                                { return c.Pet }
func (c *Creature) IsControlled() bool                         { return c.Pet && c.Controlled }
func (c *Creature) IsCharmed() bool                            { return c.Charmed }
func (c *Creature) IsTotem() bool                              { return c.Totem }
func (c *Creature) IsGuard() bool                              { return c.Guard }
func (c *Creature) IsCivilian() bool                           { return c.Civilian }
func (c *Creature) ReactState() creature.ReactState            { return c.React }
func (c *Creature) AIName() string                             { return c.AI }
func (c *Creature) ScriptName() string                         { return c.Script }
func (c *Creature) OwnerGUID() creature.GUID                   { return c.Owner }
func (c *Creature) DefaultMovementType() creature.MovementType { return c.Movement }
func (c *Creature) Victim() creature.GUID                      { return c.Target }
func (c *Creature) HealthPercent() float64                     { return c.Health }
func (c *Creature) Home() creature.Position                    { return c.HomePos }
func (c *Creature) Waypoints() []creature.Position             { return c.Path }
func (c *Creature) WanderDistance() float64                    { return c.Wander }
