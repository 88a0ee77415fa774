package ai

import (
	"time"

	"github.com/zjrosen/creatureai/internal/domain/creature"
)

// NullController performs no behaviour. Selection falls back to it so a
// creature never runs without a controller.
type NullController struct{}

var _ Controller = NullController{}

// UpdateAI always reports IntentNone.
func (NullController) UpdateAI(time.Duration) Intent { return IntentNone }

// NullFactory is the registry entry for NullController. It permits everything
// at the idle level so a populated scan always has a last resort.
func NullFactory() Factory {
	return NewFactory(KeyNull,
		func(creature.Creature) Controller { return NullController{} },
		func(creature.Creature) int { return PermitBaseIdle },
	)
}

// PossessedController is used while a player possesses a creature: it fights
// whatever the creature is fighting and otherwise waits for orders.
type PossessedController struct {
	c creature.Creature
}

var _ Controller = (*PossessedController)(nil)

// NewPossessedController binds a possessed controller to c.
func NewPossessedController(c creature.Creature) *PossessedController {
	return &PossessedController{c: c}
}

// UpdateAI implements Controller.
func (p *PossessedController) UpdateAI(time.Duration) Intent {
	if !p.c.Victim().IsEmpty() {
		return IntentAttack
	}
	return IntentObey
}
