package builtin

import (
	bt "github.com/joeycumines/go-behaviortree"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/domain/creature"
)

const (
	guardEvadeHealth  = 15
	reactorHelpHealth = 50
)

func newPetAI(c creature.Creature) ai.Controller {
	return newTreeController(ai.KeyPet, c, func(t *treeController) bt.Node {
		return selector(
			sequence(t.hasVictim(), t.act(ai.IntentAttack)),
			sequence(t.hasOwner(), t.act(ai.IntentFollowOwner)),
			t.act(ai.IntentIdle),
		)
	})
}

func petPermit(c creature.Creature) int {
	if c.IsPet() && c.IsControlled() {
		return ai.PermitBaseSpecial
	}
	return ai.PermitBaseNo
}

func newGuardianAI(c creature.Creature) ai.Controller {
	return newTreeController(ai.KeyGuardian, c, func(t *treeController) bt.Node {
		return selector(
			sequence(t.hasVictim(), t.act(ai.IntentAssistOwner)),
			sequence(t.hasOwner(), t.act(ai.IntentFollowOwner)),
			t.act(ai.IntentIdle),
		)
	})
}

func guardianPermit(c creature.Creature) int {
	if c.IsPet() && !c.IsControlled() {
		return ai.PermitBaseSpecial
	}
	return ai.PermitBaseNo
}

func newTotemAI(c creature.Creature) ai.Controller {
	return newTreeController(ai.KeyTotem, c, func(t *treeController) bt.Node {
		return selector(
			sequence(t.hasVictim(), t.act(ai.IntentCastTotemSpell)),
			t.act(ai.IntentIdle),
		)
	})
}

func totemPermit(c creature.Creature) int {
	if c.IsTotem() {
		return ai.PermitBaseSpecial
	}
	return ai.PermitBaseNo
}

func newGuardAI(c creature.Creature) ai.Controller {
	return newTreeController(ai.KeyGuard, c, func(t *treeController) bt.Node {
		return selector(
			sequence(t.hasVictim(), t.healthBelow(guardEvadeHealth), t.act(ai.IntentEvade)),
			sequence(t.hasVictim(), t.act(ai.IntentAttack)),
			t.act(ai.IntentIdle),
		)
	})
}

func guardPermit(c creature.Creature) int {
	if c.IsGuard() {
		return ai.PermitBaseSpecial
	}
	return ai.PermitBaseNo
}

func newAggressorAI(c creature.Creature) ai.Controller {
	return newTreeController(ai.KeyAggressor, c, func(t *treeController) bt.Node {
		return selector(
			sequence(t.hasVictim(), t.act(ai.IntentAttack)),
			t.act(ai.IntentIdle),
		)
	})
}

func aggressorPermit(c creature.Creature) int {
	if !c.IsCivilian() && c.ReactState() != creature.ReactPassive {
		return ai.PermitBaseProactive
	}
	return ai.PermitBaseNo
}

// ReactorAI calls for help once per engagement when it drops below half health.
func newReactorAI(c creature.Creature) ai.Controller {
	return newTreeController(ai.KeyReactor, c, func(t *treeController) bt.Node {
		callOnce := t.when(func() bool {
			if t.calledForHelp {
				return false
			}
			t.calledForHelp = true
			return true
		})
		return selector(
			sequence(t.hasVictim(), t.healthBelow(reactorHelpHealth), callOnce, t.act(ai.IntentCallForHelp)),
			sequence(t.hasVictim(), t.act(ai.IntentAttack)),
			t.act(ai.IntentIdle),
		)
	})
}

func reactorPermit(c creature.Creature) int {
	if c.IsCivilian() || c.ReactState() == creature.ReactPassive {
		return ai.PermitBaseReactive
	}
	return ai.PermitBaseNo
}
