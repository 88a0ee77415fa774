// Package builtin provides the stock controller implementations. Each one is
// a small behaviour tree evaluated once per UpdateAI call; the action leaf
// that succeeds records the tick's intent.
package builtin

import (
	"time"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
)

// treeController adapts a behaviour tree to ai.Controller.
type treeController struct {
	key           string
	c             creature.Creature
	root          bt.Node
	intent        ai.Intent
	engaged       bool
	calledForHelp bool
}

func newTreeController(key string, c creature.Creature, build func(t *treeController) bt.Node) *treeController {
	t := &treeController{key: key, c: c}
	t.root = build(t)
	return t
}

// UpdateAI ticks the tree once and reports the intent it settled on.
func (t *treeController) UpdateAI(time.Duration) ai.Intent {
	t.intent = ai.IntentNone

	engaged := !t.c.Victim().IsEmpty()
	if !engaged {
		t.calledForHelp = false
	}
	t.engaged = engaged

	status, err := t.root.Tick()
	if err != nil {
		log.ErrorErr(log.CatAI, "behaviour tree tick failed", err, "ai", t.key, "guid", t.c.GUID())
		return ai.IntentNone
	}
	if status != bt.Success {
		return ai.IntentNone
	}
	return t.intent
}

func (t *treeController) act(intent ai.Intent) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		t.intent = intent
		return bt.Success, nil
	})
}

func (t *treeController) when(pred func() bool) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if pred() {
			return bt.Success, nil
		}
		return bt.Failure, nil
	})
}

func (t *treeController) hasVictim() bt.Node {
	return t.when(func() bool { return t.engaged })
}

func (t *treeController) hasOwner() bt.Node {
	return t.when(func() bool { return !t.c.OwnerGUID().IsEmpty() })
}

func (t *treeController) healthBelow(pct float64) bt.Node {
	return t.when(func() bool { return t.c.HealthPercent() < pct })
}

func sequence(children ...bt.Node) bt.Node { return bt.New(bt.Sequence, children...) }
func selector(children ...bt.Node) bt.Node { return bt.New(bt.Selector, children...) }
