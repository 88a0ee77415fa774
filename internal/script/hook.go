// Package script provides the external override consulted before any
// built-in controller selection.
package script

import (
	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/domain/creature"
)

// Hook may supply a controller for a creature. It is advisory: declining is
// the normal answer and failures inside a hook are reported as declines.
type Hook interface {
	ScriptedController(c creature.Creature) (ai.Controller, bool)
}

// NopHook never overrides.
type NopHook struct{}

var _ Hook = NopHook{}

// ScriptedController always declines.
func (NopHook) ScriptedController(creature.Creature) (ai.Controller, bool) { return nil, false }

// HookFunc adapts a function to Hook.
type HookFunc func(c creature.Creature) (ai.Controller, bool)

// ScriptedController calls f.
func (f HookFunc) ScriptedController(c creature.Creature) (ai.Controller, bool) { return f(c) }
