package testutil

import "github.com/zjrosen/creatureai/internal/domain/creature"

// templateData holds a creature_template row.
type templateData struct {
	entry          uint32
	name           string
	aiName         string
	scriptName     string
	movementType   string
	guard          bool
	totem          bool
	civilian       bool
	reactState     string
	wanderDistance float64
	waypoints      []creature.Position
}

func defaultTemplate(entry uint32, name string) templateData {
	return templateData{
		entry:        entry,
		name:         name,
		movementType: string(creature.IdleMovement),
		reactState:   "aggressive",
	}
}

// TemplateOption configures a template during builder setup.
type TemplateOption func(*templateData)

// AIName sets the template AI name.
func AIName(name string) TemplateOption { return func(d *templateData) { d.aiName = name } }

// ScriptName sets the template script name.
func ScriptName(name string) TemplateOption { return func(d *templateData) { d.scriptName = name } }

// Movement sets the template movement type.
func Movement(m creature.MovementType) TemplateOption {
	return func(d *templateData) { d.movementType = string(m) }
}

// Guard marks the template as a guard.
func Guard() TemplateOption { return func(d *templateData) { d.guard = true } }

// Totem marks the template as a totem.
func Totem() TemplateOption { return func(d *templateData) { d.totem = true } }

// Civilian marks the template as a civilian.
func Civilian() TemplateOption { return func(d *templateData) { d.civilian = true } }

// React sets the template react state name.
func React(state string) TemplateOption { return func(d *templateData) { d.reactState = state } }

// Wander sets the wander distance.
func Wander(distance float64) TemplateOption {
	return func(d *templateData) { d.wanderDistance = distance }
}

// Waypoints sets the template path.
func Waypoints(points ...creature.Position) TemplateOption {
	return func(d *templateData) { d.waypoints = points }
}

// spawnData holds a creature row.
type spawnData struct {
	guid         uint32
	entry        uint32
	pet          bool
	controlled   bool
	charmed      bool
	owner        string
	victim       string
	health       float64
	home         creature.Position
	movementType string
}

// SpawnOption configures a spawn during builder setup.
type SpawnOption func(*spawnData)

// Pet marks the spawn as a pet, controlled or not.
func Pet(controlled bool) SpawnOption {
	return func(d *spawnData) {
		d.pet = true
		d.controlled = controlled
	}
}

// IsCharmed marks the spawn as charmed.
func IsCharmed() SpawnOption { return func(d *spawnData) { d.charmed = true } }

// Owner sets the owner guid.
func Owner(g creature.GUID) SpawnOption { return func(d *spawnData) { d.owner = g.String() } }

// Victim sets the current target guid.
func Victim(g creature.GUID) SpawnOption { return func(d *spawnData) { d.victim = g.String() } }

// Health sets the health percentage.
func Health(pct float64) SpawnOption { return func(d *spawnData) { d.health = pct } }

// Home sets the spawn home position.
func Home(p creature.Position) SpawnOption { return func(d *spawnData) { d.home = p } }

// SpawnMovement overrides the template movement type.
func SpawnMovement(m creature.MovementType) SpawnOption {
	return func(d *spawnData) { d.movementType = string(m) }
}
