// Package creature defines the read-only classification view of a simulated
// creature that controller and movement selection consume.
package creature

import (
	"fmt"
	"strings"
)

// MovementType keys the movement generator registry.
type MovementType string

const (
	IdleMovement     MovementType = "idle"
	RandomMovement   MovementType = "random"
	WaypointMovement MovementType = "waypoint"
	FollowMovement   MovementType = "follow"
)

// ReactState is how a creature responds to hostiles.
type ReactState uint8

const (
	ReactPassive ReactState = iota
	ReactDefensive
	ReactAggressive
)

func (r ReactState) String() string {
	switch r {
	case ReactPassive:
		return "passive"
	case ReactDefensive:
		return "defensive"
	case ReactAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseReactState maps a content value to a ReactState. Empty means aggressive.
func ParseReactState(s string) (ReactState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passive":
		return ReactPassive, nil
	case "defensive":
		return ReactDefensive, nil
	case "aggressive", "":
		return ReactAggressive, nil
	default:
		return ReactAggressive, fmt.Errorf("unknown react state %q", s)
	}
}

// Position is a point in world space.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Creature is the classification snapshot read at selection time.
// Implementations must not change while a selection call is running;
// selection code never mutates a Creature.
type Creature interface {
	GUID() GUID
	Entry() uint32
	Name() string

	IsPet() bool
	// IsControlled is only meaningful for pets: a controlled pet takes orders
	// from its owner, an uncontrolled one is a guardian or mini-pet.
	IsControlled() bool
	IsCharmed() bool
	IsTotem() bool
	IsGuard() bool
	IsCivilian() bool
	ReactState() ReactState

	// AIName is the explicit controller key from content, possibly empty.
	AIName() string
	// ScriptName binds the creature to a script override, possibly empty.
	ScriptName() string

	OwnerGUID() GUID
	DefaultMovementType() MovementType

	Victim() GUID
	HealthPercent() float64
	Home() Position
	Waypoints() []Position
	WanderDistance() float64
}
