// Package builtin provides the stock movement generators.
package builtin

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/movement"
)

const (
	// RandomPause is how long a random mover stays on one destination.
	RandomPause = 3 * time.Second
	// WaypointLeg is how long a waypoint mover takes per path point.
	WaypointLeg = 2 * time.Second
)

// Install registers idle, random, waypoint and follow.
func Install(reg *movement.Registry) error {
	for _, f := range []movement.Factory{
		movement.NewFactory(creature.IdleMovement, NewIdle),
		movement.NewFactory(creature.RandomMovement, NewRandom),
		movement.NewFactory(creature.WaypointMovement, NewWaypoint),
		movement.NewFactory(creature.FollowMovement, NewFollow),
	} {
		if err := reg.Register(f); err != nil {
			return fmt.Errorf("install builtin movement: %w", err)
		}
	}
	return nil
}

type idle struct {
	home creature.Position
}

// NewIdle holds c at its home position.
func NewIdle(c creature.Creature) movement.Generator { return &idle{home: c.Home()} }

func (g *idle) Type() creature.MovementType        { return creature.IdleMovement }
func (g *idle) Update(time.Duration) movement.Step { return movement.Step{Point: g.home} }

type random struct {
	home    creature.Position
	radius  float64
	rng     *rand.Rand
	target  creature.Position
	elapsed time.Duration
	started bool
}

// NewRandom wanders within c's wander distance of home. The sequence of
// destinations is seeded from the GUID so runs are reproducible.
func NewRandom(c creature.Creature) movement.Generator {
	h := fnv.New64a()
	_, _ = h.Write([]byte(c.GUID().String()))
	seed := h.Sum64()
	return &random{
		home:   c.Home(),
		radius: c.WanderDistance(),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (g *random) Type() creature.MovementType { return creature.RandomMovement }

func (g *random) Update(diff time.Duration) movement.Step {
	if g.radius <= 0 {
		return movement.Step{Point: g.home}
	}
	g.elapsed += diff
	if !g.started || g.elapsed >= RandomPause {
		g.started = true
		g.elapsed = 0
		g.target = g.pick()
	}
	return movement.Step{Moving: true, Point: g.target}
}

// pick returns a uniformly distributed point on the disc around home.
func (g *random) pick() creature.Position {
	angle := g.rng.Float64() * 2 * math.Pi
	dist := g.radius * math.Sqrt(g.rng.Float64())
	return creature.Position{
		X: g.home.X + dist*math.Cos(angle),
		Y: g.home.Y + dist*math.Sin(angle),
		Z: g.home.Z,
	}
}

type waypoint struct {
	home    creature.Position
	path    []creature.Position
	index   int
	elapsed time.Duration
}

// NewWaypoint walks c's path in a loop. An empty path holds at home.
func NewWaypoint(c creature.Creature) movement.Generator {
	return &waypoint{home: c.Home(), path: c.Waypoints()}
}

func (g *waypoint) Type() creature.MovementType { return creature.WaypointMovement }

func (g *waypoint) Update(diff time.Duration) movement.Step {
	if len(g.path) == 0 {
		return movement.Step{Point: g.home}
	}
	g.elapsed += diff
	for g.elapsed >= WaypointLeg {
		g.elapsed -= WaypointLeg
		g.index = (g.index + 1) % len(g.path)
	}
	return movement.Step{Moving: true, Point: g.path[g.index]}
}

type follow struct {
	owner creature.GUID
	home  creature.Position
}

// NewFollow follows c's owner. Without an owner it holds at home.
func NewFollow(c creature.Creature) movement.Generator {
	return &follow{owner: c.OwnerGUID(), home: c.Home()}
}

func (g *follow) Type() creature.MovementType { return creature.FollowMovement }

func (g *follow) Update(time.Duration) movement.Step {
	if g.owner.IsEmpty() {
		return movement.Step{Point: g.home}
	}
	return movement.Step{Moving: true, Follow: g.owner}
}
