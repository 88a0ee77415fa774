package builtin

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/movement"
	"github.com/zjrosen/creatureai/internal/testutil"
)

func TestInstall(t *testing.T) {
	reg := movement.NewRegistry()

	require.NoError(t, Install(reg))
	require.Equal(t, []string{"idle", "random", "waypoint", "follow"}, reg.Keys())
	require.Error(t, Install(reg))
}

func TestIdle(t *testing.T) {
	home := creature.Position{X: 4, Y: 2}
	g := NewIdle(testutil.NewCreature(1, testutil.WithWander(home, 10)))

	require.Equal(t, creature.IdleMovement, g.Type())
	require.Equal(t, movement.Step{Point: home}, g.Update(time.Hour))
}

func TestRandom_NoWanderDistanceHolds(t *testing.T) {
	g := NewRandom(testutil.NewCreature(1))

	step := g.Update(time.Second)

	require.False(t, step.Moving)
	require.Equal(t, creature.Position{}, step.Point)
}

func TestRandom_ReproduciblePerGUID(t *testing.T) {
	home := creature.Position{X: 100, Y: 100}
	a := NewRandom(testutil.NewCreature(7, testutil.WithWander(home, 5)))
	b := NewRandom(testutil.NewCreature(7, testutil.WithWander(home, 5)))
	other := NewRandom(testutil.NewCreature(8, testutil.WithWander(home, 5)))

	var differs bool
	for i := 0; i < 10; i++ {
		sa, sb, so := a.Update(RandomPause), b.Update(RandomPause), other.Update(RandomPause)
		require.Equal(t, sa, sb)
		if sa.Point != so.Point {
			differs = true
		}
	}
	require.True(t, differs)
}

func TestRandom_KeepsDestinationDuringPause(t *testing.T) {
	g := NewRandom(testutil.NewCreature(3, testutil.WithWander(creature.Position{}, 8)))

	first := g.Update(0)
	require.Equal(t, first, g.Update(RandomPause/2))
	require.NotEqual(t, first, g.Update(RandomPause))
}

func TestRandom_StaysWithinWanderDistance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counter := uint32(rapid.IntRange(1, 1_000_000).Draw(t, "counter"))
		radius := float64(rapid.IntRange(1, 500).Draw(t, "radius")) / 10
		home := creature.Position{
			X: float64(rapid.IntRange(-1000, 1000).Draw(t, "x")),
			Y: float64(rapid.IntRange(-1000, 1000).Draw(t, "y")),
			Z: float64(rapid.IntRange(-10, 10).Draw(t, "z")),
		}
		g := NewRandom(testutil.NewCreature(counter, testutil.WithWander(home, radius)))

		for i := 0; i < 20; i++ {
			step := g.Update(RandomPause)
			dist := math.Hypot(step.Point.X-home.X, step.Point.Y-home.Y)
			if dist > radius+1e-9 {
				t.Fatalf("point %v is %.3f from home, wander distance %.3f", step.Point, dist, radius)
			}
			if step.Point.Z != home.Z {
				t.Fatalf("z changed: %v", step.Point.Z)
			}
		}
	})
}

func TestWaypoint_CyclesPath(t *testing.T) {
	path := []creature.Position{{X: 1}, {X: 2}, {X: 3}}
	g := NewWaypoint(testutil.NewCreature(1, testutil.WithPath(path...)))

	require.Equal(t, creature.WaypointMovement, g.Type())

	var got []float64
	for i := 0; i < 5; i++ {
		step := g.Update(WaypointLeg)
		require.True(t, step.Moving)
		got = append(got, step.Point.X)
	}
	require.Equal(t, []float64{2, 3, 1, 2, 3}, got)
}

func TestWaypoint_PartialLeg(t *testing.T) {
	g := NewWaypoint(testutil.NewCreature(1, testutil.WithPath(creature.Position{X: 1}, creature.Position{X: 2})))

	require.Equal(t, 1.0, g.Update(WaypointLeg/2).Point.X)
	require.Equal(t, 2.0, g.Update(WaypointLeg/2).Point.X)
	require.Equal(t, 2.0, g.Update(0).Point.X)
	require.Equal(t, 1.0, g.Update(3*WaypointLeg).Point.X)
}

func TestWaypoint_EmptyPathHolds(t *testing.T) {
	home := creature.Position{Y: 9}
	g := NewWaypoint(testutil.NewCreature(1, testutil.WithWander(home, 0)))

	require.Equal(t, movement.Step{Point: home}, g.Update(time.Minute))
}

func TestFollow(t *testing.T) {
	owner := creature.NewGUID(creature.HighPlayer, 12)
	g := NewFollow(testutil.NewCreature(1, testutil.WithOwner(owner)))

	require.Equal(t, creature.FollowMovement, g.Type())
	require.Equal(t, movement.Step{Moving: true, Follow: owner}, g.Update(time.Second))

	alone := NewFollow(testutil.NewCreature(2))
	require.False(t, alone.Update(time.Second).Moving)
}
