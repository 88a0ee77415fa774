package testutil

import "github.com/zjrosen/creatureai/internal/domain/creature"

// Standard content entries.
const (
	EntryWolf        uint32 = 299
	EntryStormwind   uint32 = 68
	EntryHealingWard uint32 = 3527
	EntryRabbit      uint32 = 721
	EntryBoss        uint32 = 1000
	EntryImp         uint32 = 416
	EntryPatrol      uint32 = 1423
)

// WithStandardContent adds a small world covering every selection path:
// a proactive wolf, a guard, a totem, a civilian critter, a named AI, a pet
// and a waypoint patrol, one spawn each plus a spawn of an unknown entry.
func (b *Builder) WithStandardContent() *Builder {
	player := creature.NewGUID(creature.HighPlayer, 1)

	return b.
		WithTemplate(EntryWolf, "Young Wolf", Movement(creature.RandomMovement), Wander(5)).
		WithTemplate(EntryStormwind, "Stormwind City Guard", Guard()).
		WithTemplate(EntryHealingWard, "Healing Ward", Totem()).
		WithTemplate(EntryRabbit, "Rabbit", Civilian(), React("passive"), Movement(creature.RandomMovement), Wander(3)).
		WithTemplate(EntryBoss, "Hogger", AIName("GuardAI")).
		WithTemplate(EntryImp, "Imp", AIName("EventAI")).
		WithTemplate(EntryPatrol, "Stormwind Patrol", Guard(), Movement(creature.WaypointMovement),
			Waypoints(creature.Position{X: 1}, creature.Position{X: 2}, creature.Position{X: 3})).
		WithSpawn(1, EntryWolf, Home(creature.Position{X: 10, Y: 10})).
		WithSpawn(2, EntryStormwind).
		WithSpawn(3, EntryHealingWard).
		WithSpawn(4, EntryRabbit).
		WithSpawn(5, EntryBoss).
		WithSpawn(6, EntryImp, Pet(true), Owner(player)).
		WithSpawn(7, EntryPatrol).
		WithSpawn(8, 9999)
}
