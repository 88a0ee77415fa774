package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/creatureai/internal/domain/creature"
)

type stillGenerator struct{}

func (stillGenerator) Type() creature.MovementType { return creature.IdleMovement }
func (stillGenerator) Update(time.Duration) Step   { return Step{} }

func TestNewRegistry_AcceptsKeyedFactories(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(NewFactory(creature.IdleMovement, func(creature.Creature) Generator { return stillGenerator{} }))

	require.NoError(t, err)
	require.Equal(t, "movement", reg.Name())
	require.Equal(t, []string{"idle"}, reg.Keys())
}

func TestNewFactory_Create(t *testing.T) {
	f := NewFactory(creature.FollowMovement, func(creature.Creature) Generator { return stillGenerator{} })

	require.Equal(t, "follow", f.Key())
	require.NotNil(t, f.Create(nil))
	_, selectable := f.(Selectable)
	require.False(t, selectable)
}
