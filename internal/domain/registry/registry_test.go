package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubFactory struct {
	key   string
	score int
}

func (s *stubFactory) Key() string { return s.key }

func mk(key string) *stubFactory { return &stubFactory{key: key} }

func TestNew(t *testing.T) {
	reg := New[*stubFactory]("ai")
	require.NotNil(t, reg)
	require.Equal(t, "ai", reg.Name())
	require.Zero(t, reg.Len())
	require.Empty(t, reg.All())
	require.False(t, reg.Frozen())
}

func TestRegistry_Register(t *testing.T) {
	reg := New[*stubFactory]("ai")

	require.NoError(t, reg.Register(mk("PetAI")))
	require.Equal(t, 1, reg.Len())
	require.True(t, reg.Contains("PetAI"))
}

func TestRegistry_Register_EmptyKey(t *testing.T) {
	reg := New[*stubFactory]("ai")

	err := reg.Register(mk(""))

	require.ErrorIs(t, err, ErrEmptyKey)
	require.Zero(t, reg.Len())
}

func TestRegistry_Register_NilFactory(t *testing.T) {
	reg := New[*stubFactory]("ai")

	err := reg.Register(nil)

	require.ErrorIs(t, err, ErrNilFactory)
}

func TestRegistry_Register_NilInterface(t *testing.T) {
	reg := New[Keyed]("ai")

	err := reg.Register(nil)

	require.ErrorIs(t, err, ErrNilFactory)
}

func TestRegistry_Register_DuplicateKey(t *testing.T) {
	reg := New[*stubFactory]("ai")
	require.NoError(t, reg.Register(mk("GuardAI")))

	err := reg.Register(&stubFactory{key: "GuardAI", score: 9})

	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Contains(t, err.Error(), "GuardAI")
	got, ok := reg.Lookup("GuardAI")
	require.True(t, ok)
	require.Zero(t, got.score, "first registration must win")
}

func TestRegistry_Register_KeysAreCaseSensitive(t *testing.T) {
	reg := New[*stubFactory]("ai")

	require.NoError(t, reg.Register(mk("PetAI")))
	require.NoError(t, reg.Register(mk("petai")))
	require.Equal(t, 2, reg.Len())
}

func TestRegistry_Register_Validator(t *testing.T) {
	errOdd := errors.New("odd score")
	reg := New[*stubFactory]("ai", WithValidator(func(f *stubFactory) error {
		if f.score%2 != 0 {
			return errOdd
		}
		return nil
	}))

	require.NoError(t, reg.Register(&stubFactory{key: "even", score: 2}))
	err := reg.Register(&stubFactory{key: "odd", score: 3})

	require.ErrorIs(t, err, errOdd)
	require.Contains(t, err.Error(), "odd")
	require.False(t, reg.Contains("odd"))
}

func TestRegistry_Freeze(t *testing.T) {
	reg := New[*stubFactory]("movement")
	require.NoError(t, reg.Register(mk("idle")))

	reg.Freeze()

	require.True(t, reg.Frozen())
	require.ErrorIs(t, reg.Register(mk("random")), ErrFrozen)
	require.Equal(t, []string{"idle"}, reg.Keys())
}

func TestRegistry_MustRegister_PanicsOnDuplicate(t *testing.T) {
	reg := New[*stubFactory]("ai")
	reg.MustRegister(mk("TotemAI"))

	require.Panics(t, func() { reg.MustRegister(mk("TotemAI")) })
}

func TestRegistry_Lookup_Miss(t *testing.T) {
	reg := New[*stubFactory]("ai")

	got, ok := reg.Lookup("CustomBossAI")

	require.False(t, ok)
	require.Nil(t, got)
}

func TestRegistry_All_InsertionOrder(t *testing.T) {
	reg := New[*stubFactory]("ai")
	for _, k := range []string{"c", "a", "b", "NullCreatureAI"} {
		reg.MustRegister(mk(k))
	}

	keys := make([]string, 0)
	for _, f := range reg.All() {
		keys = append(keys, f.Key())
	}

	require.Equal(t, []string{"c", "a", "b", "NullCreatureAI"}, keys)
	require.Equal(t, keys, reg.Keys())
}

func TestRegistry_All_ReturnsCopy(t *testing.T) {
	reg := New[*stubFactory]("ai")
	reg.MustRegister(mk("a"))

	all := reg.All()
	all[0] = mk("mutated")

	got, ok := reg.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "a", got.Key())
	require.Equal(t, "a", reg.All()[0].Key())
}
