package builtin

import (
	"fmt"
	"slices"

	"github.com/zjrosen/creatureai/internal/ai"
)

// Factories returns the stock factories in registration order.
func Factories() []ai.Factory {
	return []ai.Factory{
		ai.NewFactory(ai.KeyPet, newPetAI, petPermit),
		ai.NewFactory(ai.KeyGuardian, newGuardianAI, guardianPermit),
		ai.NewFactory(ai.KeyTotem, newTotemAI, totemPermit),
		ai.NewFactory(ai.KeyGuard, newGuardAI, guardPermit),
		ai.NewFactory(ai.KeyAggressor, newAggressorAI, aggressorPermit),
		ai.NewFactory(ai.KeyReactor, newReactorAI, reactorPermit),
		ai.NullFactory(),
	}
}

// Install registers every stock factory whose key is not in disabled.
func Install(reg *ai.Registry, disabled ...string) error {
	for _, f := range Factories() {
		if slices.Contains(disabled, f.Key()) {
			continue
		}
		if err := reg.Register(f); err != nil {
			return fmt.Errorf("install builtin controllers: %w", err)
		}
	}
	return nil
}
