package presentation

import (
	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/app"
	"github.com/zjrosen/creatureai/internal/domain/creature"
)

// SelectionDTO is one spawn's selected controller and movement generator.
type SelectionDTO struct {
	GUID     string `json:"guid"`
	Entry    uint32 `json:"entry"`
	Name     string `json:"name"`
	AI       string `json:"ai"`
	Source   string `json:"source"`
	Movement string `json:"movement"`
	// MovementFound is false when no generator is registered for Movement.
	MovementFound bool `json:"movement_found"`
}

// TickDTO is one simulated update.
type TickDTO struct {
	N      int                `json:"n"`
	Intent string             `json:"intent"`
	Moving bool               `json:"moving"`
	Point  *creature.Position `json:"point,omitempty"`
	Follow string             `json:"follow,omitempty"`
}

// SimulationDTO is a selection with its simulated ticks.
type SimulationDTO struct {
	SelectionDTO
	Ticks []TickDTO `json:"ticks"`
}

// FactoryDTO describes a registered factory.
type FactoryDTO struct {
	Kind       string `json:"kind"` // "ai" or "movement"
	Key        string `json:"key"`
	Selectable bool   `json:"selectable"`
}

// FromSelection converts an app selection to a DTO.
func FromSelection(s app.Selection) SelectionDTO {
	return SelectionDTO{
		GUID:          s.GUID.String(),
		Entry:         s.Entry,
		Name:          s.Name,
		AI:            s.AIKey,
		Source:        string(s.Source),
		Movement:      s.MovementKey,
		MovementFound: s.MovementFound,
	}
}

// FromSelections converts a slice of selections.
func FromSelections(rows []app.Selection) []SelectionDTO {
	dtos := make([]SelectionDTO, len(rows))
	for i, row := range rows {
		dtos[i] = FromSelection(row)
	}
	return dtos
}

// FromSimulations converts a slice of simulations.
func FromSimulations(sims []app.Simulation) []SimulationDTO {
	dtos := make([]SimulationDTO, len(sims))
	for i, sim := range sims {
		ticks := make([]TickDTO, len(sim.Ticks))
		for j, t := range sim.Ticks {
			ticks[j] = TickDTO{N: t.N, Intent: t.Intent.String(), Moving: t.Step.Moving}
			if t.Step.Follow.IsEmpty() {
				p := t.Step.Point
				ticks[j].Point = &p
			} else {
				ticks[j].Follow = t.Step.Follow.String()
			}
		}
		dtos[i] = SimulationDTO{SelectionDTO: FromSelection(sim.Selection), Ticks: ticks}
	}
	return dtos
}

// FromAIRegistry lists AI factories in registration order.
func FromAIRegistry(reg ai.Provider) []FactoryDTO {
	all := reg.All()
	dtos := make([]FactoryDTO, len(all))
	for i, f := range all {
		_, selectable := f.(ai.Selectable)
		dtos[i] = FactoryDTO{Kind: "ai", Key: f.Key(), Selectable: selectable}
	}
	return dtos
}

// FromMovementKeys lists movement factories. Movement is never scored.
func FromMovementKeys(keys []string) []FactoryDTO {
	dtos := make([]FactoryDTO, len(keys))
	for i, key := range keys {
		dtos[i] = FactoryDTO{Kind: "movement", Key: key}
	}
	return dtos
}
