package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/content"
	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/movement"
	"github.com/zjrosen/creatureai/internal/selector"
	"github.com/zjrosen/creatureai/internal/tracing"
)

// Selection is the outcome of selecting a controller and a movement
// generator for one spawn.
type Selection struct {
	GUID          creature.GUID
	Entry         uint32
	Name          string
	AIKey         string
	Source        selector.Source
	MovementKey   string
	MovementFound bool
}

// Tick is one controller and generator update.
type Tick struct {
	N      int
	Intent ai.Intent
	Step   movement.Step
}

// Simulation is a selection followed by its driven ticks.
type Simulation struct {
	Selection
	Ticks []Tick
}

// Snapshots loads every spawn from the store, optionally only those of entry
// (zero means all).
func (a *App) Snapshots(ctx context.Context, entry uint32) ([]*creature.Snapshot, error) {
	snaps, err := content.Snapshots(ctx, a.store, a.logger)
	if err != nil {
		return nil, err
	}
	if entry == 0 {
		return snaps, nil
	}
	filtered := snaps[:0]
	for _, s := range snaps {
		if s.Entry() == entry {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// Select runs selection for every spawn.
func (a *App) Select(ctx context.Context, entry uint32) ([]Selection, error) {
	snaps, err := a.Snapshots(ctx, entry)
	if err != nil {
		return nil, err
	}
	out := make([]Selection, 0, len(snaps))
	for _, c := range snaps {
		sel, _, _ := a.selectOne(ctx, c)
		out = append(out, sel)
	}
	return out, nil
}

// Simulate selects a controller and a generator for each spawn and updates
// both ticks times, tick apart.
func (a *App) Simulate(ctx context.Context, entry uint32, ticks int, tick time.Duration) ([]Simulation, error) {
	if ticks < 0 {
		return nil, fmt.Errorf("ticks must not be negative, got %d", ticks)
	}

	runID := uuid.NewString()
	ctx, span := a.tracer.Tracer().Start(ctx, tracing.SpanSimulate, trace.WithAttributes(
		attribute.String(tracing.AttrRunID, runID),
		attribute.Int(tracing.AttrTicks, ticks),
	))
	defer span.End()

	snaps, err := a.Snapshots(ctx, entry)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]Simulation, 0, len(snaps))
	for _, c := range snaps {
		sel, ctrl, gen := a.selectOne(ctx, c)
		sim := Simulation{Selection: sel, Ticks: make([]Tick, 0, ticks)}
		for n := 1; n <= ticks; n++ {
			t := Tick{N: n, Intent: ctrl.UpdateAI(tick)}
			if gen != nil {
				t.Step = gen.Update(tick)
			}
			sim.Ticks = append(sim.Ticks, t)
		}
		out = append(out, sim)
	}

	a.logger.Debug(log.CatApp, "simulation finished", "run", runID, "creatures", len(out), "ticks", ticks)
	return out, nil
}

func (a *App) selectOne(ctx context.Context, c *creature.Snapshot) (Selection, ai.Controller, movement.Generator) {
	choice := a.selector.Choose(ctx, c)
	moveKey, gen := a.selector.ChooseMovement(ctx, c)
	return Selection{
		GUID:          c.GUID(),
		Entry:         c.Entry(),
		Name:          c.Name(),
		AIKey:         choice.Key,
		Source:        choice.Source,
		MovementKey:   moveKey,
		MovementFound: gen != nil,
	}, choice.Controller, gen
}
