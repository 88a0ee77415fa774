// Package selector decides which controller and movement generator govern a
// creature.
//
// Controller selection runs a fixed chain, first success wins:
//
//  1. the script hook, unless the creature is a controlled pet or charmed
//  2. keyed lookup by classification: controlled pet, pet, totem, explicit
//     AI name, guard
//  3. a permit scan over every registered factory in registration order
//  4. the null controller
//
// A keyed lookup that misses goes straight to the null controller. Movement
// selection is keyed only.
package selector

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/movement"
	"github.com/zjrosen/creatureai/internal/script"
	"github.com/zjrosen/creatureai/internal/tracing"
)

// ErrRegistryInvariant is the panic value when the permit scan meets a
// factory without the Selectable capability.
var ErrRegistryInvariant = errors.New("registry invariant violated")

// Source records which step of the chain produced a controller.
type Source string

const (
	SourceScript   Source = "script"
	SourcePet      Source = "pet"
	SourceGuardian Source = "guardian"
	SourceTotem    Source = "totem"
	SourceName     Source = "name"
	SourceGuard    Source = "guard"
	SourcePermit   Source = "permit"
	SourceNull     Source = "null"
)

// Choice is the outcome of controller selection.
type Choice struct {
	Key        string
	Source     Source
	Controller ai.Controller
}

// Selector chooses controllers and movement generators. It holds no mutable
// state and is safe for concurrent use once its registries are frozen.
type Selector struct {
	ai     ai.Provider
	moves  movement.Provider
	hook   script.Hook
	logger *log.Logger
	tracer trace.Tracer
}

// Option configures a Selector.
type Option func(*Selector)

// WithHook installs the script override hook. The default never overrides.
func WithHook(h script.Hook) Option {
	return func(s *Selector) {
		if h != nil {
			s.hook = h
		}
	}
}

// WithLogger sets the logger. The default is the package-level logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Selector) { s.logger = l }
}

// WithTracer sets the tracer. The default records nothing.
func WithTracer(t trace.Tracer) Option {
	return func(s *Selector) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New returns a selector over the given registries.
func New(aiReg ai.Provider, moves movement.Provider, opts ...Option) *Selector {
	s := &Selector{
		ai:     aiReg,
		moves:  moves,
		hook:   script.NopHook{},
		tracer: noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectAI returns a fresh controller bound to c. It never returns nil.
func (s *Selector) SelectAI(ctx context.Context, c creature.Creature) ai.Controller {
	return s.Choose(ctx, c).Controller
}

// Choose runs controller selection and reports how the controller was found.
func (s *Selector) Choose(ctx context.Context, c creature.Creature) Choice {
	_, span := s.tracer.Start(ctx, tracing.SpanSelectAI, trace.WithAttributes(
		attribute.String(tracing.AttrCreatureGUID, c.GUID().String()),
		attribute.Int(tracing.AttrCreatureEntry, int(c.Entry())),
	))
	defer span.End()

	choice := s.choose(c)

	span.SetAttributes(
		attribute.String(tracing.AttrAIKey, choice.Key),
		attribute.String(tracing.AttrAISource, string(choice.Source)),
	)
	s.logger.Debug(log.CatAI, "selected controller",
		"guid", c.GUID(), "entry", c.Entry(), "ai", choice.Key, "source", choice.Source)
	return choice
}

func (s *Selector) choose(c creature.Creature) Choice {
	controlledPet := c.IsPet() && c.IsControlled()

	if !controlledPet && !c.IsCharmed() {
		if ctrl, ok := s.hook.ScriptedController(c); ok && ctrl != nil {
			return Choice{Key: ai.KeyScripted, Source: SourceScript, Controller: ctrl}
		}
	}

	var (
		key    string
		source Source
	)
	switch {
	case controlledPet:
		key, source = ai.KeyPet, SourcePet
	case c.IsPet():
		s.checkGuardianName(c)
		key, source = ai.KeyGuardian, SourceGuardian
	case c.IsTotem():
		key, source = ai.KeyTotem, SourceTotem
	case c.AIName() != "":
		key, source = c.AIName(), SourceName
	case c.IsGuard():
		key, source = ai.KeyGuard, SourceGuard
	default:
		return s.scan(c)
	}

	f, ok := s.ai.Lookup(key)
	if !ok {
		return nullChoice()
	}
	return s.create(f, source, c)
}

// checkGuardianName warns when an uncontrolled pet carries an AI name that
// resolves differently from GuardianAI, which it gets regardless.
func (s *Selector) checkGuardianName(c creature.Creature) {
	name := c.AIName()
	if name == "" {
		return
	}
	named, namedOK := s.ai.Lookup(name)
	guardian, guardianOK := s.ai.Lookup(ai.KeyGuardian)
	if namedOK == guardianOK && (!namedOK || named.Key() == guardian.Key()) {
		return
	}
	s.logger.Warn(log.CatDB, "pet has an AI name other than GuardianAI; using GuardianAI",
		"guid", c.GUID(), "entry", c.Entry(), "ai", name)
}

func (s *Selector) scan(c creature.Creature) Choice {
	best := ai.PermitBaseNo
	var chosen ai.Factory
	for _, f := range s.ai.All() {
		sel, ok := f.(ai.Selectable)
		if !ok {
			panic(fmt.Errorf("%w: factory %q cannot be scored", ErrRegistryInvariant, f.Key()))
		}
		if score := sel.Permit(c); score > best {
			best, chosen = score, f
		}
	}
	if chosen == nil {
		return nullChoice()
	}
	return s.create(chosen, SourcePermit, c)
}

func (s *Selector) create(f ai.Factory, source Source, c creature.Creature) Choice {
	ctrl := f.Create(c)
	if ctrl == nil {
		return nullChoice()
	}
	return Choice{Key: f.Key(), Source: source, Controller: ctrl}
}

func nullChoice() Choice {
	return Choice{Key: ai.KeyNull, Source: SourceNull, Controller: ai.NullController{}}
}

// PossessAI returns the controller used while a player possesses c.
func (s *Selector) PossessAI(c creature.Creature) ai.Controller {
	return ai.NewPossessedController(c)
}

// SelectMovementGenerator returns a generator for c, or nil when its
// movement key is not registered.
func (s *Selector) SelectMovementGenerator(ctx context.Context, c creature.Creature) movement.Generator {
	_, gen := s.ChooseMovement(ctx, c)
	return gen
}

// ChooseMovement resolves c's movement key and the generator registered
// under it. A creature owned by a player always follows.
func (s *Selector) ChooseMovement(ctx context.Context, c creature.Creature) (string, movement.Generator) {
	_, span := s.tracer.Start(ctx, tracing.SpanSelectMovement, trace.WithAttributes(
		attribute.String(tracing.AttrCreatureGUID, c.GUID().String()),
		attribute.Int(tracing.AttrCreatureEntry, int(c.Entry())),
	))
	defer span.End()

	key := string(c.DefaultMovementType())
	if c.OwnerGUID().IsPlayer() {
		key = string(creature.FollowMovement)
	}

	var gen movement.Generator
	f, ok := s.moves.Lookup(key)
	if ok {
		gen = f.Create(c)
	}

	span.SetAttributes(
		attribute.String(tracing.AttrMovementKey, key),
		attribute.Bool(tracing.AttrMovementFound, gen != nil),
	)
	s.logger.Debug(log.CatMoveGen, "selected movement generator",
		"guid", c.GUID(), "entry", c.Entry(), "movement", key, "found", gen != nil)
	return key, gen
}
