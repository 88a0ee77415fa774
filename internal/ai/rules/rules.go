// Package rules builds scoring factories from configured permit expressions.
//
// A rule names a new controller key, the existing factory whose controllers
// it hands out, and an expr-lang expression that scores a creature:
//
//	key: CityGuardAI
//	base: GuardAI
//	permit: "is_guard && entry == 68 ? permit_special + 1 : permit_no"
package rules

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
)

// ErrInvalidRule is returned for a rule that cannot be installed.
var ErrInvalidRule = errors.New("invalid ai rule")

// Rule is one configured scoring factory.
type Rule struct {
	Key    string
	Base   string
	Permit string
}

// Env is the expression environment. Field tags are the names visible to
// permit expressions.
type Env struct {
	Entry         int     `expr:"entry"`
	Name          string  `expr:"name"`
	IsPet         bool    `expr:"is_pet"`
	IsControlled  bool    `expr:"is_controlled"`
	IsCharmed     bool    `expr:"is_charmed"`
	IsTotem       bool    `expr:"is_totem"`
	IsGuard       bool    `expr:"is_guard"`
	IsCivilian    bool    `expr:"is_civilian"`
	ReactState    string  `expr:"react_state"`
	AIName        string  `expr:"ai_name"`
	ScriptName    string  `expr:"script_name"`
	OwnerIsPlayer bool    `expr:"owner_is_player"`
	HasVictim     bool    `expr:"has_victim"`
	HealthPct     float64 `expr:"health_pct"`
	MovementType  string  `expr:"movement_type"`

	PermitNo              int `expr:"permit_no"`
	PermitIdle            int `expr:"permit_idle"`
	PermitReactive        int `expr:"permit_reactive"`
	PermitProactive       int `expr:"permit_proactive"`
	PermitFactionSpecific int `expr:"permit_faction_specific"`
	PermitSpecial         int `expr:"permit_special"`
}

// NewEnv captures c for evaluation.
func NewEnv(c creature.Creature) Env {
	return Env{
		Entry:         int(c.Entry()),
		Name:          c.Name(),
		IsPet:         c.IsPet(),
		IsControlled:  c.IsControlled(),
		IsCharmed:     c.IsCharmed(),
		IsTotem:       c.IsTotem(),
		IsGuard:       c.IsGuard(),
		IsCivilian:    c.IsCivilian(),
		ReactState:    c.ReactState().String(),
		AIName:        c.AIName(),
		ScriptName:    c.ScriptName(),
		OwnerIsPlayer: c.OwnerGUID().IsPlayer(),
		HasVictim:     !c.Victim().IsEmpty(),
		HealthPct:     c.HealthPercent(),
		MovementType:  string(c.DefaultMovementType()),

		PermitNo:              ai.PermitBaseNo,
		PermitIdle:            ai.PermitBaseIdle,
		PermitReactive:        ai.PermitBaseReactive,
		PermitProactive:       ai.PermitBaseProactive,
		PermitFactionSpecific: ai.PermitBaseFactionSpecific,
		PermitSpecial:         ai.PermitBaseSpecial,
	}
}

// Compile checks src against Env and requires an integer result.
func Compile(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(Env{}), expr.AsInt())
}

type ruleFactory struct {
	key     string
	source  string
	base    ai.Factory
	program *vm.Program
	logger  *log.Logger
}

var _ ai.Selectable = (*ruleFactory)(nil)

func (f *ruleFactory) Key() string { return f.key }

// Create hands out the base factory's controller.
func (f *ruleFactory) Create(c creature.Creature) ai.Controller { return f.base.Create(c) }

// Permit evaluates the rule expression. Evaluation failures score PermitBaseNo.
func (f *ruleFactory) Permit(c creature.Creature) int {
	out, err := expr.Run(f.program, NewEnv(c))
	if err != nil {
		f.logger.Warn(log.CatAI, "permit rule failed", "ai", f.key, "guid", c.GUID(), "permit", f.source, "error", err)
		return ai.PermitBaseNo
	}
	score, ok := out.(int)
	if !ok {
		f.logger.Warn(log.CatAI, "permit rule returned non-integer", "ai", f.key, "guid", c.GUID(), "type", fmt.Sprintf("%T", out))
		return ai.PermitBaseNo
	}
	return score
}

// New compiles r against the factories already in reg.
func New(reg ai.Provider, r Rule, logger *log.Logger) (ai.Factory, error) {
	if r.Key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidRule)
	}
	base, ok := reg.Lookup(r.Base)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown base %q", ErrInvalidRule, r.Key, r.Base)
	}
	program, err := Compile(r.Permit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, r.Key, err)
	}
	return &ruleFactory{
		key:     r.Key,
		source:  r.Permit,
		base:    base,
		program: program,
		logger:  logger,
	}, nil
}

// Install compiles and registers rules in order. A rule may use an earlier
// rule as its base.
func Install(reg *ai.Registry, rules []Rule, logger *log.Logger) error {
	for _, r := range rules {
		f, err := New(reg, r, logger)
		if err != nil {
			return err
		}
		if err := reg.Register(f); err != nil {
			return fmt.Errorf("install rule %s: %w", r.Key, err)
		}
		logger.Debug(log.CatAI, "installed permit rule", "ai", r.Key, "base", r.Base, "permit", r.Permit)
	}
	return nil
}
