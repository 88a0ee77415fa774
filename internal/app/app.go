// Package app wires the registries, script hook, tracer, content store and
// selector from a config.Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/zjrosen/creatureai/internal/ai"
	aibuiltin "github.com/zjrosen/creatureai/internal/ai/builtin"
	"github.com/zjrosen/creatureai/internal/ai/rules"
	"github.com/zjrosen/creatureai/internal/config"
	"github.com/zjrosen/creatureai/internal/content"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/movement"
	movebuiltin "github.com/zjrosen/creatureai/internal/movement/builtin"
	"github.com/zjrosen/creatureai/internal/script"
	"github.com/zjrosen/creatureai/internal/selector"
	"github.com/zjrosen/creatureai/internal/tracing"
	"github.com/zjrosen/creatureai/internal/watcher"
)

// App owns every long-lived component built at startup.
type App struct {
	cfg    config.Config
	logger *log.Logger

	aiReg    *ai.Registry
	moveReg  *movement.Registry
	selector *selector.Selector
	store    content.Store
	tracer   *tracing.Provider

	hook    *script.JSHook
	watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Option overrides a component New would otherwise build from the config.
type Option func(*options)

type options struct {
	logger *log.Logger
	store  content.Store
	tracer *tracing.Provider
}

// WithLogger sets the logger handed to every component.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithStore uses store instead of opening cfg.Content.
func WithStore(store content.Store) Option { return func(o *options) { o.store = store } }

// WithTracerProvider uses p instead of building one from cfg.Tracing.
func WithTracerProvider(p *tracing.Provider) Option { return func(o *options) { o.tracer = p } }

// New builds an App. On error everything opened so far is closed.
func New(ctx context.Context, cfg config.Config, opts ...Option) (_ *App, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{cfg: cfg, logger: o.logger}
	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	if a.aiReg, err = BuildAIRegistry(cfg.AI, a.logger); err != nil {
		return nil, err
	}
	if a.moveReg, err = BuildMovementRegistry(); err != nil {
		return nil, err
	}

	a.tracer = o.tracer
	if a.tracer == nil {
		if a.tracer, err = tracing.NewProvider(ctx, cfg.Tracing); err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
	}

	hook, err := a.buildHook(ctx)
	if err != nil {
		return nil, err
	}

	a.store = o.store
	if a.store == nil {
		if a.store, err = content.NewStore(cfg.Content); err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
	}

	a.selector = selector.New(a.aiReg, a.moveReg,
		selector.WithHook(hook),
		selector.WithLogger(a.logger),
		selector.WithTracer(a.tracer.Tracer()),
	)

	a.logger.Info(log.CatApp, "started",
		"ai", a.aiReg.Len(), "movement", a.moveReg.Len(), "scripts", cfg.Scripts.Enabled, "tracing", a.tracer.Enabled())
	return a, nil
}

// BuildAIRegistry registers the built-in controllers minus cfg.Disabled, then
// the configured rules, and freezes the result.
func BuildAIRegistry(cfg config.AIConfig, logger *log.Logger) (*ai.Registry, error) {
	reg := ai.NewRegistry()
	if err := aibuiltin.Install(reg, cfg.Disabled...); err != nil {
		return nil, err
	}

	rs := make([]rules.Rule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		rs[i] = rules.Rule{Key: r.Key, Base: r.Base, Permit: r.Permit}
	}
	if err := rules.Install(reg, rs, logger); err != nil {
		return nil, err
	}

	reg.Freeze()
	return reg, nil
}

// BuildMovementRegistry registers and freezes the built-in generators.
func BuildMovementRegistry() (*movement.Registry, error) {
	reg := movement.NewRegistry()
	if err := movebuiltin.Install(reg); err != nil {
		return nil, err
	}
	reg.Freeze()
	return reg, nil
}

func (a *App) buildHook(ctx context.Context) (script.Hook, error) {
	if !a.cfg.Scripts.Enabled {
		return script.NopHook{}, nil
	}

	dir := a.cfg.Scripts.Dir
	fsys := os.DirFS(dir)
	hook, err := script.NewJSHook(fsys, a.logger)
	if err != nil {
		return nil, fmt.Errorf("scripts: %w", err)
	}
	a.hook = hook
	a.logger.Info(log.CatScript, "scripts loaded", "dir", dir, "scripts", len(hook.Names()))

	if a.cfg.Scripts.Watch {
		if err := a.watch(ctx, dir, fsys); err != nil {
			return nil, err
		}
	}
	return hook, nil
}

func (a *App) watch(ctx context.Context, dir string, fsys fs.FS) error {
	wcfg := watcher.DefaultConfig(dir)
	wcfg.Logger = a.logger
	w, err := watcher.New(wcfg)
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return fmt.Errorf("scripts: %w", err)
	}
	a.watcher = w

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	go a.hook.Watch(watchCtx, changes, fsys)
	return nil
}

// AIRegistry returns the frozen AI factory registry.
func (a *App) AIRegistry() *ai.Registry { return a.aiReg }

// MovementRegistry returns the frozen movement factory registry.
func (a *App) MovementRegistry() *movement.Registry { return a.moveReg }

// Selector returns the configured selector.
func (a *App) Selector() *selector.Selector { return a.selector }

// Store returns the content store.
func (a *App) Store() content.Store { return a.store }

// Scripts returns the JS hook, or nil when scripts are disabled.
func (a *App) Scripts() *script.JSHook { return a.hook }

// Close stops the watcher, then closes the store and flushes the tracer.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.cancel != nil {
		a.cancel()
	}
	if a.watcher != nil {
		errs = append(errs, a.watcher.Stop())
		a.watcher = nil
	}
	if a.hook != nil {
		a.hook.Close()
		a.hook = nil
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
		a.tracer = nil
	}
	return errors.Join(errs...)
}
