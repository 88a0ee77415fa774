package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/zjrosen/creatureai/internal/ai"
	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
	"github.com/zjrosen/creatureai/internal/pubsub"
)

// RegisterFunc is the global scripts call to bind a factory to a script name.
const RegisterFunc = "registerCreatureScript"

// JSHook runs creature scripts in a goja runtime.
//
// A script registers factories by name:
//
//	registerCreatureScript("boss_hogger", function (creature) {
//	    if (creature.health_pct > 50) return null; // decline
//	    return { updateAI: function (diffMs) { return "call_for_help"; } };
//	});
//
// The factory receives the creature facts and returns null to decline or an
// object whose updateAI(diffMs) returns an intent name.
type JSHook struct {
	// mu serialises every call into goja; a runtime is not goroutine safe.
	mu     sync.Mutex
	rt     *jsRuntime
	logger *log.Logger
	broker *pubsub.Broker[string]
}

var _ Hook = (*JSHook)(nil)

type jsRuntime struct {
	vm        *goja.Runtime
	factories map[string]goja.Callable
	files     []string
}

// NewJSHook loads every *.js file of fsys. Load errors are returned; use
// Reload afterwards to swap in new scripts.
func NewJSHook(fsys fs.FS, logger *log.Logger) (*JSHook, error) {
	h := &JSHook{logger: logger, broker: pubsub.NewBroker[string]()}
	rt, err := h.load(fsys)
	if err != nil {
		return nil, err
	}
	h.rt = rt
	return h, nil
}

// Names returns the registered script names, sorted.
func (h *JSHook) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.rt.factories))
	for name := range h.rt.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload loads fsys into a fresh runtime and swaps it in. On error the
// current runtime is kept. Controllers already handed out keep running on
// the runtime that created them.
func (h *JSHook) Reload(fsys fs.FS) error {
	rt, err := h.load(fsys)
	if err != nil {
		h.logger.ErrorErr(log.CatScript, "script reload failed", err)
		h.broker.Publish(pubsub.ReloadFailedEvent, err.Error())
		return err
	}

	h.mu.Lock()
	h.rt = rt
	h.mu.Unlock()

	h.logger.Info(log.CatScript, "scripts reloaded", "files", len(rt.files), "scripts", len(rt.factories))
	h.broker.Publish(pubsub.ReloadedEvent, strings.Join(rt.files, ","))
	return nil
}

// Watch reloads fsys on every signal from changes until ctx is done or
// changes is closed.
func (h *JSHook) Watch(ctx context.Context, changes <-chan struct{}, fsys fs.FS) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			_ = h.Reload(fsys)
		}
	}
}

// Subscribe receives reload notices until ctx is cancelled.
func (h *JSHook) Subscribe(ctx context.Context) <-chan pubsub.Event[string] {
	return h.broker.Subscribe(ctx)
}

// Close releases subscribers.
func (h *JSHook) Close() {
	h.broker.Close()
}

func (h *JSHook) load(fsys fs.FS) (*jsRuntime, error) {
	rt := &jsRuntime{vm: goja.New(), factories: make(map[string]goja.Callable)}

	if err := rt.vm.Set(RegisterFunc, rt.register); err != nil {
		return nil, fmt.Errorf("install %s: %w", RegisterFunc, err)
	}
	if err := rt.vm.Set("log", func(msg string) {
		h.logger.Info(log.CatScript, msg)
	}); err != nil {
		return nil, fmt.Errorf("install log: %w", err)
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".js" {
			return nil
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if _, err := rt.vm.RunScript(p, string(src)); err != nil {
			return fmt.Errorf("run %s: %w", p, err)
		}
		rt.files = append(rt.files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return rt, nil
}

var errBadRegistration = errors.New(RegisterFunc + "(name, factory) needs a non-empty name and a function")

func (rt *jsRuntime) register(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	fn, ok := goja.AssertFunction(call.Argument(1))
	if !ok || name == "" || goja.IsUndefined(call.Argument(0)) {
		panic(rt.vm.NewGoError(errBadRegistration))
	}
	if _, dup := rt.factories[name]; dup {
		panic(rt.vm.NewGoError(fmt.Errorf("script %q registered twice", name)))
	}
	rt.factories[name] = fn
	return goja.Undefined()
}

// ScriptedController asks the script registered under c's script name for a
// controller. Unknown names, a null result and script errors all decline.
func (h *JSHook) ScriptedController(c creature.Creature) (ai.Controller, bool) {
	name := c.ScriptName()
	if name == "" {
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rt := h.rt
	factory, ok := rt.factories[name]
	if !ok {
		return nil, false
	}

	res, err := factory(goja.Undefined(), rt.vm.ToValue(creature.Facts(c)))
	if err != nil {
		h.logger.ErrorErr(log.CatScript, "script factory failed", err, "script", name, "guid", c.GUID())
		return nil, false
	}
	if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
		return nil, false
	}

	obj, ok := res.(*goja.Object)
	if !ok {
		h.logger.Warn(log.CatScript, "script factory returned a non-object", "script", name, "guid", c.GUID())
		return nil, false
	}
	update, ok := goja.AssertFunction(obj.Get("updateAI"))
	if !ok {
		h.logger.Warn(log.CatScript, "script controller has no updateAI", "script", name, "guid", c.GUID())
		return nil, false
	}

	return &jsController{
		hook:   h,
		rt:     rt,
		this:   obj,
		update: update,
		script: name,
		guid:   c.GUID(),
	}, true
}

// jsController forwards UpdateAI to a script object.
type jsController struct {
	hook   *JSHook
	rt     *jsRuntime
	this   *goja.Object
	update goja.Callable
	script string
	guid   creature.GUID
}

func (j *jsController) UpdateAI(diff time.Duration) ai.Intent {
	j.hook.mu.Lock()
	defer j.hook.mu.Unlock()

	res, err := j.update(j.this, j.rt.vm.ToValue(diff.Milliseconds()))
	if err != nil {
		j.hook.logger.ErrorErr(log.CatScript, "script updateAI failed", err, "script", j.script, "guid", j.guid)
		return ai.IntentNone
	}
	if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
		return ai.IntentNone
	}
	intent, err := ai.ParseIntent(res.String())
	if err != nil {
		j.hook.logger.Warn(log.CatScript, "script returned unknown intent", "script", j.script, "guid", j.guid, "intent", res.String())
		return ai.IntentNone
	}
	return intent
}
