// Package hooks runs the handlers attached to an event type after an event of
// that type has been recorded.
//
// Hooks are referenced by name from event type configuration and resolved
// against handlers registered on a Dispatcher. A hook's failure never affects
// the recording that fired it or the hooks that follow it.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// Handler reacts to a recorded event. rec is the row as written, with ID set.
type Handler interface {
	Handle(ctx context.Context, eventType string, rec *model.Record) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, eventType string, rec *model.Record) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, eventType string, rec *model.Record) error {
	return f(ctx, eventType, rec)
}

// Observer is notified of every hook invocation. err is nil on success.
type Observer interface {
	HookFired(ctx context.Context, handler string, err error)
}

// Dispatcher resolves hook specs to registered handlers and runs them.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	conds    *conditionCache
	observer Observer
	logger   *slog.Logger
}

// NewDispatcher returns a dispatcher with no handlers registered.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string]Handler),
		conds:    newConditionCache(),
		logger:   logger,
	}
}

// SetObserver installs an observer for hook outcomes.
func (d *Dispatcher) SetObserver(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observer = o
}

// Register binds name to h, replacing any previous handler of that name.
func (d *Dispatcher) Register(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Names returns the registered handler names.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		out = append(out, name)
	}
	return out
}

func (d *Dispatcher) lookup(name string) (Handler, Observer, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.handlers[name]
	return h, d.observer, ok
}

// Fire runs specs in order for an event of eventType. Each handler gets its
// own copy of rec, so changes made by one hook are invisible to the next and
// to the caller. Unknown handlers, false or broken conditions, handler errors
// and panics are logged and the next spec is attempted. Fire returns the
// number of handlers that completed without error.
func (d *Dispatcher) Fire(ctx context.Context, eventType string, specs []model.HookSpec, rec *model.Record) int {
	ok := 0
	for i, spec := range specs {
		log := d.logger.With("type", eventType, "id", rec.ID, "hook", i, "handler", spec.Handler)

		h, obs, found := d.lookup(spec.Handler)
		if !found {
			log.Warn("hooks: no handler registered")
			continue
		}

		if spec.When != "" {
			match, err := d.conds.eval(spec.When, eventType, rec)
			if err != nil {
				log.Warn("hooks: condition failed", "when", spec.When, "err", err)
				continue
			}
			if !match {
				log.Debug("hooks: condition not met", "when", spec.When)
				continue
			}
		}

		hookCtx := withArgs(ctx, spec.Args)
		err := safeHandle(hookCtx, h, eventType, rec.Clone())
		if obs != nil {
			obs.HookFired(ctx, spec.Handler, err)
		}
		if err != nil {
			log.Error("hooks: handler failed", "err", err)
			continue
		}
		ok++
	}
	return ok
}

func safeHandle(ctx context.Context, h Handler, eventType string, rec *model.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Handle(ctx, eventType, rec)
}

type argsKey struct{}

func withArgs(ctx context.Context, args map[string]string) context.Context {
	return context.WithValue(ctx, argsKey{}, args)
}

// Args returns the hook arguments of the spec being fired. Handlers read
// their parameters from here.
func Args(ctx context.Context) map[string]string {
	args, _ := ctx.Value(argsKey{}).(map[string]string)
	return args
}

// Arg returns a single hook argument, or def when unset.
func Arg(ctx context.Context, key, def string) string {
	if v, ok := Args(ctx)[key]; ok && v != "" {
		return v
	}
	return def
}
