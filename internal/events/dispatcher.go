package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/mixforge/internal/ctxlog"
)

// Standing lifecycle event names fired by the orchestrator.
const (
	// DependencyGathering asks activated components to declare the packages
	// they need installed before Init may run.
	DependencyGathering = "dependency-gathering"

	// Init triggers component boot logic and the registration of the
	// per-scope build event handlers below.
	Init = "init"

	// Build events fired once per buildable scope, in this order, while the
	// scope's configuration object is assembled.
	BuildEntries       = "build:entries"
	BuildRules         = "build:rules"
	BuildPlugins       = "build:plugins"
	ConfigurationReady = "build:configuration-ready"
)

// Handler processes one fired event. The payload is event specific; handlers
// that fire further events must use a different event name to make progress.
type Handler func(ctx context.Context, payload any) error

// Dispatcher is an ordered pub/sub registry of named event handlers.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// Listen registers handler at the end of the ordered list for name. The same
// handler may be registered any number of times; every registration runs.
func (d *Dispatcher) Listen(name string, handler Handler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	d.handlers[name] = append(d.handlers[name], handler)
	d.mu.Unlock()
}

// Fire runs every handler registered for name in registration order,
// sequentially, passing payload to each. It returns nil immediately when no
// handlers exist. The first handler error aborts the remaining handlers and
// is returned wrapped with the event name.
//
// The handler list is snapshotted before the first call, so a handler
// registering further handlers for the same name affects the next Fire, not
// the current one. Handlers may Fire other events reentrantly.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) error {
	d.mu.Lock()
	hs := append([]Handler(nil), d.handlers[name]...)
	d.mu.Unlock()

	if len(hs) == 0 {
		return nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Firing event.", "event", name, "handlers", len(hs))

	for i, h := range hs {
		if err := h(ctx, payload); err != nil {
			return fmt.Errorf("event %q handler %d failed: %w", name, i, err)
		}
	}
	return nil
}

// HandlerCount reports how many handlers are registered for name. It exists
// for introspection and tests.
func (d *Dispatcher) HandlerCount(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[name])
}
