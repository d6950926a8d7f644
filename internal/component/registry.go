package component

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/vk/mixforge/internal/buildconfig"
	"github.com/vk/mixforge/internal/ctxlog"
	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/events"
	"github.com/vk/mixforge/internal/scope"
)

// GatherPayload is the payload of the dependency-gathering event.
type GatherPayload struct {
	Queue *deps.Queue
}

// InitPayload is the payload of the init event. Shared is the root scope's
// configuration, the target for component option contributions.
type InitPayload struct {
	Shared *buildconfig.Config
}

// Entry is one installed component together with its resolved aliases and
// capability set.
type Entry struct {
	Component State
	Aliases   []string
	caps      capabilities
}

// Registry binds component instances to alias names, generates the
// composite API methods on the shared Surface, and wires every component
// into the two standing lifecycle events.
type Registry struct {
	surface    *Surface
	dispatcher *events.Dispatcher

	mu      sync.Mutex
	entries []*Entry
	byAlias map[string]*Entry
}

// NewRegistry creates a registry installing onto the given surface and
// subscribing through the given dispatcher.
func NewRegistry(dispatcher *events.Dispatcher, surface *Surface) *Registry {
	return &Registry{
		surface:    surface,
		dispatcher: dispatcher,
		byAlias:    make(map[string]*Entry),
	}
}

// Surface returns the shared API surface components are installed onto.
func (r *Registry) Surface() *Surface { return r.surface }

// Install resolves the component's aliases, binds its composite function(s)
// onto the Surface, merges any extra methods, and subscribes the component
// exactly once to the dependency-gathering and init events. A passive
// component's composite is invoked immediately, with no arguments.
func (r *Registry) Install(c State) error {
	if c == nil {
		return fmt.Errorf("cannot install nil component")
	}

	entry := &Entry{
		Component: c,
		Aliases:   resolveAliases(c),
		caps:      detectCapabilities(c),
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	for _, alias := range entry.Aliases {
		r.byAlias[alias] = entry
	}
	r.mu.Unlock()

	for _, alias := range entry.Aliases {
		r.surface.bind(alias, r.composite(alias, entry))
	}

	if entry.caps.methods != nil {
		for name, fn := range entry.caps.methods.Methods() {
			r.surface.mergeMethod(name, fn)
		}
	}

	r.subscribe(entry)

	if entry.caps.passive {
		if _, err := r.surface.Call(entry.Aliases[0]); err != nil {
			return fmt.Errorf("failed to activate passive component %q: %w", entry.Aliases[0], err)
		}
	}
	return nil
}

// composite builds the alias-bound function users call from configuration
// code. Every call re-records the instance under the alias, tags the
// component with the alias used, forwards the arguments to the registration
// hook when one exists, and activates the component.
func (r *Registry) composite(alias string, entry *Entry) CompositeFunc {
	return func(args ...any) (*Surface, error) {
		r.mu.Lock()
		r.byAlias[alias] = entry
		r.mu.Unlock()

		entry.Component.SetCaller(alias)
		if entry.caps.registrable != nil {
			if err := entry.caps.registrable.Register(args...); err != nil {
				return nil, fmt.Errorf("component %q registration failed: %w", alias, err)
			}
		}
		entry.Component.Activate()
		return r.surface, nil
	}
}

// subscribe wires the entry into the two standing lifecycle events. The
// activation check happens when the events fire, not here: a component that
// is never invoked stays a no-op through every phase.
func (r *Registry) subscribe(entry *Entry) {
	active := func() bool {
		return entry.Component.Activated() || entry.caps.passive
	}

	r.dispatcher.Listen(events.DependencyGathering, func(ctx context.Context, payload any) error {
		if !active() || entry.caps.dependency == nil {
			return nil
		}
		gather, ok := payload.(*GatherPayload)
		if !ok {
			return fmt.Errorf("dependency-gathering fired with unexpected payload %T", payload)
		}
		pkgs, reload, err := entry.caps.dependency.Dependencies(ctx)
		if err != nil {
			return err
		}
		ctxlog.FromContext(ctx).Debug("Component queued dependencies.",
			"component", entry.Aliases[0], "packages", len(pkgs), "reload", reload)
		gather.Queue.Add(reload, pkgs...)
		return nil
	})

	r.dispatcher.Listen(events.Init, func(ctx context.Context, payload any) error {
		if !active() {
			return nil
		}
		if entry.caps.boot != nil {
			if err := entry.caps.boot.Boot(ctx); err != nil {
				return fmt.Errorf("component %q boot failed: %w", entry.Aliases[0], err)
			}
		}
		if entry.caps.options != nil {
			init, ok := payload.(*InitPayload)
			if !ok {
				return fmt.Errorf("init fired with unexpected payload %T", payload)
			}
			init.Shared.Merge(entry.caps.options.Configuration())
		}
		r.subscribeBuildEvents(entry, active)
		return nil
	})
}

// subscribeBuildEvents registers the per-scope build handlers for whichever
// contributor capabilities the entry carries. Runs during init, so it
// happens at most once per component.
func (r *Registry) subscribeBuildEvents(entry *Entry, active func() bool) {
	scoped := func(contribute func(context.Context, *scope.Scope) error) events.Handler {
		return func(ctx context.Context, payload any) error {
			if !active() {
				return nil
			}
			sc, ok := payload.(*scope.Scope)
			if !ok {
				return fmt.Errorf("build event fired with unexpected payload %T", payload)
			}
			return contribute(ctx, sc)
		}
	}

	if entry.caps.entries != nil {
		r.dispatcher.Listen(events.BuildEntries, scoped(entry.caps.entries.Entries))
	}
	if entry.caps.rules != nil {
		r.dispatcher.Listen(events.BuildRules, scoped(entry.caps.rules.Rules))
	}
	if entry.caps.plugins != nil {
		r.dispatcher.Listen(events.BuildPlugins, scoped(entry.caps.plugins.Plugins))
	}
	if entry.caps.finalizer != nil {
		r.dispatcher.Listen(events.ConfigurationReady, scoped(entry.caps.finalizer.ConfigurationReady))
	}
}

// Lookup returns the component currently recorded under alias. With
// colliding installs the most recent wins.
func (r *Registry) Lookup(alias string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.byAlias[alias]
	if !ok {
		return nil, false
	}
	return entry.Component, true
}

// Components returns every installed component in install order.
func (r *Registry) Components() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Component
	}
	return out
}

// resolveAliases picks the component's API names: Aliased wins over Named;
// with neither, the lowercased Go type name is used.
func resolveAliases(c State) []string {
	if a, ok := c.(Aliased); ok {
		if names := a.Aliases(); len(names) > 0 {
			return names
		}
	}
	if n, ok := c.(Named); ok {
		if name := n.Name(); name != "" {
			return []string{name}
		}
	}
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return []string{strings.ToLower(t.Name())}
}
