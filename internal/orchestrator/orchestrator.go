// Package orchestrator owns the event dispatcher, the scope stack and the
// component registry, and drives the fixed build lifecycle:
// Load, Setup, GatherDependencies, InstallDependencies, Init, Build.
//
// An Orchestrator is an explicit instance: New returns a fresh one and
// nothing in this package is process-global, so independent runs never
// share state.
package orchestrator

import (
	"sync"

	"github.com/google/uuid"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/events"
	"github.com/vk/mixforge/internal/scope"
)

// rootScopeName names the permanent bottom scope of the stack.
const rootScopeName = "root"

// Option configures an Orchestrator at construction.
type Option func(*Orchestrator)

// WithInstaller sets the external package installer used by the
// InstallDependencies phase.
func WithInstaller(installer deps.Installer) Option {
	return func(o *Orchestrator) { o.installer = installer }
}

// WithExitFunc replaces the process-termination function invoked when an
// installed dependency requires a full reload. Tests inject a recorder
// here; the default is a real os.Exit wrapper supplied by the app layer.
func WithExitFunc(exit func(code int)) Option {
	return func(o *Orchestrator) { o.exit = exit }
}

// Orchestrator drives the component lifecycle and returns the final ordered
// collection of per-scope configuration objects.
type Orchestrator struct {
	buildID   string
	installer deps.Installer
	exit      func(int)

	dispatcher *events.Dispatcher
	registry   *component.Registry
	stack      *scope.Stack
	root       *scope.Scope

	mu           sync.Mutex
	scopes       []*scope.Scope
	bootstrapped bool
	queue        *deps.Queue

	loadOnce   sync.Once
	gatherOnce sync.Once
	initOnce   sync.Once
}

// New creates a fresh, not yet bootstrapped orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		buildID:   uuid.NewString(),
		installer: deps.NoopInstaller{},
		exit:      func(int) {},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BuildID identifies this orchestrator's run in logs and the manifest.
func (o *Orchestrator) BuildID() string { return o.buildID }

// Bootstrap wires the dispatcher, root scope, stack and registry, installs
// the given components, and binds group declaration onto the API surface.
// Calling it again is a no-op.
func (o *Orchestrator) Bootstrap(components ...component.State) error {
	o.mu.Lock()
	if o.bootstrapped {
		o.mu.Unlock()
		return nil
	}
	o.dispatcher = events.NewDispatcher()
	o.root = scope.New(rootScopeName)
	o.stack = scope.NewStack(o.root)
	o.scopes = []*scope.Scope{o.root}
	o.registry = component.NewRegistry(o.dispatcher, component.NewSurface())
	o.bootstrapped = true
	o.mu.Unlock()

	o.registry.Surface().BindGroup(o.declareGroup)

	for _, c := range components {
		if err := o.registry.Install(c); err != nil {
			return err
		}
	}
	return nil
}

// declareGroup pushes a fresh scope, records it in declaration order, and
// runs the configuration function while it is current. The scope is popped
// on every exit path.
func (o *Orchestrator) declareGroup(name string, fn func(*component.Surface) error) error {
	sc := scope.New(name)

	o.mu.Lock()
	o.scopes = append(o.scopes, sc)
	o.mu.Unlock()

	return o.stack.WhileCurrent(sc, func() error {
		return fn(o.registry.Surface())
	})
}

// Registry exposes the component registry, primarily for components and
// tests that introspect installed instances.
func (o *Orchestrator) Registry() *component.Registry { return o.registry }

// Surface returns the composed configuration API.
func (o *Orchestrator) Surface() *component.Surface { return o.registry.Surface() }

// Dispatcher returns the lifecycle event dispatcher.
func (o *Orchestrator) Dispatcher() *events.Dispatcher { return o.dispatcher }

// Stack returns the build scope stack.
func (o *Orchestrator) Stack() *scope.Stack { return o.stack }

// RootScope returns the permanent root scope.
func (o *Orchestrator) RootScope() *scope.Scope { return o.root }

// Scopes returns every declared scope in declaration order, root first.
func (o *Orchestrator) Scopes() []*scope.Scope {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*scope.Scope(nil), o.scopes...)
}

// buildableScopes filters Scopes by their buildability predicate.
func (o *Orchestrator) buildableScopes() []*scope.Scope {
	var out []*scope.Scope
	for _, sc := range o.Scopes() {
		if sc.Buildable() {
			out = append(out, sc)
		}
	}
	return out
}
