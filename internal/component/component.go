package component

import (
	"context"

	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/scope"
)

// State is the minimal contract every component must satisfy: activation
// bookkeeping plus the caller tag recording which alias invoked it.
// Embedding Base provides it.
type State interface {
	Activate()
	Activated() bool
	SetCaller(alias string)
	Caller() string
}

// Base is the embeddable default implementation of State.
type Base struct {
	activated bool
	caller    string
}

// Activate marks the component activated. Activation is one-way.
func (b *Base) Activate() { b.activated = true }

// Activated reports whether the component's composite method has run at
// least once (or the component is passive and was installed).
func (b *Base) Activated() bool { return b.activated }

// SetCaller records the alias the component was invoked through.
func (b *Base) SetCaller(alias string) { b.caller = alias }

// Caller returns the alias the component was last invoked through.
func (b *Base) Caller() string { return b.caller }

// Named components choose their single API alias. Without it the alias is
// derived from the Go type name.
type Named interface {
	Name() string
}

// Aliased components expose the same composite under several aliases.
// Aliased takes precedence over Named.
type Aliased interface {
	Aliases() []string
}

// Passive components activate automatically at install time instead of
// waiting for user configuration code to invoke them.
type Passive interface {
	Passive() bool
}

// Registrable components receive the arguments of each composite call.
type Registrable interface {
	Register(args ...any) error
}

// DependencyProvider components declare packages to install before Init.
// The bool result is the "requires full reload" flag.
type DependencyProvider interface {
	Dependencies(ctx context.Context) ([]deps.Package, bool, error)
}

// Booter components run one-time boot logic when the init event fires.
type Booter interface {
	Boot(ctx context.Context) error
}

// OptionProvider components contribute options merged into the shared
// configuration at init.
type OptionProvider interface {
	Configuration() map[string]any
}

// EntryContributor components add output entries to a scope's configuration.
type EntryContributor interface {
	Entries(ctx context.Context, sc *scope.Scope) error
}

// RuleContributor components add module rules to a scope's configuration.
type RuleContributor interface {
	Rules(ctx context.Context, sc *scope.Scope) error
}

// PluginContributor components add plugins to a scope's configuration.
type PluginContributor interface {
	Plugins(ctx context.Context, sc *scope.Scope) error
}

// Finalizer components observe or adjust a scope's configuration after all
// other build events have fired for it.
type Finalizer interface {
	ConfigurationReady(ctx context.Context, sc *scope.Scope) error
}

// MethodProvider components merge extra named methods directly onto the
// Surface, bypassing the composite wrapper, for call shapes other than a
// single fluent method.
type MethodProvider interface {
	Methods() map[string]Method
}

// capabilities is the per-component capability set, resolved exactly once
// when the component is installed.
type capabilities struct {
	registrable Registrable
	dependency  DependencyProvider
	boot        Booter
	options     OptionProvider
	entries     EntryContributor
	rules       RuleContributor
	plugins     PluginContributor
	finalizer   Finalizer
	methods     MethodProvider
	passive     bool
}

func detectCapabilities(c State) capabilities {
	var caps capabilities
	caps.registrable, _ = c.(Registrable)
	caps.dependency, _ = c.(DependencyProvider)
	caps.boot, _ = c.(Booter)
	caps.options, _ = c.(OptionProvider)
	caps.entries, _ = c.(EntryContributor)
	caps.rules, _ = c.(RuleContributor)
	caps.plugins, _ = c.(PluginContributor)
	caps.finalizer, _ = c.(Finalizer)
	caps.methods, _ = c.(MethodProvider)
	if p, ok := c.(Passive); ok {
		caps.passive = p.Passive()
	}
	return caps
}
