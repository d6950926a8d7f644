package testutil

import (
	"context"

	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/scope"
)

// MockComponent is a fully instrumented component for registry and
// lifecycle tests. Every capability is optional and driven by the exported
// function fields; a nil field leaves the corresponding hook as the
// registry's silent no-op.
type MockComponent struct {
	component.Base

	Alias      string
	AliasList  []string
	IsPassive  bool
	RegisterFn func(args ...any) error
	DependsFn  func(ctx context.Context) ([]deps.Package, bool, error)
	BootFn     func(ctx context.Context) error
	OptionsFn  func() map[string]any
	EntriesFn  func(ctx context.Context, sc *scope.Scope) error
	ReadyFn    func(ctx context.Context, sc *scope.Scope) error

	RegisterCalls [][]any
	BootCalls     int
}

// Name implements component.Named.
func (m *MockComponent) Name() string { return m.Alias }

// Aliases implements component.Aliased when AliasList is set.
func (m *MockComponent) Aliases() []string { return m.AliasList }

// Passive implements component.Passive.
func (m *MockComponent) Passive() bool { return m.IsPassive }

// Register implements component.Registrable.
func (m *MockComponent) Register(args ...any) error {
	m.RegisterCalls = append(m.RegisterCalls, args)
	if m.RegisterFn != nil {
		return m.RegisterFn(args...)
	}
	return nil
}

// Dependencies implements component.DependencyProvider.
func (m *MockComponent) Dependencies(ctx context.Context) ([]deps.Package, bool, error) {
	if m.DependsFn != nil {
		return m.DependsFn(ctx)
	}
	return nil, false, nil
}

// Boot implements component.Booter.
func (m *MockComponent) Boot(ctx context.Context) error {
	m.BootCalls++
	if m.BootFn != nil {
		return m.BootFn(ctx)
	}
	return nil
}

// Configuration implements component.OptionProvider.
func (m *MockComponent) Configuration() map[string]any {
	if m.OptionsFn != nil {
		return m.OptionsFn()
	}
	return nil
}

// Entries implements component.EntryContributor.
func (m *MockComponent) Entries(ctx context.Context, sc *scope.Scope) error {
	if m.EntriesFn != nil {
		return m.EntriesFn(ctx, sc)
	}
	return nil
}

// ConfigurationReady implements component.Finalizer.
func (m *MockComponent) ConfigurationReady(ctx context.Context, sc *scope.Scope) error {
	if m.ReadyFn != nil {
		return m.ReadyFn(ctx, sc)
	}
	return nil
}
