// Package scope models build groups and the LIFO stack that tracks which
// group is currently being configured.
//
// A Scope is one independently configured build group; it accumulates its
// own configuration object and produces exactly one finished configuration
// during the Build phase. The root scope is created by the orchestrator,
// is permanent, and can never be popped.
package scope

import "github.com/vk/mixforge/internal/buildconfig"

// SetupFunc is a scope's local setup hook, run during the Setup phase.
type SetupFunc func() error

// Scope is a single build group. The orchestrator that owns a scope wires
// its Emit routine at creation time, so the owning reference is carried as
// a closure rather than a back-pointer.
type Scope struct {
	Name   string
	Config *buildconfig.Config

	buildable func() bool
	setup     SetupFunc
}

// New creates a scope with a fresh configuration object. Scopes are
// buildable by default.
func New(name string) *Scope {
	return &Scope{
		Name:   name,
		Config: buildconfig.New(name),
	}
}

// Buildable reports whether this scope takes part in the Setup and Build
// phases.
func (s *Scope) Buildable() bool {
	if s.buildable == nil {
		return true
	}
	return s.buildable()
}

// SetBuildable installs the buildability predicate. A nil predicate means
// always buildable.
func (s *Scope) SetBuildable(pred func() bool) {
	s.buildable = pred
}

// OnSetup installs the scope's local setup hook. Absence is a no-op.
func (s *Scope) OnSetup(fn SetupFunc) {
	s.setup = fn
}

// RunSetup invokes the setup hook if one is installed.
func (s *Scope) RunSetup() error {
	if s.setup == nil {
		return nil
	}
	return s.setup()
}
