package component

import (
	"fmt"
	"sync"
)

// Method is an extra named method merged directly onto the Surface by a
// MethodProvider component.
type Method func(args ...any) (any, error)

// CompositeFunc is the generated alias-bound function installed on the
// Surface for each component alias.
type CompositeFunc func(args ...any) (*Surface, error)

// GroupFunc declares a nested build group and configures it through fn.
// The orchestrator binds the concrete implementation at bootstrap.
type GroupFunc func(name string, fn func(*Surface) error) error

// Surface is the composed configuration API handed to user configuration
// code during Load. It is a thin dispatcher over an explicit ordered table
// of alias-bound composite functions plus directly merged extra methods.
type Surface struct {
	mu         sync.Mutex
	order      []string
	composites map[string]CompositeFunc
	methods    map[string]Method
	group      GroupFunc
}

// NewSurface creates an empty API surface.
func NewSurface() *Surface {
	return &Surface{
		composites: make(map[string]CompositeFunc),
		methods:    make(map[string]Method),
	}
}

// bind installs (or, on alias collision, replaces) the composite for alias.
// Last write wins: an earlier registration for the alias becomes
// unreachable.
func (s *Surface) bind(alias string, fn CompositeFunc) {
	s.mu.Lock()
	if _, exists := s.composites[alias]; !exists {
		s.order = append(s.order, alias)
	}
	s.composites[alias] = fn
	s.mu.Unlock()
}

// mergeMethod installs a directly callable extra method.
func (s *Surface) mergeMethod(name string, fn Method) {
	s.mu.Lock()
	s.methods[name] = fn
	s.mu.Unlock()
}

// BindGroup wires the group-declaration function. Called by the
// orchestrator during bootstrap.
func (s *Surface) BindGroup(fn GroupFunc) {
	s.mu.Lock()
	s.group = fn
	s.mu.Unlock()
}

// Call invokes the composite bound to alias with the given arguments and
// returns the Surface itself so calls chain.
func (s *Surface) Call(alias string, args ...any) (*Surface, error) {
	s.mu.Lock()
	fn, ok := s.composites[alias]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown component alias %q", alias)
	}
	return fn(args...)
}

// Invoke calls an extra method merged onto the surface by a component.
func (s *Surface) Invoke(name string, args ...any) (any, error) {
	s.mu.Lock()
	fn, ok := s.methods[name]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown surface method %q", name)
	}
	return fn(args...)
}

// Group declares a nested build group named name and runs fn with this
// surface while that group is current.
func (s *Surface) Group(name string, fn func(*Surface) error) error {
	s.mu.Lock()
	group := s.group
	s.mu.Unlock()
	if group == nil {
		return fmt.Errorf("group declaration is not available before bootstrap")
	}
	return group(name, fn)
}

// Aliases returns every bound alias in first-install order.
func (s *Surface) Aliases() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// HasMethod reports whether an extra method with the given name is merged
// onto the surface.
func (s *Surface) HasMethod(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.methods[name]
	return ok
}
