// Package component provides the registry that turns heterogeneous
// component objects into the composed configuration API users call.
//
// A component declares what it can do through small capability interfaces
// (Named, Registrable, DependencyProvider, Booter and the per-build-event
// contributors). Capabilities are detected once, at install time, and
// recorded on the registry entry; a missing capability is a silent no-op at
// every later dispatch point, never an error.
//
// Installing a component binds one composite function per alias onto the
// shared Surface. The composite performs the bookkeeping users never see:
// it records the instance under the alias, tags the component with the
// alias it was called through, forwards the call's arguments to the
// component's registration hook, marks the component activated, and returns
// the Surface so calls chain. Passive components get that call for free at
// install time. Components that are never invoked, and are not passive,
// stay cheap no-ops through every lifecycle phase.
package component
