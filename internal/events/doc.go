// Package events implements the ordered publish/subscribe dispatcher that
// drives component lifecycle hooks.
//
// Handlers for an event name fire strictly in registration order, one at a
// time, every time the event is fired. The first handler to return an error
// aborts the remaining handlers for that fire and propagates to the caller:
// a broken component halts the whole build rather than silently emitting a
// partial configuration. Firing an event with no handlers is a no-op.
package events
