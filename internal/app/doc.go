// Package app wires a complete mixforge instance: an isolated logger, a
// fresh orchestrator, the core component set, and the buildfile loader.
// Each App is self-contained; two Apps never share state.
package app
