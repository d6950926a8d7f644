// Package deps collects the package dependencies that components declare
// during the GatherDependencies phase and hands the deduplicated result to
// an external installer.
package deps

import "sync"

// Package describes one external package a component needs installed.
type Package struct {
	Name    string `json:"package"`
	Version string `json:"version,omitempty"`
	Dev     bool   `json:"dev,omitempty"`
}

// Queue accumulates (package, reload-required) contributions. Handlers for
// the dependency-gathering event append to one shared queue, possibly from
// several scopes at once, so appends are guarded.
type Queue struct {
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	pkg    Package
	reload bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add queues packages together with their contributor's reload flag.
func (q *Queue) Add(reload bool, pkgs ...Package) {
	q.mu.Lock()
	for _, p := range pkgs {
		q.entries = append(q.entries, entry{pkg: p, reload: reload})
	}
	q.mu.Unlock()
}

// Len reports how many raw, pre-dedup entries are queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Deduplicate collapses the queue by package name, keeping first-contributor
// order, version and dev flag. The returned reload flag is the logical OR of
// every contributor, merged per package and overall: if any surviving entry
// requires a reload, the whole installation does.
func (q *Queue) Deduplicate() ([]Package, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	seen := make(map[string]bool, len(q.entries))
	var pkgs []Package
	var reload bool
	for _, e := range q.entries {
		if e.reload {
			reload = true
		}
		if seen[e.pkg.Name] {
			continue
		}
		seen[e.pkg.Name] = true
		pkgs = append(pkgs, e.pkg)
	}
	return pkgs, reload
}
