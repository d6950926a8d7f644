// Package buildconfig defines the generic bundler configuration object that
// the Build phase emits, one per buildable scope. It deliberately avoids any
// specific build tool's option schema: entries, rules and plugins are plain
// named records whose options are opaque maps.
package buildconfig

import "maps"

// Rule describes one module-transformation rule contributed by a component.
type Rule struct {
	Name    string         `json:"name"`
	Test    string         `json:"test"`
	Use     []string       `json:"use,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// Plugin describes one plugin instantiation contributed by a component.
type Plugin struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

// Config is the finished build-tool configuration for a single scope.
type Config struct {
	Group   string              `json:"group"`
	Entries map[string][]string `json:"entries"`
	Rules   []Rule              `json:"rules"`
	Plugins []Plugin            `json:"plugins"`
	Options map[string]any      `json:"options"`
}

// New returns an empty configuration for the named build group.
func New(group string) *Config {
	return &Config{
		Group:   group,
		Entries: make(map[string][]string),
		Options: make(map[string]any),
	}
}

// AddEntry appends source paths to the named output entry.
func (c *Config) AddEntry(name string, sources ...string) {
	c.Entries[name] = append(c.Entries[name], sources...)
}

// AddRule appends a rule. Rules keep contribution order; duplicates are the
// contributor's problem.
func (c *Config) AddRule(r Rule) {
	c.Rules = append(c.Rules, r)
}

// AddPlugin appends a plugin record.
func (c *Config) AddPlugin(p Plugin) {
	c.Plugins = append(c.Plugins, p)
}

// Merge copies the given option keys into the configuration, overwriting on
// conflict. Components use it to fold their option contributions into the
// shared configuration during Init and Build.
func (c *Config) Merge(options map[string]any) {
	maps.Copy(c.Options, options)
}
