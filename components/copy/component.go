// Package copy provides the "copy" component: straight file copies
// expressed as a plugin contribution on the owning scope's configuration.
package copy

import (
	"context"
	"fmt"

	"github.com/vk/mixforge/internal/buildconfig"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/orchestrator"
	"github.com/vk/mixforge/internal/scope"
)

// Component implements the copy composite.
type Component struct {
	component.Base
	orch       *orchestrator.Orchestrator
	recordings []recording
}

type recording struct {
	sc   *scope.Scope
	from string
	to   string
	dir  bool
}

// New creates the copy component bound to its orchestrator.
func New(orch *orchestrator.Orchestrator) *Component {
	return &Component{orch: orch}
}

// Aliases implements component.Aliased. The copyDirectory alias marks the
// destination as a directory the source tree is copied into.
func (c *Component) Aliases() []string { return []string{"copy", "copyDirectory"} }

// Register implements component.Registrable with (from, to) arguments.
func (c *Component) Register(args ...any) error {
	if len(args) != 2 {
		return fmt.Errorf("%s requires a source and a destination, got %d argument(s)", c.Caller(), len(args))
	}
	from, ok := args[0].(string)
	if !ok {
		return fmt.Errorf("%s source must be a string, got %T", c.Caller(), args[0])
	}
	to, ok := args[1].(string)
	if !ok {
		return fmt.Errorf("%s destination must be a string, got %T", c.Caller(), args[1])
	}
	c.recordings = append(c.recordings, recording{
		sc:   c.orch.Stack().Current(),
		from: from,
		to:   to,
		dir:  c.Caller() == "copyDirectory",
	})
	return nil
}

// Plugins implements component.PluginContributor: one copy plugin carrying
// every pattern recorded for the scope.
func (c *Component) Plugins(ctx context.Context, sc *scope.Scope) error {
	var patterns []any
	for _, rec := range c.recordings {
		if rec.sc != sc {
			continue
		}
		pattern := map[string]any{"from": rec.from, "to": rec.to}
		if rec.dir {
			pattern["toType"] = "dir"
		}
		patterns = append(patterns, pattern)
	}
	if len(patterns) == 0 {
		return nil
	}
	sc.Config.AddPlugin(buildconfig.Plugin{
		Name:    "copy",
		Options: map[string]any{"patterns": patterns},
	})
	return nil
}
