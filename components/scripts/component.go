// Package scripts provides the "js" component: it records JavaScript entry
// points for the scope they were declared in, contributes the transpiler
// packages, and emits the matching module rule.
package scripts

import (
	"context"
	"fmt"

	"github.com/vk/mixforge/internal/buildconfig"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/orchestrator"
	"github.com/vk/mixforge/internal/scope"
)

// Component implements the js composite. Each Register call is tagged with
// the scope that was current when user configuration code made it, keeping
// build groups isolated from each other.
type Component struct {
	component.Base
	orch       *orchestrator.Orchestrator
	recordings []recording
}

type recording struct {
	sc      *scope.Scope
	sources []string
	output  string
}

// New creates the scripts component bound to its orchestrator.
func New(orch *orchestrator.Orchestrator) *Component {
	return &Component{orch: orch}
}

// Name implements component.Named.
func (c *Component) Name() string { return "js" }

// Register implements component.Registrable. It accepts one or more source
// paths followed by the output entry name.
func (c *Component) Register(args ...any) error {
	if len(args) < 2 {
		return fmt.Errorf("js requires source path(s) and an output, got %d argument(s)", len(args))
	}
	sources, err := stringArgs(args[:len(args)-1])
	if err != nil {
		return fmt.Errorf("js sources: %w", err)
	}
	output, ok := args[len(args)-1].(string)
	if !ok {
		return fmt.Errorf("js output must be a string, got %T", args[len(args)-1])
	}
	c.recordings = append(c.recordings, recording{
		sc:      c.orch.Stack().Current(),
		sources: sources,
		output:  output,
	})
	return nil
}

// Dependencies implements component.DependencyProvider.
func (c *Component) Dependencies(ctx context.Context) ([]deps.Package, bool, error) {
	return []deps.Package{
		{Name: "@babel/core", Dev: true},
		{Name: "@babel/preset-env", Dev: true},
		{Name: "babel-loader", Dev: true},
	}, false, nil
}

// Entries implements component.EntryContributor: only recordings made while
// sc was current land in sc's configuration.
func (c *Component) Entries(ctx context.Context, sc *scope.Scope) error {
	for _, rec := range c.recordings {
		if rec.sc == sc {
			sc.Config.AddEntry(rec.output, rec.sources...)
		}
	}
	return nil
}

// Rules implements component.RuleContributor.
func (c *Component) Rules(ctx context.Context, sc *scope.Scope) error {
	if !c.recordedFor(sc) {
		return nil
	}
	sc.Config.AddRule(buildconfig.Rule{
		Name: "scripts",
		Test: `\.m?jsx?$`,
		Use:  []string{"babel-loader"},
		Options: map[string]any{
			"presets": []any{"@babel/preset-env"},
		},
	})
	return nil
}

func (c *Component) recordedFor(sc *scope.Scope) bool {
	for _, rec := range c.recordings {
		if rec.sc == sc {
			return true
		}
	}
	return false
}

func stringArgs(args []any) ([]string, error) {
	var out []string
	for _, a := range args {
		switch v := a.(type) {
		case string:
			out = append(out, v)
		case []any:
			nested, err := stringArgs(v)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		default:
			return nil, fmt.Errorf("expected string, got %T", a)
		}
	}
	return out, nil
}
