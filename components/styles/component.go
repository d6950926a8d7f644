// Package styles provides the stylesheet component, reachable through both
// the "css" and "sass" aliases. The alias a call came through (the caller
// tag) decides which preprocessor toolchain the recording uses.
package styles

import (
	"context"
	"fmt"

	"github.com/vk/mixforge/internal/buildconfig"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/orchestrator"
	"github.com/vk/mixforge/internal/scope"
)

// Component implements the css/sass composites.
type Component struct {
	component.Base
	orch       *orchestrator.Orchestrator
	recordings []recording
}

type recording struct {
	sc           *scope.Scope
	preprocessor string
	source       string
	output       string
}

// New creates the styles component bound to its orchestrator.
func New(orch *orchestrator.Orchestrator) *Component {
	return &Component{orch: orch}
}

// Aliases implements component.Aliased: the same instance backs both entry
// points.
func (c *Component) Aliases() []string { return []string{"css", "sass"} }

// Register implements component.Registrable with (source, output) arguments.
// The preprocessor is whichever alias the user called.
func (c *Component) Register(args ...any) error {
	if len(args) != 2 {
		return fmt.Errorf("%s requires a source and an output, got %d argument(s)", c.Caller(), len(args))
	}
	source, ok := args[0].(string)
	if !ok {
		return fmt.Errorf("%s source must be a string, got %T", c.Caller(), args[0])
	}
	output, ok := args[1].(string)
	if !ok {
		return fmt.Errorf("%s output must be a string, got %T", c.Caller(), args[1])
	}
	c.recordings = append(c.recordings, recording{
		sc:           c.orch.Stack().Current(),
		preprocessor: c.Caller(),
		source:       source,
		output:       output,
	})
	return nil
}

// Dependencies implements component.DependencyProvider. The sass toolchain
// is loaded by the bundler at startup, so adding it requires a full reload.
func (c *Component) Dependencies(ctx context.Context) ([]deps.Package, bool, error) {
	pkgs := []deps.Package{{Name: "css-loader", Dev: true}}
	var reload bool
	if c.usesPreprocessor("sass") {
		pkgs = append(pkgs,
			deps.Package{Name: "sass", Dev: true},
			deps.Package{Name: "sass-loader", Dev: true},
		)
		reload = true
	}
	return pkgs, reload, nil
}

// Entries implements component.EntryContributor.
func (c *Component) Entries(ctx context.Context, sc *scope.Scope) error {
	for _, rec := range c.recordings {
		if rec.sc == sc {
			sc.Config.AddEntry(rec.output, rec.source)
		}
	}
	return nil
}

// Rules implements component.RuleContributor, one rule per preprocessor in
// use by the scope.
func (c *Component) Rules(ctx context.Context, sc *scope.Scope) error {
	added := make(map[string]bool)
	for _, rec := range c.recordings {
		if rec.sc != sc || added[rec.preprocessor] {
			continue
		}
		added[rec.preprocessor] = true
		switch rec.preprocessor {
		case "sass":
			sc.Config.AddRule(buildconfig.Rule{
				Name: "styles:sass",
				Test: `\.scss$`,
				Use:  []string{"css-loader", "sass-loader"},
			})
		default:
			sc.Config.AddRule(buildconfig.Rule{
				Name: "styles:css",
				Test: `\.css$`,
				Use:  []string{"css-loader"},
			})
		}
	}
	return nil
}

func (c *Component) usesPreprocessor(name string) bool {
	for _, rec := range c.recordings {
		if rec.preprocessor == name {
			return true
		}
	}
	return false
}
