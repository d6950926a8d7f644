// Package buildfile is the declarative HCL front-end for the Load phase.
//
// A buildfile declares component invocations and nested build groups:
//
//	component "js" {
//	  arguments = ["src/app.js", "dist"]
//	}
//
//	group "admin" {
//	  component "sass" {
//	    arguments = ["src/admin.scss", "dist"]
//	  }
//	}
//
// Loading translates every block into the corresponding call on the
// composed API surface, exactly as hand-written configuration code would
// make it.
package buildfile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/ctxlog"
	"github.com/vk/mixforge/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// File is the decoded representation of one or more buildfiles.
type File struct {
	Components []*ComponentBlock
	Groups     []*GroupBlock
}

// ComponentBlock is one `component "alias" { arguments = [...] }` block.
type ComponentBlock struct {
	Alias     string    `hcl:"alias,label"`
	Arguments cty.Value `hcl:"arguments,optional"`
}

// GroupBlock is one `group "name" { ... }` block with nested components.
type GroupBlock struct {
	Name       string            `hcl:"name,label"`
	Components []*ComponentBlock `hcl:"component,block"`
}

type hclFile struct {
	Components []*ComponentBlock `hcl:"component,block"`
	Groups     []*GroupBlock     `hcl:"group,block"`
}

// Load finds every .hcl file under path (a file or a directory) and merges
// the decoded blocks in file order.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find buildfiles in %s: %w", path, err)
	}
	if len(paths) == 0 {
		logger.Warn("No .hcl buildfiles found in path.", "path", path)
		return &File{}, nil
	}

	parser := hclparse.NewParser()
	merged := &File{}
	for _, p := range paths {
		hf, diags := parser.ParseHCLFile(p)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse buildfile %s: %w", p, diags)
		}
		var decoded hclFile
		if diags := gohcl.DecodeBody(hf.Body, nil, &decoded); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode buildfile %s: %w", p, diags)
		}
		merged.Components = append(merged.Components, decoded.Components...)
		merged.Groups = append(merged.Groups, decoded.Groups...)
		logger.Debug("Loaded buildfile.", "file", p,
			"components", len(decoded.Components), "groups", len(decoded.Groups))
	}
	return merged, nil
}

// Apply replays the decoded blocks as calls on the API surface. Top-level
// components run in the current (root) scope; each group block declares a
// scope and runs its components inside it.
func (f *File) Apply(api *component.Surface) error {
	for _, cb := range f.Components {
		if err := applyComponent(api, cb); err != nil {
			return err
		}
	}
	for _, gb := range f.Groups {
		group := gb
		if err := api.Group(group.Name, func(api *component.Surface) error {
			for _, cb := range group.Components {
				if err := applyComponent(api, cb); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("group %q failed: %w", group.Name, err)
		}
	}
	return nil
}

func applyComponent(api *component.Surface, cb *ComponentBlock) error {
	args, err := argumentsToNative(cb.Arguments)
	if err != nil {
		return fmt.Errorf("component %q: %w", cb.Alias, err)
	}
	if _, err := api.Call(cb.Alias, args...); err != nil {
		return fmt.Errorf("component %q: %w", cb.Alias, err)
	}
	return nil
}

// argumentsToNative converts the optional arguments list into positional
// native Go values for the composite call.
func argumentsToNative(v cty.Value) ([]any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	native, err := ctyToNative(v)
	if err != nil {
		return nil, err
	}
	args, ok := native.([]any)
	if !ok {
		// A single scalar argument is allowed for convenience.
		return []any{native}, nil
	}
	return args, nil
}
