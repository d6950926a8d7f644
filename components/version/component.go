// Package version provides the passive asset-versioning component. It is
// activated automatically at install time: every build stamps the emitted
// entries into the asset manifest without the user having to opt in.
package version

import (
	"context"
	"fmt"

	"github.com/vk/mixforge/internal/buildconfig"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/manifest"
	"github.com/vk/mixforge/internal/scope"
)

// Component records emitted entry outputs in the manifest when each scope's
// configuration is finalized.
type Component struct {
	component.Base
	manifest *manifest.Manifest
}

// New creates the version component around the manifest collaborator.
func New(m *manifest.Manifest) *Component {
	return &Component{manifest: m}
}

// Name implements component.Named.
func (c *Component) Name() string { return "version" }

// Passive implements component.Passive.
func (c *Component) Passive() bool { return true }

// ConfigurationReady implements component.Finalizer: register every entry
// output in the manifest, add the manifest plugin to the configuration, and
// persist.
func (c *Component) ConfigurationReady(ctx context.Context, sc *scope.Scope) error {
	if len(sc.Config.Entries) == 0 {
		return nil
	}
	for output := range sc.Config.Entries {
		c.manifest.Add(output)
	}
	sc.Config.AddPlugin(buildconfig.Plugin{
		Name:    "manifest",
		Options: map[string]any{"path": c.manifest.Path},
	})
	if err := c.manifest.Refresh(); err != nil {
		return fmt.Errorf("failed to persist manifest: %w", err)
	}
	return nil
}
