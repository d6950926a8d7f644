package scripts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/orchestrator"
)

func TestScripts_EntriesAreScopeIsolated(t *testing.T) {
	t.Parallel()

	// Arrange
	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	// Act
	configs, err := orch.Run(context.Background(), func(api *component.Surface) error {
		if _, err := api.Call("js", "src/app.js", "/js/app.js"); err != nil {
			return err
		}
		return api.Group("admin", func(api *component.Surface) error {
			_, err := api.Call("js", "src/admin.js", "/js/admin.js")
			return err
		})
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, configs, 2)

	root, admin := configs[0], configs[1]
	assert.Equal(t, []string{"src/app.js"}, root.Entries["/js/app.js"])
	assert.NotContains(t, root.Entries, "/js/admin.js")
	assert.Equal(t, []string{"src/admin.js"}, admin.Entries["/js/admin.js"])
	assert.NotContains(t, admin.Entries, "/js/app.js")
}

func TestScripts_RuleOnlyInRecordingScopes(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	configs, err := orch.Run(context.Background(), func(api *component.Surface) error {
		return api.Group("admin", func(api *component.Surface) error {
			_, err := api.Call("js", "src/admin.js", "/js/admin.js")
			return err
		})
	})
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Empty(t, configs[0].Rules, "root made no js call, so it gets no transpiler rule")
	require.Len(t, configs[1].Rules, 1)
	rule := configs[1].Rules[0]
	assert.Equal(t, `\.m?jsx?$`, rule.Test)
	assert.Equal(t, []string{"babel-loader"}, rule.Use)
}

func TestScripts_MultipleSourcesOneOutput(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	configs, err := orch.Run(context.Background(), func(api *component.Surface) error {
		_, err := api.Call("js", "src/a.js", "src/b.js", "/js/bundle.js")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/b.js"}, configs[0].Entries["/js/bundle.js"])
}

func TestScripts_NestedSourceListIsFlattened(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	configs, err := orch.Run(context.Background(), func(api *component.Surface) error {
		_, err := api.Call("js", []any{"src/a.js", "src/b.js"}, "/js/bundle.js")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/b.js"}, configs[0].Entries["/js/bundle.js"])
}

func TestScripts_RegisterArgumentValidation(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	_, err := orch.Surface().Call("js", "src/app.js")
	assert.Error(t, err, "a lone source with no output is rejected")

	_, err = orch.Surface().Call("js", "src/app.js", 42)
	assert.Error(t, err, "the output name must be a string")
}

func TestScripts_Dependencies(t *testing.T) {
	t.Parallel()

	c := New(orchestrator.New())
	pkgs, reload, err := c.Dependencies(context.Background())
	require.NoError(t, err)
	assert.False(t, reload)

	var names []string
	for _, p := range pkgs {
		assert.True(t, p.Dev)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"@babel/core", "@babel/preset-env", "babel-loader"}, names)
}
