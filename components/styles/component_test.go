package styles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/orchestrator"
)

func TestStyles_CallerAliasSelectsPreprocessor(t *testing.T) {
	t.Parallel()

	// Arrange
	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	// Act
	configs, err := orch.Run(context.Background(), func(api *component.Surface) error {
		if _, err := api.Call("sass", "src/app.scss", "/css/app.css"); err != nil {
			return err
		}
		_, err := api.Call("css", "src/plain.css", "/css/plain.css")
		return err
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, configs, 1)
	cfg := configs[0]

	assert.Equal(t, []string{"src/app.scss"}, cfg.Entries["/css/app.css"])
	assert.Equal(t, []string{"src/plain.css"}, cfg.Entries["/css/plain.css"])

	require.Len(t, cfg.Rules, 2, "one rule per preprocessor in use")
	assert.Equal(t, "styles:sass", cfg.Rules[0].Name)
	assert.Equal(t, []string{"css-loader", "sass-loader"}, cfg.Rules[0].Use)
	assert.Equal(t, "styles:css", cfg.Rules[1].Name)
	assert.Equal(t, []string{"css-loader"}, cfg.Rules[1].Use)
}

func TestStyles_SassRequiresReload(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))
	require.NoError(t, orch.Load(context.Background(), func(api *component.Surface) error {
		_, err := api.Call("sass", "src/app.scss", "/css/app.css")
		return err
	}))

	pkgs, reload, err := c.Dependencies(context.Background())
	require.NoError(t, err)
	assert.True(t, reload, "loading the sass toolchain needs a restart")

	var names []string
	for _, p := range pkgs {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"css-loader", "sass", "sass-loader"}, names)
}

func TestStyles_PlainCSSNeedsNoReload(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))
	require.NoError(t, orch.Load(context.Background(), func(api *component.Surface) error {
		_, err := api.Call("css", "src/app.css", "/css/app.css")
		return err
	}))

	pkgs, reload, err := c.Dependencies(context.Background())
	require.NoError(t, err)
	assert.False(t, reload)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "css-loader", pkgs[0].Name)
}

func TestStyles_ScopeIsolation(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	configs, err := orch.Run(context.Background(), func(api *component.Surface) error {
		return api.Group("admin", func(api *component.Surface) error {
			_, err := api.Call("sass", "src/admin.scss", "/css/admin.css")
			return err
		})
	})
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Empty(t, configs[0].Entries)
	assert.Empty(t, configs[0].Rules)
	assert.Contains(t, configs[1].Entries, "/css/admin.css")
	require.Len(t, configs[1].Rules, 1)
}

func TestStyles_RegisterArgumentValidation(t *testing.T) {
	t.Parallel()

	orch := orchestrator.New()
	c := New(orch)
	require.NoError(t, orch.Bootstrap(c))

	_, err := orch.Surface().Call("css", "src/app.css")
	assert.Error(t, err)

	_, err = orch.Surface().Call("sass", 1, "/css/app.css")
	assert.Error(t, err)
}
