package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mixforge/internal/buildconfig"
)

func newTestConfig(t *testing.T, buildfileContent string) *Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mix.hcl")
	require.NoError(t, os.WriteFile(path, []byte(buildfileContent), 0o644))

	cfg, err := NewConfig(Config{
		BuildfilePath: path,
		ManifestPath:  filepath.Join(dir, "mix-manifest.json"),
		SkipInstall:   true,
		LogLevel:      "error",
	})
	require.NoError(t, err)
	return cfg
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err, "BuildfilePath is mandatory")

	cfg, err := NewConfig(Config{BuildfilePath: "mix.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "mix-manifest.json", cfg.ManifestPath)
	assert.Equal(t, "npm", cfg.PackageManager)
	assert.Equal(t, ".", cfg.ProjectDir)
}

func TestAppRun_EmitsConfigurationJSON(t *testing.T) {
	t.Parallel()

	// Arrange
	cfg := newTestConfig(t, `
component "js" {
  arguments = ["src/app.js", "/js/app.js"]
}

component "css" {
  arguments = ["src/app.css", "/css/app.css"]
}
`)
	out := &bytes.Buffer{}
	a, err := NewApp(out, cfg)
	require.NoError(t, err)

	// Act
	require.NoError(t, a.Run(context.Background()))

	// Assert
	var configs []*buildconfig.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &configs))
	require.Len(t, configs, 1)
	assert.Contains(t, configs[0].Entries, "/js/app.js")
	assert.Contains(t, configs[0].Entries, "/css/app.css")

	// The passive version component persisted the manifest.
	raw, err := os.ReadFile(cfg.ManifestPath)
	require.NoError(t, err)
	var persisted map[string]string
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Contains(t, persisted, "/js/app.js")
	assert.Contains(t, persisted, "/css/app.css")
}

func TestAppRun_GroupsProduceSeparateConfigs(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, `
component "js" {
  arguments = ["src/app.js", "/js/app.js"]
}

group "admin" {
  component "js" {
    arguments = ["src/admin.js", "/js/admin.js"]
  }
}
`)
	out := &bytes.Buffer{}
	a, err := NewApp(out, cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	var configs []*buildconfig.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &configs))
	require.Len(t, configs, 2)
	assert.Equal(t, "root", configs[0].Group)
	assert.Equal(t, "admin", configs[1].Group)
	assert.NotContains(t, configs[0].Entries, "/js/admin.js")
	assert.Contains(t, configs[1].Entries, "/js/admin.js")
}

func TestAppRun_IsolatedInstances(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, `component "js" { arguments = ["src/a.js", "/js/a.js"] }`)

	a1, err := NewApp(&bytes.Buffer{}, cfg)
	require.NoError(t, err)
	a2, err := NewApp(&bytes.Buffer{}, cfg)
	require.NoError(t, err)

	assert.NotSame(t, a1.Orchestrator(), a2.Orchestrator())
	assert.NotEqual(t, a1.Orchestrator().BuildID(), a2.Orchestrator().BuildID())
}

func TestAppRun_UnknownComponentFails(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, `component "bogus" {}`)
	out := &bytes.Buffer{}
	a, err := NewApp(out, cfg)
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
	assert.Contains(t, err.Error(), `component "bogus"`)
}
