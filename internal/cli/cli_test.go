package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalBuildfilePath(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"mix.hcl"}, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, cfg)
	assert.Equal(t, "mix.hcl", cfg.BuildfilePath)
	assert.Equal(t, "mix-manifest.json", cfg.ManifestPath)
	assert.Equal(t, "npm", cfg.PackageManager)
	assert.Equal(t, ".", cfg.ProjectDir)
	assert.False(t, cfg.SkipInstall)
}

func TestParse_ConfigFlagWinsOverPositional(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-config", "flagged.hcl", "positional.hcl"}, out)

	require.NoError(t, err)
	assert.Equal(t, "flagged.hcl", cfg.BuildfilePath)
}

func TestParse_ShorthandFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-c", "short.hcl"}, out)

	require.NoError(t, err)
	assert.Equal(t, "short.hcl", cfg.BuildfilePath)
}

func TestParse_AllOptions(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{
		"-manifest", "dist/manifest.json",
		"-project-dir", "web",
		"-package-manager", "yarn",
		"-skip-install",
		"-log-format", "json",
		"-log-level", "debug",
		"mix.hcl",
	}, out)

	require.NoError(t, err)
	assert.Equal(t, "dist/manifest.json", cfg.ManifestPath)
	assert.Equal(t, "web", cfg.ProjectDir)
	assert.Equal(t, "yarn", cfg.PackageManager)
	assert.True(t, cfg.SkipInstall)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
}

func TestParse_InvalidLogFormat(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-log-format", "xml", "mix.hcl"}, out)

	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log-format")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-log-level", "loud", "mix.hcl"}, out)

	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"--bogus"}, out)

	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
