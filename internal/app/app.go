package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/mixforge/components/copy"
	"github.com/vk/mixforge/components/env"
	"github.com/vk/mixforge/components/notify"
	"github.com/vk/mixforge/components/scripts"
	"github.com/vk/mixforge/components/styles"
	"github.com/vk/mixforge/components/version"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/manifest"
	"github.com/vk/mixforge/internal/orchestrator"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	orch     *orchestrator.Orchestrator
	manifest *manifest.Manifest
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, manifest and
// orchestrator, bootstrapped with the core component set (or the given
// components when any are provided).
func NewApp(outW io.Writer, cfg *Config, components ...component.State) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)

	var installer deps.Installer = deps.NewCommandInstaller(cfg.PackageManager, cfg.ProjectDir)
	if cfg.SkipInstall {
		installer = deps.NoopInstaller{}
	}

	orch := orchestrator.New(
		orchestrator.WithInstaller(installer),
		orchestrator.WithExitFunc(os.Exit),
	)
	m := manifest.New(cfg.ManifestPath)

	if len(components) == 0 {
		components = coreComponents(orch, m)
	}
	if err := orch.Bootstrap(components...); err != nil {
		return nil, fmt.Errorf("failed to bootstrap orchestrator: %w", err)
	}
	logger.Debug("Orchestrator bootstrapped.",
		"components", len(components), "build_id", orch.BuildID())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		orch:     orch,
		manifest: m,
	}, nil
}

// coreComponents is the definitive list of components compiled into the
// mixforge binary.
func coreComponents(orch *orchestrator.Orchestrator, m *manifest.Manifest) []component.State {
	return []component.State{
		scripts.New(orch),
		styles.New(orch),
		copy.New(orch),
		env.New(),
		version.New(m),
		notify.New(),
	}
}

// Orchestrator returns the application's orchestrator. This is primarily
// for testing.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orch
}

// Manifest returns the application's asset manifest collaborator.
func (a *App) Manifest() *manifest.Manifest {
	return a.manifest
}
