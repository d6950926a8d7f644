package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/mixforge/internal/buildfile"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/ctxlog"
)

// Run executes the full lifecycle: load the buildfile(s), drive the
// orchestrator phases, and write the resulting configuration objects as
// JSON to the app's output writer for the external bundler runner.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "buildfile", a.config.BuildfilePath)

	file, err := buildfile.Load(ctx, a.config.BuildfilePath)
	if err != nil {
		return fmt.Errorf("failed to load buildfile: %w", err)
	}

	configs, err := a.orch.Run(ctx, func(api *component.Surface) error {
		return file.Apply(api)
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	encoder := json.NewEncoder(a.outW)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(configs); err != nil {
		return fmt.Errorf("failed to emit configurations: %w", err)
	}

	a.logger.Debug("App.Run method finished.", "configurations", len(configs))
	return nil
}
