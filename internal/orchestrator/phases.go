package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/mixforge/internal/buildconfig"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/ctxlog"
	"github.com/vk/mixforge/internal/deps"
	"github.com/vk/mixforge/internal/events"
	"github.com/vk/mixforge/internal/scope"
)

// LoadFunc is the user-provided configuration callback, invoked exactly
// once inside the root scope during the Load phase.
type LoadFunc func(api *component.Surface) error

// Load executes the configuration callback inside the root scope. This is
// the only phase in which components are invoked by user code and
// additional scopes may be declared. A second call is a silent no-op.
func (o *Orchestrator) Load(ctx context.Context, fn LoadFunc) error {
	var err error
	o.loadOnce.Do(func() {
		ctxlog.FromContext(ctx).Debug("Load phase started.", "build_id", o.buildID)
		if fn == nil {
			return
		}
		if loadErr := fn(o.registry.Surface()); loadErr != nil {
			err = fmt.Errorf("configuration callback failed: %w", loadErr)
		}
	})
	return err
}

// Setup runs the local setup hook of every buildable scope. Scopes are
// fanned out concurrently with no ordering guarantee between them; the
// phase completes when all finish and fails with the first error.
func (o *Orchestrator) Setup(ctx context.Context) error {
	scopes := o.buildableScopes()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Setup phase started.", "scopes", len(scopes))

	var wg sync.WaitGroup
	errCh := make(chan error, len(scopes))
	for _, sc := range scopes {
		wg.Add(1)
		go func(sc *scope.Scope) {
			defer wg.Done()
			if err := sc.RunSetup(); err != nil {
				errCh <- fmt.Errorf("setup of scope %q failed: %w", sc.Name, err)
			}
		}(sc)
	}
	wg.Wait()
	close(errCh)

	// The first reported error wins; the rest were concurrent casualties.
	for err := range errCh {
		return err
	}
	return nil
}

// GatherDependencies fires the dependency-gathering event so activated
// components can append their package entries to the shared queue. Nothing
// is installed here. A second call is a silent no-op.
func (o *Orchestrator) GatherDependencies(ctx context.Context) (*deps.Queue, error) {
	var err error
	var queue *deps.Queue
	o.gatherOnce.Do(func() {
		queue = deps.NewQueue()
		o.queue = queue
		ctxlog.FromContext(ctx).Debug("GatherDependencies phase started.")
		err = o.dispatcher.Fire(ctx, events.DependencyGathering, &component.GatherPayload{Queue: queue})
	})
	return o.queue, err
}

// InstallDependencies deduplicates the queued entries and delegates the
// installation to the external installer. When any contributor required a
// full reload, the host process is terminated after the installation so a
// supervising parent can restart it.
func (o *Orchestrator) InstallDependencies(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if o.queue == nil {
		logger.Debug("InstallDependencies: nothing gathered, skipping.")
		return nil
	}

	pkgs, reload := o.queue.Deduplicate()
	if len(pkgs) == 0 {
		logger.Debug("InstallDependencies: no packages queued.")
		return nil
	}

	if err := o.installer.Install(ctx, pkgs, reload); err != nil {
		return fmt.Errorf("dependency installation failed: %w", err)
	}

	if reload {
		logger.Warn("Installed dependencies require a restart, terminating so the supervisor can reload.",
			"packages", len(pkgs))
		o.exit(0)
	}
	return nil
}

// Init fires the init event exactly once per orchestrator, triggering
// component boot logic, option contributions into the shared (root)
// configuration, and the registration of the per-scope build handlers.
// Re-entry is a silent no-op.
func (o *Orchestrator) Init(ctx context.Context) error {
	var err error
	o.initOnce.Do(func() {
		ctxlog.FromContext(ctx).Debug("Init phase started.")
		err = o.dispatcher.Fire(ctx, events.Init, &component.InitPayload{Shared: o.root.Config})
	})
	return err
}

// Build emits one finalized configuration object per buildable scope, in
// declaration order. Each scope's emission fires the entry, rule, plugin
// and configuration-ready events scoped to that group's own state, with the
// scope current on the stack for the duration.
func (o *Orchestrator) Build(ctx context.Context) ([]*buildconfig.Config, error) {
	scopes := o.buildableScopes()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build phase started.", "scopes", len(scopes))

	configs := make([]*buildconfig.Config, 0, len(scopes))
	for _, sc := range scopes {
		if err := o.emitScope(ctx, sc); err != nil {
			return nil, err
		}
		configs = append(configs, sc.Config)
	}
	logger.Info("Build complete.", "configurations", len(configs), "build_id", o.buildID)
	return configs, nil
}

// emitScope runs one scope's config-emission routine. Non-root scopes
// first inherit the shared option contributions collected on the root
// configuration during Init.
func (o *Orchestrator) emitScope(ctx context.Context, sc *scope.Scope) error {
	return o.stack.WhileCurrent(sc, func() error {
		if sc != o.root {
			sc.Config.Merge(o.root.Config.Options)
		}
		for _, name := range []string{
			events.BuildEntries,
			events.BuildRules,
			events.BuildPlugins,
			events.ConfigurationReady,
		} {
			if err := o.dispatcher.Fire(ctx, name, sc); err != nil {
				return fmt.Errorf("emission of scope %q failed: %w", sc.Name, err)
			}
		}
		return nil
	})
}

// Run drives the whole lifecycle in order and returns the finished
// configurations. A fatal error in any phase aborts the remaining phases.
// If Bootstrap never ran, Run warns and bootstraps lazily (with no
// components) rather than failing.
func (o *Orchestrator) Run(ctx context.Context, fn LoadFunc) ([]*buildconfig.Config, error) {
	o.mu.Lock()
	booted := o.bootstrapped
	o.mu.Unlock()
	if !booted {
		ctxlog.FromContext(ctx).Warn("Orchestrator was never bootstrapped; bootstrapping lazily with no components.")
		if err := o.Bootstrap(); err != nil {
			return nil, err
		}
	}

	if err := o.Load(ctx, fn); err != nil {
		return nil, err
	}
	if err := o.Setup(ctx); err != nil {
		return nil, err
	}
	if _, err := o.GatherDependencies(ctx); err != nil {
		return nil, err
	}
	if err := o.InstallDependencies(ctx); err != nil {
		return nil, err
	}
	if err := o.Init(ctx); err != nil {
		return nil, err
	}
	return o.Build(ctx)
}
