// Package testutil provides shared helpers for orchestrator and component
// tests: a thread-safe log buffer, a mock component, and a harness that
// drives a full lifecycle run over an in-memory configuration callback.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/vk/mixforge/internal/buildconfig"
	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/ctxlog"
	"github.com/vk/mixforge/internal/orchestrator"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// ContextWithDebugLogger returns a context carrying a debug-level text
// logger that writes into buf.
func ContextWithDebugLogger(buf *SafeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// HarnessResult holds the outcomes of a lifecycle test run.
type HarnessResult struct {
	Configs   []*buildconfig.Config
	Err       error
	LogOutput string
	Orch      *orchestrator.Orchestrator
}

// RunLifecycle bootstraps a fresh orchestrator with the given components,
// drives the full phase sequence with the given configuration callback, and
// captures the debug log output.
func RunLifecycle(t *testing.T, components []component.State, load orchestrator.LoadFunc, opts ...orchestrator.Option) *HarnessResult {
	t.Helper()

	var buf SafeBuffer
	ctx := ContextWithDebugLogger(&buf)

	orch := orchestrator.New(opts...)
	if err := orch.Bootstrap(components...); err != nil {
		return &HarnessResult{Err: err, LogOutput: buf.String(), Orch: orch}
	}

	configs, err := orch.Run(ctx, load)
	return &HarnessResult{
		Configs:   configs,
		Err:       err,
		LogOutput: buf.String(),
		Orch:      orch,
	}
}
