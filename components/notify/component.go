// Package notify provides the "notify" component: when a scope's
// configuration is finalized it pushes a build-complete event to a
// developer-tooling socket.io server, so watching browsers and dashboards
// can react without polling.
package notify

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/mixforge/internal/component"
	"github.com/vk/mixforge/internal/ctxlog"
	"github.com/vk/mixforge/internal/scope"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// EventName is the socket.io event emitted for each finalized scope.
const EventName = "build:finished"

// defaultTimeout bounds how long a notification attempt may block the
// build.
const defaultTimeout = 5 * time.Second

// Component implements the notify composite.
type Component struct {
	component.Base
	serverURL string
	namespace string
	timeout   time.Duration
}

// New creates the notify component.
func New() *Component {
	return &Component{timeout: defaultTimeout}
}

// Name implements component.Named.
func (c *Component) Name() string { return "notify" }

// Register implements component.Registrable with (url [, namespace])
// arguments.
func (c *Component) Register(args ...any) error {
	if len(args) < 1 {
		return fmt.Errorf("notify requires the dev server URL")
	}
	serverURL, ok := args[0].(string)
	if !ok {
		return fmt.Errorf("notify URL must be a string, got %T", args[0])
	}
	if _, err := url.Parse(serverURL); err != nil {
		return fmt.Errorf("invalid notify URL: %w", err)
	}
	c.serverURL = serverURL
	c.namespace = "/"
	if len(args) > 1 {
		ns, ok := args[1].(string)
		if !ok {
			return fmt.Errorf("notify namespace must be a string, got %T", args[1])
		}
		c.namespace = ns
	}
	return nil
}

// ConfigurationReady implements component.Finalizer. Notification is best
// effort: an unreachable dev server logs a warning instead of failing the
// build.
func (c *Component) ConfigurationReady(ctx context.Context, sc *scope.Scope) error {
	logger := ctxlog.FromContext(ctx).With("component", "notify", "url", c.serverURL, "group", sc.Name)

	if err := c.emit(ctx, sc.Name); err != nil {
		logger.Warn("Build notification failed.", "error", err)
		return nil
	}
	logger.Debug("Build notification delivered.")
	return nil
}

// emit connects, sends one event, and disconnects. The connection attempt
// is bounded by the component timeout.
func (c *Component) emit(ctx context.Context, group string) error {
	parsed, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	opts := socket.DefaultOptions()
	if parsed.Path != "" {
		opts.SetPath(parsed.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(c.namespace, opts)
	defer io.Disconnect()

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		io.Emit(EventName, map[string]any{"group": group})
		done <- nil
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				done <- err
				return
			}
		}
		done <- fmt.Errorf("connection failed")
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		return fmt.Errorf("timed out notifying dev server")
	case err := <-done:
		return err
	}
}
