package deps

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/vk/mixforge/internal/ctxlog"
)

// Installer installs a deduplicated list of packages out of process. The
// reload flag tells the installer the host must be restarted once the
// installation lands; acting on it is the caller's job.
type Installer interface {
	Install(ctx context.Context, pkgs []Package, reload bool) error
}

// CommandInstaller shells out to an npm-compatible package manager binary.
type CommandInstaller struct {
	// Bin is the package manager executable, e.g. "npm".
	Bin string
	// Dir is the working directory for the install, usually the project root.
	Dir string
}

// NewCommandInstaller creates an installer around the given binary.
func NewCommandInstaller(bin, dir string) *CommandInstaller {
	return &CommandInstaller{Bin: bin, Dir: dir}
}

// Install runs one install invocation per dependency class (dev vs regular).
// An empty package list is a no-op.
func (ci *CommandInstaller) Install(ctx context.Context, pkgs []Package, reload bool) error {
	if len(pkgs) == 0 {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	var regular, dev []string
	for _, p := range pkgs {
		spec := p.Name
		if p.Version != "" {
			spec += "@" + p.Version
		}
		if p.Dev {
			dev = append(dev, spec)
		} else {
			regular = append(regular, spec)
		}
	}

	for _, batch := range []struct {
		specs []string
		args  []string
	}{
		{regular, []string{"install"}},
		{dev, []string{"install", "--save-dev"}},
	} {
		if len(batch.specs) == 0 {
			continue
		}
		args := append(batch.args, batch.specs...)
		logger.Info("Installing packages.", "bin", ci.Bin, "packages", batch.specs, "reload", reload)
		cmd := exec.CommandContext(ctx, ci.Bin, args...)
		cmd.Dir = ci.Dir
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s %v failed: %w\n%s", ci.Bin, args, err, out)
		}
	}
	return nil
}

// NoopInstaller ignores install requests. Used when installation is
// disabled or delegated entirely to the surrounding tooling.
type NoopInstaller struct{}

// Install implements Installer.
func (NoopInstaller) Install(ctx context.Context, pkgs []Package, reload bool) error {
	ctxlog.FromContext(ctx).Debug("Skipping package installation.", "count", len(pkgs), "reload", reload)
	return nil
}
