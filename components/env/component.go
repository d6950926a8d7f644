// Package env provides the "env" component: it loads an environment file
// and contributes the MIX_-prefixed variables as define options in the
// shared configuration, so bundled code can read them at build time.
package env

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/mixforge/internal/component"
)

// Prefix selects which environment keys are exposed to the build.
const Prefix = "MIX_"

// Component implements the env composite plus a directly merged "env"
// surface method for point lookups.
type Component struct {
	component.Base
	values map[string]string
}

// New creates the env component.
func New() *Component {
	return &Component{values: make(map[string]string)}
}

// Name implements component.Named.
func (c *Component) Name() string { return "env" }

// Register implements component.Registrable. The optional argument is the
// env file path, defaulting to ".env". A missing default file is fine;
// process environment variables still apply and take precedence.
func (c *Component) Register(args ...any) error {
	path := ".env"
	explicit := false
	if len(args) > 0 {
		p, ok := args[0].(string)
		if !ok {
			return fmt.Errorf("env file path must be a string, got %T", args[0])
		}
		path = p
		explicit = true
	}

	fileValues, err := godotenv.Read(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			fileValues = nil
		} else {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	for key, value := range fileValues {
		if strings.HasPrefix(key, Prefix) {
			c.values[key] = value
		}
	}
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, Prefix) {
			c.values[key] = value
		}
	}
	return nil
}

// Configuration implements component.OptionProvider: the collected values
// become define options in the shared configuration.
func (c *Component) Configuration() map[string]any {
	define := make(map[string]any, len(c.values))
	for key, value := range c.values {
		define[key] = value
	}
	return map[string]any{"define": define}
}

// Methods implements component.MethodProvider, merging an "env" lookup
// method directly onto the API surface.
func (c *Component) Methods() map[string]component.Method {
	return map[string]component.Method{
		"env": func(args ...any) (any, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("env lookup takes exactly one key, got %d", len(args))
			}
			key, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("env key must be a string, got %T", args[0])
			}
			return c.values[key], nil
		},
	}
}
