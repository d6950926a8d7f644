package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildfilePath string // .hcl buildfile or directory of buildfiles
	ManifestPath  string // asset manifest location
	ProjectDir    string // working directory for package installation

	PackageManager string // installer binary, e.g. "npm"
	SkipInstall    bool   // queue and deduplicate, but never install

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildfilePath == "" {
		return nil, errors.New("BuildfilePath is a required configuration field and cannot be empty")
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = "mix-manifest.json"
	}
	if cfg.PackageManager == "" {
		cfg.PackageManager = "npm"
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	return &cfg, nil
}
