// Package config loads Fathom project configuration. Values are layered:
// built-in defaults, then fathom.yaml, then FATHOM_ environment variables,
// then CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "fathom.yaml"

// ConfigFileNameAlt is the alternate config file name.
const ConfigFileNameAlt = "fathom.yml"

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "FATHOM_"

// Config holds the resolved project configuration.
type Config struct {
	// CatalogPath is the catalog file describing domains, tables and tasks.
	CatalogPath string `koanf:"catalog"`
	// OutputDir is where per-task lineage documents are written.
	OutputDir string `koanf:"output_dir"`
	// ResolutionsDir holds the external resolver's per-task resolution
	// artifacts.
	ResolutionsDir string `koanf:"resolutions"`
	// StatePath is the SQLite state database path.
	StatePath string `koanf:"state"`
	// OutputFormat selects CLI rendering (text|json).
	OutputFormat string `koanf:"output"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// defaults returns the built-in configuration values.
func defaults() map[string]any {
	return map[string]any{
		"catalog":     "catalog.yaml",
		"output_dir":  "lineage",
		"resolutions": "resolutions",
		"state":       ".fathom/state.db",
		"output":      "text",
		"verbose":     false,
	}
}

// Load resolves configuration from defaults, an optional config file, the
// environment and CLI flags, in that order of precedence. An explicit
// path that does not exist is an error; a missing default fathom.yaml is
// not.
func Load(explicitPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := findConfigFile(explicitPath)
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", explicitPath)
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// FATHOM_OUTPUT_DIR=docs/lineage -> output_dir
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flag names use dashes (--output-dir), config keys use underscores.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns the config file to use.
// Priority: explicit path > fathom.yaml > fathom.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}
