// Package config loads prettytrace CLI settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pkt.systems/prettytrace"
)

// EnvConfigPath names a config file used when no --config flag is given.
const EnvConfigPath = "PRETTYTRACE_CONFIG"

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultFileNames are looked up, in order, in the working directory.
var DefaultFileNames = []string{".prettytrace.yaml", ".prettytrace.yml", ".prettytrace.toml"}

// Config mirrors prettytrace.Options plus CLI-only settings.
type Config struct {
	Underline      string   `yaml:"underline" toml:"underline"`
	NoTrace        bool     `yaml:"no_trace" toml:"no_trace"`
	PlainUnderline bool     `yaml:"plain_underline" toml:"plain_underline"`
	SkipNodeFiles  bool     `yaml:"skip_node_files" toml:"skip_node_files"`
	SkipModules    []string `yaml:"skip_modules" toml:"skip_modules"`
	SkipPaths      []string `yaml:"skip_paths" toml:"skip_paths"`
	SkipMalformed  bool     `yaml:"skip_malformed" toml:"skip_malformed"`
	Theme          string   `yaml:"theme" toml:"theme"`
	Language       string   `yaml:"language" toml:"language"`
	// Color is one of "auto", "always", "never".
	Color string `yaml:"color" toml:"color"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	ApplyDefaults(c)
	return c
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(c *Config) {
	if c.Underline == "" {
		c.Underline = prettytrace.DefaultOptions.Underline
	}
	if c.Theme == "" {
		c.Theme = "default"
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// Validate checks enumerated settings.
func Validate(c *Config) error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color: must be one of %s, %s, %s, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	if !slices.Contains(prettytrace.ThemeNames(), strings.ToLower(c.Theme)) {
		return fmt.Errorf("theme: %w %q", prettytrace.ErrUnknownTheme, c.Theme)
	}
	return nil
}

// Load reads the file at path, choosing the decoder by extension, then
// applies defaults and validates the result. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
		if unknown := md.Undecoded(); len(unknown) > 0 {
			return nil, fmt.Errorf("configuration file %q has unknown keys %v", path, unknown)
		}
	default:
		return nil, fmt.Errorf("configuration file %q: unsupported extension %q", path, ext)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Discover returns the config file to load: explicit wins, then the
// PRETTYTRACE_CONFIG environment variable, then the first DefaultFileNames
// entry present in dir. It returns "" when there is none.
func Discover(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Options converts the configuration into render options.
func (c *Config) Options() prettytrace.Options {
	return prettytrace.Options{
		Underline:      c.Underline,
		NoTrace:        c.NoTrace,
		PlainUnderline: c.PlainUnderline,
		SkipNodeFiles:  c.SkipNodeFiles,
		SkipModules:    slices.Clone(c.SkipModules),
		SkipPaths:      slices.Clone(c.SkipPaths),
		SkipMalformed:  c.SkipMalformed,
		Theme:          c.Theme,
		Language:       c.Language,
	}
}
