package config

import (
	"os"
	"strconv"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
)

// Environment variables read by FromEnv.
const (
	EnvRoot          = "GENERALS_ROOT"
	EnvMarker        = "GENERALS_MARKER"
	EnvRegistry      = "GENERALS_REGISTRY"
	EnvStrictListing = "GENERALS_STRICT_LISTING"
	EnvLogLevel      = "GENERALS_LOG_LEVEL"
	EnvLogJSON       = "GENERALS_LOG_JSON"
)

// Config is the startup configuration of the shim.
type Config struct {
	// Root is the game-data directory every engine path resolves under.
	Root string

	// Marker is a file expected under Root. Its absence is only a warning.
	Marker string

	// RegistryFile optionally seeds the registry from a .reg export.
	RegistryFile string

	// StrictListing makes unreadable entries during a listing fatal.
	StrictListing bool

	// LogLevel is a zap level name. Empty means info.
	LogLevel string

	// LogJSON selects JSON log output.
	LogJSON bool

	// MemoryLimitPages caps engine memory in 64KiB pages. 0 means the
	// wazero default.
	MemoryLimitPages uint32
}

// Default returns a configuration with the default marker and no root.
func Default() *Config {
	return &Config{
		Marker:   filesystem.DefaultMarker,
		LogLevel: "info",
	}
}

// FromEnv reads the configuration from the environment. A missing root is a
// configuration error.
func FromEnv() (*Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if err := cfg.overlay(lookup); err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		return nil, errors.Config(EnvRoot+" is not set", nil)
	}
	return cfg, nil
}

// LoadEnv overlays the environment variables that are set onto c. Unlike
// FromEnv it does not require a root.
func (c *Config) LoadEnv() error {
	return c.overlay(os.LookupEnv)
}

func (c *Config) overlay(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRoot); ok && v != "" {
		c.Root = v
	}
	if v, ok := lookup(EnvMarker); ok && v != "" {
		c.Marker = v
	}
	if v, ok := lookup(EnvRegistry); ok {
		c.RegistryFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}

	var err error
	if c.StrictListing, err = boolEnv(lookup, EnvStrictListing, c.StrictListing); err != nil {
		return err
	}
	if c.LogJSON, err = boolEnv(lookup, EnvLogJSON, c.LogJSON); err != nil {
		return err
	}
	return nil
}

func boolEnv(lookup func(string) (string, bool), name string, def bool) (bool, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errors.Config(name+" must be a boolean, got "+strconv.Quote(v), err)
	}
	return b, nil
}

// Validate checks that Root names an existing directory.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.Config(EnvRoot+" is not set", nil)
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return errors.Config("cannot stat root "+c.Root, err)
	}
	if !info.IsDir() {
		return errors.Config("root "+c.Root+" is not a directory", nil)
	}
	return nil
}

// FSOptions returns the file system adapter options for c.
func (c *Config) FSOptions() filesystem.Options {
	return filesystem.Options{
		Root:          c.Root,
		Marker:        c.Marker,
		StrictListing: c.StrictListing,
	}
}
