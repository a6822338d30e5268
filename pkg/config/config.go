// Package config loads modelgraph configuration from TOML files.
//
// Configuration is optional: every field has a working default, a missing
// config file is not an error unless the user pointed at one explicitly,
// and CLI flags override whatever the file says.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mfeldt/modelgraph/pkg/errors"
)

// Duration wraps time.Duration so TOML values can be written as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string like "30m" or "24h".
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the root configuration document.
type Config struct {
	Source SourceConfig `toml:"source"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Export ExportConfig `toml:"export"`
}

// SourceConfig selects the model source. Snapshot takes precedence when
// both are set; with neither set the CLI requires a --snapshot or --bridge
// flag.
type SourceConfig struct {
	// Snapshot is the path to a JSON snapshot file.
	Snapshot string `toml:"snapshot"`

	// Bridge is the base URL of a running model bridge.
	Bridge string `toml:"bridge"`
}

// CacheConfig configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty means ~/.cache/modelgraph/.
	Dir string `toml:"dir"`

	// TTL is the entry lifetime, e.g. "24h". Zero means no expiration.
	TTL Duration `toml:"ttl"`

	// Redis is the address of the Redis server for the redis backend.
	Redis string `toml:"redis"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

// ExportConfig configures export output.
type ExportConfig struct {
	// Dir is the directory the export file is written to.
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend: "file",
			TTL:     Duration{24 * time.Hour},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// DefaultPath returns the default config file location
// (~/.config/modelgraph/config.toml), or "" if the home directory is
// unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "modelgraph", "config.toml")
}

// Load reads the config file at path, layered over the defaults.
// A missing file maps to FILE_NOT_FOUND and unparseable TOML to
// INVALID_FORMAT.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s does not exist", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads the config at path, or the default location when
// path is empty. A missing file at the default location is not an error;
// a missing file at an explicit path is.
func LoadOrDefault(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return Default(), nil
	}

	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, errors.ErrCodeFileNotFound) {
			return Default(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}
