// Package conf holds the runtime configuration for the killer
// sudoku servers and tools.  Values are read from an optional TOML
// file, then overridden by environment variables, so the same
// binary runs unchanged on a laptop (localhost defaults) and on a
// deployed dyno (12-factor environment).
package conf

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults for a local development setup with stock Redis and
// Postgres installs.
const (
	DefaultRedisURL    = "redis://localhost:6379/"
	DefaultDatabaseURL = "postgres://localhost/killer?sslmode=disable"
	DefaultPort        = "8080"
	DefaultEnvName     = "local"
)

// A Config carries everything the servers need to reach their
// backing services.
type Config struct {
	// RedisURL locates the session cache.
	RedisURL string `toml:"redis_url"`
	// DatabaseURL locates the puzzle archive.
	DatabaseURL string `toml:"database_url"`
	// Port is the HTTP listen port.
	Port string `toml:"port"`
	// EnvName namespaces cache keys, so several deployments can
	// share one Redis instance.
	EnvName string `toml:"env_name"`
}

// Load reads the configuration file at filename (skipped when the
// file is absent or filename is empty), applies environment
// overrides, and fills remaining gaps with the localhost defaults.
func Load(filename string) (Config, error) {
	var config Config
	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if _, err := toml.DecodeFile(filename, &config); err != nil {
				return config, err
			}
		}
	}
	config.applyEnvironment()
	config.applyDefaults()
	return config, nil
}

// Default returns the configuration with no file at all: just the
// environment and the localhost defaults.  Tests and the CLI use
// this.
func Default() Config {
	config, _ := Load("")
	return config
}

// applyEnvironment overrides file values from the environment.
// REDISTOGO_URL is honored as a legacy alias for REDIS_URL.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	} else if v := os.Getenv("REDISTOGO_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("ENV_NAME"); v != "" {
		c.EnvName = v
	}
}

// applyDefaults fills anything still unset.
func (c *Config) applyDefaults() {
	if c.RedisURL == "" {
		c.RedisURL = DefaultRedisURL
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = DefaultDatabaseURL
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.EnvName == "" {
		c.EnvName = DefaultEnvName
	}
}
