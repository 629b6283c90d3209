// Package config loads Driftwall configuration from TOML files.
//
// Configuration is optional: every field has a default, and the CLI flags
// override whatever the file provides. The expected location is
// driftwall.toml in the working directory, but any path can be passed.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/driftwall/driftwall/pkg/errors"
)

// Backend names accepted by [CacheConfig].
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the root configuration document.
type Config struct {
	Photos PhotosConfig `toml:"photos"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Solver SolverConfig `toml:"solver"`
}

// PhotosConfig locates the photo library.
type PhotosConfig struct {
	// Dir is the root directory scanned for photos.
	Dir string `toml:"dir"`

	// Filter restricts the wall to a single folder name.
	Filter string `toml:"filter"`

	// Title and Subtitle fill the card in the center exclusion zone.
	Title    string `toml:"title"`
	Subtitle string `toml:"subtitle"`
}

// ServerConfig configures the HTTP and websocket server.
type ServerConfig struct {
	// Listen is the address the server binds to.
	Listen string `toml:"listen"`

	// TickMS is the pan session frame interval in milliseconds.
	TickMS int `toml:"tick_ms"`
}

// CacheConfig selects and configures the layout cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend directory. Empty uses the user cache dir.
	Dir string `toml:"dir"`

	// Redis connection settings. Only used when Backend is "redis".
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// KeyPrefix scopes keys in a shared Redis.
	KeyPrefix string `toml:"key_prefix"`
}

// SolverConfig carries solver defaults shared by the serve and solve
// commands.
type SolverConfig struct {
	WorldSize float64 `toml:"world_size"`
	Seed      uint64  `toml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen: ":8176",
			TickMS: 16,
		},
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads a TOML config file, layering it over the defaults. A missing
// file is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file")
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values that would otherwise fail deep inside the
// server or cache setup.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend must be one of: file, redis, none")
	}
	if c.Server.TickMS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server tick_ms must be positive")
	}
	if c.Server.Listen == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server listen address is required")
	}
	if c.Photos.Filter != "" {
		if err := errors.ValidateDirName(c.Photos.Filter); err != nil {
			return err
		}
	}
	return nil
}
