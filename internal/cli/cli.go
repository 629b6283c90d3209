// Package cli implements the driftwall command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/internal/config"
	"github.com/driftwall/driftwall/pkg/buildinfo"
	"github.com/driftwall/driftwall/pkg/cache"
	"github.com/driftwall/driftwall/pkg/collage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "driftwall"

	// defaultConfigFile is the config file looked up in the working
	// directory when --config is not given.
	defaultConfigFile = "driftwall.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag value.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "driftwall",
		Short:        "Driftwall lays out photo collections as an endless wall",
		Long:         `Driftwall is a tool for turning a photo directory into a procedural collage on a wrap-around canvas, browsable by panning in any direction without ever reaching an edge.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Commands read the logger back via loggerFromContext.
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default driftwall.toml if present)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.photosCommand())
	root.AddCommand(c.pairsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file. The default location is optional; an
// explicit --config path must exist.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	optional := false
	if path == "" {
		path = defaultConfigFile
		optional = true
	}
	return config.Load(path, optional)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a collage runner backed by the configured cache.
func (c *CLI) newRunner(cmd *cobra.Command, cfg config.CacheConfig, noCache bool) (*collage.Runner, error) {
	store, err := c.newCache(cmd, cfg, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.KeyPrefix)
	}
	return collage.NewRunner(store, keyer, loggerFromContext(cmd.Context())), nil
}

func (c *CLI) newCache(cmd *cobra.Command, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheBackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheBackendRedis {
		return cache.NewRedisCache(cmd.Context(), cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/driftwall/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// buildOptions assembles pipeline options from config plus command flags.
// Flag values win over the config file when set.
func buildOptions(cfg config.Config, dir, filter string, worldSize float64, seed uint64, refresh bool) collage.Options {
	opts := collage.Options{
		Dir:       cfg.Photos.Dir,
		FilterDir: cfg.Photos.Filter,
		WorldSize: cfg.Solver.WorldSize,
		Seed:      cfg.Solver.Seed,
		Refresh:   refresh,
	}
	opts.Solver.CenterTitle = cfg.Photos.Title
	opts.Solver.CenterSubtitle = cfg.Photos.Subtitle
	if dir != "" {
		opts.Dir = dir
	}
	if filter != "" {
		opts.FilterDir = filter
	}
	if worldSize != 0 {
		opts.WorldSize = worldSize
	}
	if seed != 0 {
		opts.Seed = seed
	}
	return opts
}
