package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	dir       string  // photo directory to scan
	filter    string  // restrict to one folder name
	listen    string  // listen address override
	worldSize float64 // world side length in world units
	seed      uint64  // solver seed
	noCache   bool    // disable the layout cache
	refresh   bool    // rescan and resolve even on a cache hit
}

// serveCommand creates the serve command: build the collage and serve it
// over HTTP with websocket pan sessions.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the collage over HTTP with interactive pan sessions",
		Long: `Serve builds the collage for the configured photo directory and exposes
it over HTTP: JSON endpoints for the inventory and layout, and a websocket
endpoint that runs the camera per connection so clients can pan, flick,
tap, and recenter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.listen != "" {
				cfg.Server.Listen = opts.listen
			}

			runner, err := c.newRunner(cmd, cfg.Cache, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			buildOpts := buildOptions(cfg, opts.dir, opts.filter, opts.worldSize, opts.seed, opts.refresh)

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			result, err := runner.Build(cmd.Context(), buildOpts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d of %d photos", result.Stats.PlacedCount, result.Stats.PhotoCount))

			printInfo("Serving on %s", cfg.Server.Listen)
			srv := server.New(cfg.Server, result, logger).WithRunner(runner, buildOpts)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "photo directory to scan")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "restrict the wall to one folder name")
	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "", "listen address (default from config)")
	cmd.Flags().Float64Var(&opts.worldSize, "world-size", 0, "world side length in world units")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "solver seed for reproducible layouts")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rescan and resolve even when cached")

	return cmd
}
