package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/layout"
)

// layoutFile is a layout loaded from disk, kept with its source path for
// messages.
type layoutFile struct {
	Path   string
	Layout layout.Layout
}

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	dir       string  // photo directory to scan
	filter    string  // restrict to one folder name
	output    string  // output layout file
	worldSize float64 // world side length in world units
	seed      uint64  // solver seed
	title     string  // center card title
	subtitle  string  // center card subtitle
	noCache   bool    // disable the layout cache
	refresh   bool    // rescan and resolve even on a cache hit
}

// solveCommand creates the solve command: scan a photo directory and write
// the solved layout as JSON.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Scan a photo directory and solve the collage layout",
		Long: `Solve walks the photo directory, reads image dimensions, and places
every photo on the wrap-around canvas. The resulting layout is written as
JSON for the serve, view, and render commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd, cfg.Cache, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			buildOpts := buildOptions(cfg, opts.dir, opts.filter, opts.worldSize, opts.seed, opts.refresh)
			if opts.title != "" {
				buildOpts.Solver.CenterTitle = opts.title
			}
			if opts.subtitle != "" {
				buildOpts.Solver.CenterSubtitle = opts.subtitle
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			spinner := newSpinnerWithContext(cmd.Context(), "Solving collage layout")
			spinner.Start()

			result, err := runner.Build(cmd.Context(), buildOpts)
			if err != nil {
				spinner.StopWithError("Solve failed")
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Placed %d of %d photos", result.Stats.PlacedCount, result.Stats.PhotoCount))

			data, err := json.MarshalIndent(result.Layout, "", "  ")
			if err != nil {
				return fmt.Errorf("encode layout: %w", err)
			}
			if err := os.WriteFile(opts.output, data, 0644); err != nil {
				return fmt.Errorf("write layout: %w", err)
			}

			printSuccess("Solved layout for %q (seed %d)", buildOpts.Dir, result.Layout.Seed)
			printStats(result.Stats.PhotoCount, result.Stats.PlacedCount, result.Stats.DroppedCount, result.CacheInfo.SolveHit)
			printFile(opts.output)
			printNextStep("Browse it", "driftwall view "+opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "photo directory to scan")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "restrict the wall to one folder name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "layout.json", "output layout file")
	cmd.Flags().Float64Var(&opts.worldSize, "world-size", 0, "world side length in world units")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "solver seed for reproducible layouts")
	cmd.Flags().StringVar(&opts.title, "title", "", "title shown in the center card")
	cmd.Flags().StringVar(&opts.subtitle, "subtitle", "", "subtitle shown in the center card")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rescan and resolve even when cached")

	return cmd
}

// loadLayoutFile reads a layout JSON file written by the solve command.
func loadLayoutFile(path string) (result layoutFile, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read layout: %w", err)
	}
	if err := json.Unmarshal(data, &result.Layout); err != nil {
		return result, fmt.Errorf("parse layout %s: %w", path, err)
	}
	result.Path = path
	return result, nil
}
