// Package collage provides the core build pipeline for Driftwall.
//
// This package implements the complete scan → solve pipeline that can be
// used by CLI, server, and TUI components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Scan: Walk the photo directory and build an ordered inventory
//  2. Solve: Place every photo on the toroidal canvas
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := collage.NewRunner(cache, nil, logger)
//	opts := collage.Options{
//	    Dir:  "/photos",
//	    Seed: 7,
//	}
//	result, err := runner.Build(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Layout.Items))
package collage

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and TUI
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the collage pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scan options
	Dir       string `json:"dir"`
	FilterDir string `json:"filter_dir,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Solve options
	WorldSize float64 `json:"world_size,omitempty"`
	Seed      uint64  `json:"seed,omitempty"`

	// Solver carries the full solver configuration. Zero fields are
	// filled with defaults; WorldSize and Seed above take precedence
	// over the corresponding Solver fields when set.
	Solver layout.Options `json:"solver,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForScan(); err != nil {
		return err
	}
	if err := o.SetSolveDefaults(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForScan checks required fields for scanning.
func (o *Options) ValidateForScan() error {
	if o.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "photo directory is required")
	}
	if err := errors.ValidateDirName(o.FilterDir); err != nil {
		return err
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetSolveDefaults resolves the effective solver options.
func (o *Options) SetSolveDefaults() error {
	if o.WorldSize != 0 {
		o.Solver.WorldSize = o.WorldSize
	}
	// Single-directory walls get the smaller world so sparse folders
	// still read as dense.
	if o.Solver.WorldSize == 0 && o.FilterDir != "" {
		o.Solver.WorldSize = layout.DefaultFilteredWorldSize
	}
	// Category views title themselves after the folder unless configured.
	if o.Solver.CenterTitle == "" && o.FilterDir != "" {
		o.Solver.CenterTitle = o.FilterDir
	}
	if o.Seed != 0 {
		o.Solver.Seed = o.Seed
	}
	if o.Solver.Seed == 0 {
		o.Solver.Seed = DefaultSeed
	}
	if err := o.Solver.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("solver options: %w", err)
	}
	o.WorldSize = o.Solver.WorldSize
	o.Seed = o.Solver.Seed
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
