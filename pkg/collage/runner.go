package collage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/driftwall/driftwall/pkg/cache"
	"github.com/driftwall/driftwall/pkg/inventory"
	"github.com/driftwall/driftwall/pkg/layout"
	"github.com/driftwall/driftwall/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Inventory lists the scanned photos in wall order.
	Inventory []inventory.Record

	// InventoryHash is the content hash of the serialized inventory.
	InventoryHash string

	// Layout contains the placed items and the world geometry.
	Layout layout.Layout

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PhotoCount   int
	PlacedCount  int
	DroppedCount int
	ScanTime     time.Duration
	SolveTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ScanHit  bool // Whether the inventory came from cache
	SolveHit bool // Whether the layout came from cache
}

// Build runs the complete scan → solve pipeline with caching.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Scan
	scanStart := time.Now()
	records, scanHit, err := r.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	result.Inventory = records
	result.Stats.ScanTime = time.Since(scanStart)
	result.Stats.PhotoCount = len(records)
	result.CacheInfo.ScanHit = scanHit

	// Compute inventory hash for cache keys and API responses
	if data, err := json.Marshal(records); err == nil {
		result.InventoryHash = cache.Hash(data)
	}

	r.Logger.Info("scanned photos",
		"photos", len(records),
		"duration", result.Stats.ScanTime)

	// Stage 2: Solve
	solveStart := time.Now()
	l, solveHit, err := r.SolveWithCacheInfo(ctx, records, result.InventoryHash, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Layout = l
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.PlacedCount = len(l.Items)
	result.Stats.DroppedCount = len(l.Dropped)
	result.CacheInfo.SolveHit = solveHit

	r.Logger.Info("solved layout",
		"placed", len(l.Items),
		"dropped", len(l.Dropped),
		"duration", result.Stats.SolveTime)
	for _, id := range l.Dropped {
		r.Logger.Warn("dropped photo from layout", "photo", id)
	}

	return result, nil
}

// ScanWithCacheInfo walks the photo directory with caching and returns
// cache hit info.
func (r *Runner) ScanWithCacheInfo(ctx context.Context, opts Options) ([]inventory.Record, bool, error) {
	if err := opts.ValidateForScan(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.InventoryKey(opts.Dir, opts.FilterDir)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var records []inventory.Record
			if err := json.Unmarshal(data, &records); err == nil {
				observability.Cache().OnCacheHit(ctx, "inventory")
				return records, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "inventory")
	}

	// Scan
	scanStart := time.Now()
	observability.Collage().OnScanStart(ctx, opts.Dir)
	records, err := inventory.Scan(opts.Dir, inventory.ScanOptions{FilterDir: opts.FilterDir})
	observability.Collage().OnScanComplete(ctx, opts.Dir, len(records), time.Since(scanStart), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(records); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultInventoryTTL)
		observability.Cache().OnCacheSet(ctx, "inventory", len(data))
	}

	return records, false, nil // Cache miss
}

// Scan is a convenience wrapper that calls ScanWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Scan(ctx context.Context, opts Options) ([]inventory.Record, error) {
	records, _, err := r.ScanWithCacheInfo(ctx, opts)
	return records, err
}

// SolveWithCacheInfo places the inventory with caching and returns cache
// hit info. The inventoryHash keys the cache entry; pass an empty string
// to bypass the cache.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, records []inventory.Record, inventoryHash string, opts Options) (layout.Layout, bool, error) {
	if err := opts.SetSolveDefaults(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := ""
	if inventoryHash != "" {
		cacheKey = r.Keyer.LayoutKey(inventoryHash, opts.Solver)
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Solve
	sources := inventory.Sources(records)
	solveStart := time.Now()
	observability.Collage().OnSolveStart(ctx, len(sources))
	l, err := layout.Solve(sources, opts.Solver)
	observability.Collage().OnSolveComplete(ctx, len(l.Items), len(l.Dropped), time.Since(solveStart), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	// Cache the result
	if cacheKey != "" {
		if data, err := json.Marshal(l); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.DefaultLayoutTTL)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil // Cache miss
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Solve(ctx context.Context, records []inventory.Record, opts Options) (layout.Layout, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return layout.Layout{}, err
	}
	l, _, err := r.SolveWithCacheInfo(ctx, records, cache.Hash(data), opts)
	return l, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
