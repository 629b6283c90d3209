package layout

import (
	"math"

	"github.com/driftwall/driftwall/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Server
// =============================================================================

const (
	// DefaultWorldSize is the side length of the square world in world units.
	DefaultWorldSize = 8000.0

	// DefaultFilteredWorldSize is the smaller world used for single-directory
	// (category) views, which carry far fewer photos.
	DefaultFilteredWorldSize = 4200.0

	// DefaultSeed is the default random seed for reproducible layouts.
	DefaultSeed = uint64(42)

	// DefaultAspectRatio is assumed when a source carries no usable
	// width/height metadata.
	DefaultAspectRatio = 4.0 / 3.0

	// DefaultMargin keeps tiles away from the world edges.
	DefaultMargin = 80.0

	// DefaultGap separates a tile's bottom edge from its caption strip.
	DefaultGap = 18.0

	// DefaultCaptionHeight is the fixed height of the caption strip.
	DefaultCaptionHeight = 56.0

	// DefaultMaxOverlapRatio caps how much of either tile an intersection
	// may cover.
	DefaultMaxOverlapRatio = 0.10

	// DefaultAttempts is the position-sampling budget per shrink step.
	DefaultAttempts = 6000

	// DefaultFallbackEdge is the long-edge length of the last-resort tile
	// tried with a doubled attempt budget before an item is dropped.
	DefaultFallbackEdge = 150.0

	// DefaultRingBias is the probability of sampling on the center ring
	// rather than uniformly across the world.
	DefaultRingBias = 0.82

	// DefaultMaxRotation bounds the decorative tilt in degrees. Rotation is
	// cosmetic and ignored by all collision math.
	DefaultMaxRotation = 4.0
)

// DefaultShrinkSteps are the scale factors tried in order before the
// fallback size: full size, then two progressively smaller retries.
var DefaultShrinkSteps = []float64{1.0, 0.88, 0.78}

// Tier is one weighted size class. Width and height ranges are independent
// per axis; the drawn tile preserves the source aspect ratio and re-clamps
// into the tier's box on the constrained axis.
type Tier struct {
	Weight float64
	MinW   float64
	MaxW   float64
	MinH   float64
	MaxH   float64
}

// DefaultTiers is the standard size distribution: a few large anchors,
// a band of mediums, and a majority of small tiles.
var DefaultTiers = []Tier{
	{Weight: 0.08, MinW: 520, MaxW: 940, MinH: 380, MaxH: 720},
	{Weight: 0.27, MinW: 300, MaxW: 620, MinH: 220, MaxH: 480},
	{Weight: 0.65, MinW: 170, MaxW: 410, MinH: 130, MaxH: 330},
}

// DefaultCenterExclusion returns the keep-out rectangle reserved for the
// collage title, centered in a world of the given size.
func DefaultCenterExclusion(worldSize float64) Rect {
	const w, h = 1280.0, 480.0
	return Rect{X: worldSize/2 - w/2, Y: worldSize/2 - h/2, W: w, H: h}
}

// =============================================================================
// Options - Solver Configuration
// =============================================================================

// Options configures a Solve call. The zero value is usable: every field
// falls back to its package default. This struct supports JSON serialization
// for API requests and cache keys.
type Options struct {
	WorldSize       float64   `json:"world_size,omitempty"`
	Seed            uint64    `json:"seed,omitempty"`
	Margin          float64   `json:"margin,omitempty"`
	Gap             float64   `json:"gap,omitempty"`
	CaptionHeight   float64   `json:"caption_height,omitempty"`
	CenterExclusion Rect      `json:"center_exclusion,omitempty"`
	MaxOverlapRatio float64   `json:"max_overlap_ratio,omitempty"`
	Attempts        int       `json:"attempts,omitempty"`
	ShrinkSteps     []float64 `json:"shrink_steps,omitempty"`
	FallbackEdge    float64   `json:"fallback_edge,omitempty"`
	RingBias        float64   `json:"ring_bias,omitempty"`
	RingInner       float64   `json:"ring_inner,omitempty"`
	RingOuter       float64   `json:"ring_outer,omitempty"`
	MaxRotation     float64   `json:"max_rotation,omitempty"`
	Tiers           []Tier    `json:"tiers,omitempty"`

	// CenterTitle and CenterSubtitle are shown inside the exclusion zone.
	// They do not affect placement but ride along into the Layout so every
	// presentation surface renders the same card.
	CenterTitle    string `json:"center_title,omitempty"`
	CenterSubtitle string `json:"center_subtitle,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults fills unset fields with package defaults and
// validates the result. It must be called before the options are used;
// Solve calls it automatically.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.WorldSize == 0 {
		o.WorldSize = DefaultWorldSize
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.CaptionHeight == 0 {
		o.CaptionHeight = DefaultCaptionHeight
	}
	if o.CenterExclusion.Empty() {
		o.CenterExclusion = DefaultCenterExclusion(o.WorldSize)
	}
	if o.MaxOverlapRatio == 0 {
		o.MaxOverlapRatio = DefaultMaxOverlapRatio
	}
	if o.Attempts == 0 {
		o.Attempts = DefaultAttempts
	}
	if len(o.ShrinkSteps) == 0 {
		o.ShrinkSteps = DefaultShrinkSteps
	}
	if o.FallbackEdge == 0 {
		o.FallbackEdge = DefaultFallbackEdge
	}
	if o.RingBias == 0 {
		o.RingBias = DefaultRingBias
	}
	if o.MaxRotation == 0 {
		o.MaxRotation = DefaultMaxRotation
	}
	if len(o.Tiers) == 0 {
		o.Tiers = DefaultTiers
	}
	if o.RingInner == 0 {
		// Just outside the exclusion zone, so ring samples cluster around
		// the title without wasting attempts inside it.
		o.RingInner = math.Hypot(o.CenterExclusion.W, o.CenterExclusion.H)/2 + 120
	}
	if o.RingOuter == 0 {
		o.RingOuter = o.WorldSize * 0.45
	}

	// A world smaller than the largest tier plus margins is invalid input:
	// no amount of resampling could ever place such a tile.
	if o.WorldSize > 0 {
		maxEdge := 0.0
		for _, t := range o.Tiers {
			maxEdge = max(maxEdge, t.MaxW, t.MaxH+o.Gap+o.CaptionHeight)
		}
		if o.WorldSize < maxEdge+2*o.Margin {
			return errors.New(errors.ErrCodeInvalidInput,
				"world size %.0f cannot fit the largest tier (%.0f) plus margins", o.WorldSize, maxEdge)
		}
	}

	if o.MaxOverlapRatio < 0 || o.MaxOverlapRatio >= 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"max overlap ratio must be in [0, 1), got %v", o.MaxOverlapRatio)
	}
	if o.RingInner > o.RingOuter {
		return errors.New(errors.ErrCodeInvalidInput,
			"ring inner radius %v exceeds outer radius %v", o.RingInner, o.RingOuter)
	}

	o.validated = true
	return nil
}

// captionRect returns the caption strip directly below a tile.
func (o *Options) captionRect(tile Rect) Rect {
	return Rect{X: tile.X, Y: tile.Bottom() + o.Gap, W: tile.W, H: o.CaptionHeight}
}

// footprint extends a tile rectangle downward over its caption strip.
func (o *Options) footprint(tile Rect) Rect {
	return Rect{X: tile.X, Y: tile.Y, W: tile.W, H: tile.H + o.Gap + o.CaptionHeight}
}
