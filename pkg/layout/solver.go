package layout

import (
	"math"
	"math/rand/v2"
)

// Solve places each source in order inside a square world of side
// opts.WorldSize, honoring the collision rules described in the package
// documentation. The result is deterministic for a fixed seed, input order,
// and options. Sources that cannot be placed within the attempt budgets are
// dropped and reported in Layout.Dropped.
//
// Degenerate input degrades gracefully: no sources or a negative world size
// yields an empty layout, never an error. A world size of exactly 0 is not
// degenerate: it means unset and selects DefaultWorldSize, like every other
// zero Options field.
func Solve(sources []Source, opts Options) (Layout, error) {
	if opts.WorldSize < 0 {
		return Layout{}, nil
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Layout{}, err
	}

	out := Layout{
		WorldSize:       opts.WorldSize,
		Seed:            opts.Seed,
		Gap:             opts.Gap,
		CaptionHeight:   opts.CaptionHeight,
		CenterExclusion: opts.CenterExclusion,
		Title:           opts.CenterTitle,
		Subtitle:        opts.CenterSubtitle,
	}
	if len(sources) == 0 {
		return out, nil
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	s := &solver{opts: &opts, rng: rng}

	for _, src := range sources {
		ratio := src.AspectRatio
		if ratio <= 0 {
			ratio = DefaultAspectRatio
		}
		rotation := (rng.Float64()*2 - 1) * opts.MaxRotation

		tier := s.pickTier()
		w, h := s.tierSize(tier, ratio)

		pos, partner, ok := s.place(out.Items, w, h)
		if ok {
			it := Item{
				ID:          src.ID,
				AspectRatio: ratio,
				X:           pos.X, Y: pos.Y, W: pos.W, H: pos.H,
				Rotation: rotation,
				Partner:  partner,
			}
			if partner >= 0 {
				out.Items[partner].Partner = len(out.Items)
			}
			out.Items = append(out.Items, it)
			continue
		}
		out.Dropped = append(out.Dropped, src.ID)
	}

	return out, nil
}

// solver carries the generator and options through one Solve call.
type solver struct {
	opts *Options
	rng  *rand.Rand
}

// pickTier draws a size tier by weight.
func (s *solver) pickTier() Tier {
	total := 0.0
	for _, t := range s.opts.Tiers {
		total += t.Weight
	}
	draw := s.rng.Float64() * total
	for _, t := range s.opts.Tiers {
		if draw < t.Weight {
			return t
		}
		draw -= t.Weight
	}
	return s.opts.Tiers[len(s.opts.Tiers)-1]
}

// tierSize draws tile dimensions inside a tier while preserving the aspect
// ratio: pick a long-edge length inside the tier's range, derive the other
// edge from the ratio, and re-clamp into the tier's box on the constrained
// axis if the derived edge overflows it.
func (s *solver) tierSize(t Tier, ratio float64) (w, h float64) {
	if ratio >= 1 {
		w = t.MinW + s.rng.Float64()*(t.MaxW-t.MinW)
		h = w / ratio
		if h < t.MinH {
			h = t.MinH
			w = h * ratio
		} else if h > t.MaxH {
			h = t.MaxH
			w = h * ratio
		}
		return w, h
	}
	h = t.MinH + s.rng.Float64()*(t.MaxH-t.MinH)
	w = h * ratio
	if w < t.MinW {
		w = t.MinW
		h = w / ratio
	} else if w > t.MaxW {
		w = t.MaxW
		h = w / ratio
	}
	return w, h
}

// place attempts the full placement schedule for one tile: the configured
// attempt budget at each shrink step, then the fixed fallback size at twice
// the budget. The returned partner is the index of the single existing item
// the placed tile overlaps, or -1.
func (s *solver) place(placed []Item, w, h float64) (Rect, int, bool) {
	for _, scale := range s.opts.ShrinkSteps {
		if tile, partner, ok := s.attempt(placed, w*scale, h*scale, s.opts.Attempts); ok {
			return tile, partner, true
		}
	}

	// Last resort: a small fixed size with a doubled budget. Placement
	// never violates the rules to force a fit.
	fw, fh := fallbackSize(s.opts.FallbackEdge, w/h)
	return s.attempt(placed, fw, fh, s.opts.Attempts*2)
}

// fallbackSize shapes the fallback tile from the long-edge length, keeping
// the (already tier-clamped) aspect of the original draw.
func fallbackSize(edge, ratio float64) (w, h float64) {
	if ratio >= 1 {
		return edge, edge / ratio
	}
	return edge * ratio, edge
}

// attempt samples up to budget candidate positions for a w×h tile against
// the already-placed items.
func (s *solver) attempt(placed []Item, w, h float64, budget int) (Rect, int, bool) {
	for range budget {
		tile, ok := s.sample(w, h)
		if !ok {
			continue
		}
		partner, ok := s.admissible(placed, tile)
		if !ok {
			continue
		}
		return tile, partner, true
	}
	return Rect{}, -1, false
}

// sample draws one candidate top-left position. With probability RingBias
// the tile center lands on a ring around world-center (angle uniform, radius
// density biased toward the inner edge) so the initial view is
// well-populated; otherwise the position is uniform inside the margins.
// Candidates whose footprint leaves the margin box are rejected.
func (s *solver) sample(w, h float64) (Rect, bool) {
	o := s.opts
	footH := h + o.Gap + o.CaptionHeight

	if s.rng.Float64() < o.RingBias {
		angle := s.rng.Float64() * 2 * math.Pi
		u := s.rng.Float64()
		radius := o.RingInner + (o.RingOuter-o.RingInner)*u*u
		cx := o.WorldSize/2 + radius*math.Cos(angle)
		cy := o.WorldSize/2 + radius*math.Sin(angle)
		tile := Rect{X: cx - w/2, Y: cy - footH/2, W: w, H: h}
		if !s.inBounds(tile, footH) {
			return Rect{}, false
		}
		return tile, true
	}

	spanX := o.WorldSize - 2*o.Margin - w
	spanY := o.WorldSize - 2*o.Margin - footH
	if spanX <= 0 || spanY <= 0 {
		return Rect{}, false
	}
	return Rect{
		X: o.Margin + s.rng.Float64()*spanX,
		Y: o.Margin + s.rng.Float64()*spanY,
		W: w, H: h,
	}, true
}

// inBounds reports whether the tile plus caption stays inside the margins.
func (s *solver) inBounds(tile Rect, footH float64) bool {
	o := s.opts
	return tile.X >= o.Margin && tile.Y >= o.Margin &&
		tile.Right() <= o.WorldSize-o.Margin &&
		tile.Y+footH <= o.WorldSize-o.Margin
}

// admissible checks one candidate tile against every placed item and the
// center exclusion zone. On success it returns the index of the single item
// the candidate overlaps (or -1).
func (s *solver) admissible(placed []Item, tile Rect) (int, bool) {
	o := s.opts
	caption := o.captionRect(tile)

	if o.footprint(tile).Intersects(o.CenterExclusion) {
		return -1, false
	}

	partner := -1
	for i := range placed {
		other := placed[i].Tile()
		otherCaption := Rect{X: other.X, Y: other.Bottom() + o.Gap, W: other.W, H: o.CaptionHeight}

		// Captions are inviolable in both directions, unconditionally.
		if caption.Intersects(other) || caption.Intersects(otherCaption) ||
			tile.Intersects(otherCaption) {
			return -1, false
		}

		inter := tile.Intersection(other)
		if inter.Empty() {
			continue
		}

		// Tile overlap must form a matching with bounded mutual coverage.
		if placed[i].Partner >= 0 {
			return -1, false
		}
		if partner >= 0 {
			return -1, false
		}
		if area := inter.Area(); area/tile.Area() > o.MaxOverlapRatio ||
			area/other.Area() > o.MaxOverlapRatio {
			return -1, false
		}
		partner = i
	}
	return partner, true
}
