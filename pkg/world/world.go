// Package world defines the toroidal coordinate space of a Driftwall
// collage: a square of side WorldSize in world units, logically infinite
// via wraparound. Position p and p + k·WorldSize for any integer k are the
// same world location.
//
// Rendering materializes a 3×3 neighborhood of world copies so content
// panned off one edge reappears seamlessly from the opposite edge. All
// functions here are pure; the camera package owns the mutable state.
package world

import "math"

// Vec is a 2D vector in either world or screen units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{X: v.X * s, Y: v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Wrap reduces v into the half-open interval (-period, 0]. This bounds
// floating-point magnitudes over long pan sessions and guarantees the 3×3
// tiled rendering always covers the viewport.
func Wrap(v, period float64) float64 {
	if period <= 0 {
		return v
	}
	w := math.Mod(v, period)
	w = math.Mod(w+period, period) - period
	if w == -period {
		w = 0
	}
	return w
}

// WrapVec applies Wrap to both components.
func WrapVec(v Vec, period float64) Vec {
	return Vec{X: Wrap(v.X, period), Y: Wrap(v.Y, period)}
}

// ShortestDelta returns the signed offset from current to desired across the
// wrap boundary, never the long way around: the result always satisfies
// |delta| <= period/2.
func ShortestDelta(current, desired, period float64) float64 {
	if period <= 0 {
		return desired - current
	}
	d := math.Mod(desired-current+period/2, period)
	d = math.Mod(d+period, period) - period/2
	return d
}

// TileOffset is one of the nine world-copy offsets rendered around the
// camera, in units of the world period.
type TileOffset struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// TileOffsets returns the 3×3 neighborhood of copy offsets,
// {-1,0,1} × {-1,0,1}, in deterministic row-major order.
func TileOffsets() [9]TileOffset {
	var out [9]TileOffset
	i := 0
	for row := -1; row <= 1; row++ {
		for col := -1; col <= 1; col++ {
			out[i] = TileOffset{Col: col, Row: row}
			i++
		}
	}
	return out
}

// ScaleFor computes the responsive render scale from the viewport size.
// The scale is viewport-derived, not user-controlled: larger viewports see
// more of the world at once rather than bigger tiles.
func ScaleFor(viewportW, viewportH float64) float64 {
	if viewportW <= 0 || viewportH <= 0 {
		return 1
	}
	// Normalize against a 1440px reference edge, clamped so that tiny and
	// huge screens both stay readable.
	s := math.Max(viewportW, viewportH) / 1440.0
	return math.Min(1.35, math.Max(0.55, s))
}
