// Package engine composes the Driftwall runtime for one view: a solved
// layout, the motion controller, and the viewport culler, advanced by a
// single per-frame tick loop.
//
// The engine owns the only mutable camera state. Pointer handlers and Step
// must run on one serialized timeline (an event loop or a per-connection
// goroutine); they are interleaved, never concurrent, so no locking is
// needed. Handlers only record inputs; all integration happens in Step.
package engine

import (
	"time"

	"github.com/driftwall/driftwall/pkg/camera"
	"github.com/driftwall/driftwall/pkg/cull"
	"github.com/driftwall/driftwall/pkg/layout"
	"github.com/driftwall/driftwall/pkg/world"
)

// Frame is the per-tick snapshot handed to the presentation layer. It is a
// plain value: consumers read it, never mutate engine state through it.
type Frame struct {
	// Offset is the wrapped camera transform to apply to the tiled root.
	Offset world.Vec `json:"offset"`

	// Scale is the viewport-derived render scale.
	Scale float64 `json:"scale"`

	// Tiles holds the culled item set per rendered world copy.
	Tiles [9]cull.TileSet `json:"tiles"`

	// ShowRecenter indicates the viewport center has drifted far enough
	// from world center to offer the recenter control.
	ShowRecenter bool `json:"show_recenter"`

	// Selected is the index of the tapped item, or -1.
	Selected int `json:"selected"`

	// Phase names the motion state, for diagnostics.
	Phase string `json:"phase"`
}

// Engine drives one collage view.
type Engine struct {
	layout layout.Layout
	ctrl   *camera.Controller

	viewportW float64
	viewportH float64

	pointerX float64
	pointerY float64

	selected int
	tiles    [9]cull.TileSet
	culled   bool
}

// New creates an engine over a solved layout and an initial viewport size.
func New(l layout.Layout, viewportW, viewportH float64) *Engine {
	return &Engine{
		layout:    l,
		ctrl:      camera.New(l.WorldSize, viewportW, viewportH),
		viewportW: viewportW,
		viewportH: viewportH,
		selected:  -1,
	}
}

// Layout returns the solved layout this engine renders.
func (e *Engine) Layout() layout.Layout { return e.layout }

// SetViewport resizes the view, recomputing the render scale.
func (e *Engine) SetViewport(w, h float64) {
	e.viewportW = w
	e.viewportH = h
	e.ctrl.SetViewport(w, h)
	e.culled = false
}

// =============================================================================
// Inputs - recorded between ticks, consumed by Step
// =============================================================================

// PointerDown begins a drag at screen position (x, y).
func (e *Engine) PointerDown(now time.Time, x, y float64) {
	e.pointerX, e.pointerY = x, y
	e.ctrl.PointerDown(now)
}

// PointerMove feeds a pointer movement to (x, y).
func (e *Engine) PointerMove(now time.Time, x, y float64) {
	delta := world.Vec{X: x - e.pointerX, Y: y - e.pointerY}
	e.pointerX, e.pointerY = x, y
	e.ctrl.PointerMove(now, delta)
}

// PointerUp ends the gesture. A release that qualifies as a tap (short
// travel, outside the post-drag suppression window) selects the top-most
// tile under the pointer, or clears the selection when it hits empty space.
func (e *Engine) PointerUp(now time.Time, x, y float64) {
	e.pointerX, e.pointerY = x, y
	if !e.ctrl.PointerUp(now) {
		return
	}
	e.selected = cull.HitTest(e.layout, e.ctrl.Offset(), e.ctrl.Scale(), x, y)
}

// PointerCancel aborts the gesture, as on lost pointer capture.
func (e *Engine) PointerCancel(now time.Time) {
	e.ctrl.PointerCancel(now)
}

// Recenter starts the scripted return to world center.
func (e *Engine) Recenter(now time.Time) {
	e.ctrl.Recenter(now)
}

// ClearSelection drops the selected item, as when the photo modal closes.
func (e *Engine) ClearSelection() {
	e.selected = -1
}

// Selected returns the selected item index, or -1.
func (e *Engine) Selected() int { return e.selected }

// =============================================================================
// Tick
// =============================================================================

// Step advances the motion controller and returns the frame snapshot. The
// cull only reruns when the camera has moved more than a sub-pixel
// threshold since the last publish.
func (e *Engine) Step(now time.Time) Frame {
	e.ctrl.Tick(now)

	if e.ctrl.ShouldPublish() || !e.culled {
		e.tiles = cull.Visible(e.layout, e.ctrl.Offset(), e.ctrl.Scale(), e.viewportW, e.viewportH)
		e.culled = true
	}

	return Frame{
		Offset:       e.ctrl.Offset(),
		Scale:        e.ctrl.Scale(),
		Tiles:        e.tiles,
		ShowRecenter: e.ctrl.OffCenter(),
		Selected:     e.selected,
		Phase:        e.ctrl.Phase().String(),
	}
}
