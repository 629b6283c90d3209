// Package camera implements the Driftwall motion controller: a state
// machine over per-frame ticks that translates pointer gestures into
// physically plausible drag, release, glide, and recenter motion on the
// toroidal world.
//
// The controller owns a single mutable state record. It is not safe for
// concurrent use: pointer handlers and ticks must run interleaved on one
// timeline, never simultaneously (the event-loop model the engine provides).
// All smoothing is parameterized by elapsed wall-clock time, so motion is
// frame-rate independent.
package camera

import (
	"math"
	"time"

	"github.com/driftwall/driftwall/pkg/world"
)

// Phase identifies the controller's state-machine state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseInertial
	PhaseRecentering
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseInertial:
		return "inertial"
	case PhaseRecentering:
		return "recentering"
	default:
		return "unknown"
	}
}

// Motion tuning. The speed clamps are feel constants, not contracts: any
// retuning must keep the qualitative behavior (bounded glide, settling,
// no runaway velocity).
const (
	// velocitySmoothing blends the running velocity estimate with the
	// instantaneous pointer velocity on every move.
	velocitySmoothing = 0.82

	// minMoveElapsedMS clamps the elapsed time used for instantaneous
	// velocity, avoiding division blow-ups on duplicate move events.
	minMoveElapsedMS = 4.0

	// MaxSpeed clamps the release velocity, in screen px per millisecond.
	MaxSpeed = 3.0

	// StopSpeed is the speed below which an inertial glide settles to idle.
	StopSpeed = 0.02

	// minGlideSpeed is the release speed required to enter a glide at all.
	minGlideSpeed = 0.05

	// minGlideDistance is the accumulated drag distance (px) required to
	// enter a glide; shorter gestures are taps.
	minGlideDistance = 24.0

	// TapThreshold is the drag distance below which a pointer-up counts as
	// a tap for selection purposes.
	TapThreshold = 6.0

	// suppressWindow is how long after a real drag a subsequent click on a
	// tile is suppressed.
	suppressWindow = 350 * time.Millisecond

	// decayRate is the exponential friction applied to glide velocity,
	// per millisecond.
	decayRate = 0.003

	// followDragRate and followCoastRate drive the critically-damped
	// follow of currentOffset toward targetOffset, per millisecond. The
	// follow is tighter while actively dragging.
	followDragRate  = 0.014
	followCoastRate = 0.010

	// RecenterDuration is the fixed length of the recenter animation.
	RecenterDuration = 650 * time.Millisecond

	// publishThreshold is the sub-pixel movement below which the offset is
	// not republished to downstream consumers.
	publishThreshold = 0.1

	// OffCenterThreshold is the screen-pixel distance from world-center
	// beyond which the recenter affordance is shown.
	OffCenterThreshold = 200.0

	// maxTickMS caps a single integration step so a stalled frame does not
	// teleport the camera.
	maxTickMS = 100.0
)

// Controller owns the camera state for one view. Offsets are in screen
// pixels at the current scale; Target is unwrapped (it may grow without
// bound), and only the wrapped Current offset is ever used to position
// drawable content.
type Controller struct {
	worldSize float64
	scale     float64
	viewportW float64
	viewportH float64

	target   world.Vec
	current  world.Vec
	velocity world.Vec // px per ms

	phase        Phase
	dragDistance float64
	lastMoveAt   time.Time
	lastTickAt   time.Time
	ticked       bool

	suppressUntil time.Time

	recenterStart world.Vec
	recenterEnd   world.Vec
	recenterAt    time.Time

	lastPublished world.Vec
	published     bool
}

// New creates a controller for a world of the given size (world units) and
// an initial viewport, which determines the render scale. The camera starts
// centered on the world.
func New(worldSize, viewportW, viewportH float64) *Controller {
	c := &Controller{worldSize: worldSize}
	c.SetViewport(viewportW, viewportH)
	c.target = c.homeOffset()
	c.current = c.target
	return c
}

// SetViewport updates the viewport size and the derived scale.
func (c *Controller) SetViewport(w, h float64) {
	c.viewportW = w
	c.viewportH = h
	c.scale = world.ScaleFor(w, h)
}

// Scale returns the viewport-derived render scale.
func (c *Controller) Scale() float64 { return c.scale }

// Phase returns the current state-machine phase.
func (c *Controller) Phase() Phase { return c.phase }

// Velocity returns the current glide velocity in px per millisecond.
func (c *Controller) Velocity() world.Vec { return c.velocity }

// Target returns the unwrapped target offset.
func (c *Controller) Target() world.Vec { return c.target }

// period is the wrapped offset period: the world size at render scale.
func (c *Controller) period() float64 { return c.worldSize * c.scale }

// homeOffset is the wrapped offset that centers the world in the viewport.
func (c *Controller) homeOffset() world.Vec {
	return world.WrapVec(world.Vec{
		X: c.viewportW/2 - c.worldSize/2*c.scale,
		Y: c.viewportH/2 - c.worldSize/2*c.scale,
	}, c.period())
}

// =============================================================================
// Pointer inputs
// =============================================================================

// PointerDown begins a drag. It unconditionally overrides any in-flight
// recenter animation or glide: drag always wins over scripted motion.
func (c *Controller) PointerDown(now time.Time) {
	c.phase = PhaseDragging
	c.velocity = world.Vec{}
	c.dragDistance = 0
	c.lastMoveAt = now
}

// PointerMove feeds one pointer delta (screen px) into the drag. The delta
// is applied 1:1 and unwrapped; wrapping happens only at render time.
func (c *Controller) PointerMove(now time.Time, delta world.Vec) {
	if c.phase != PhaseDragging {
		return
	}
	c.target = c.target.Add(delta)
	c.dragDistance += delta.Len()

	elapsed := float64(now.Sub(c.lastMoveAt)) / float64(time.Millisecond)
	if elapsed < minMoveElapsedMS {
		elapsed = minMoveElapsedMS
	}
	inst := delta.Scale(1 / elapsed)
	c.velocity = c.velocity.Scale(velocitySmoothing).Add(inst.Scale(1 - velocitySmoothing))
	c.lastMoveAt = now
}

// PointerUp ends a drag. It reports whether the gesture was a tap: a
// release with accumulated drag distance below TapThreshold and outside the
// post-drag suppression window, which the engine uses for tile selection.
func (c *Controller) PointerUp(now time.Time) (tap bool) {
	if c.phase != PhaseDragging {
		return false
	}

	tap = c.dragDistance <= TapThreshold && now.After(c.suppressUntil)
	if c.dragDistance > TapThreshold {
		// A real drag suppresses the click that some hosts synthesize
		// right after release.
		c.suppressUntil = now.Add(suppressWindow)
	}

	if speed := c.velocity.Len(); speed > MaxSpeed {
		c.velocity = c.velocity.Scale(MaxSpeed / speed)
	}

	if c.dragDistance >= minGlideDistance && c.velocity.Len() >= minGlideSpeed {
		c.phase = PhaseInertial
	} else {
		c.phase = PhaseIdle
		c.velocity = world.Vec{}
	}
	return tap
}

// PointerCancel aborts a drag without inertia or selection. Lost pointer
// capture is treated identically.
func (c *Controller) PointerCancel(time.Time) {
	if c.phase != PhaseDragging {
		return
	}
	c.phase = PhaseIdle
	c.velocity = world.Vec{}
	c.dragDistance = 0
}

// Recenter starts the scripted shortest-path animation back to world
// center. A new request replaces any in-flight one; there is no queueing.
func (c *Controller) Recenter(now time.Time) {
	period := c.period()
	home := c.homeOffset()
	wrapped := world.WrapVec(c.target, period)

	c.recenterStart = c.target
	c.recenterEnd = c.target.Add(world.Vec{
		X: world.ShortestDelta(wrapped.X, home.X, period),
		Y: world.ShortestDelta(wrapped.Y, home.Y, period),
	})
	c.recenterAt = now
	c.velocity = world.Vec{}
	c.phase = PhaseRecentering
}

// =============================================================================
// Per-frame tick
// =============================================================================

// Tick advances the controller by the wall-clock time elapsed since the
// previous tick, then smooths the current offset toward the target.
func (c *Controller) Tick(now time.Time) {
	dt := 0.0
	if c.ticked {
		dt = float64(now.Sub(c.lastTickAt)) / float64(time.Millisecond)
	}
	c.lastTickAt = now
	c.ticked = true
	if dt < 0 {
		dt = 0
	}
	if dt > maxTickMS {
		dt = maxTickMS
	}

	switch c.phase {
	case PhaseInertial:
		c.target = c.target.Add(c.velocity.Scale(dt))
		c.velocity = c.velocity.Scale(math.Exp(-dt * decayRate))
		if c.velocity.Len() < StopSpeed {
			c.velocity = world.Vec{}
			c.phase = PhaseIdle
		}

	case PhaseRecentering:
		t := float64(now.Sub(c.recenterAt)) / float64(RecenterDuration)
		if t >= 1 {
			c.target = c.recenterEnd
			c.phase = PhaseIdle
		} else {
			e := easeOutCubic(t)
			c.target = world.Vec{
				X: c.recenterStart.X + (c.recenterEnd.X-c.recenterStart.X)*e,
				Y: c.recenterStart.Y + (c.recenterEnd.Y-c.recenterStart.Y)*e,
			}
		}
	}

	follow := followCoastRate
	if c.phase == PhaseDragging {
		follow = followDragRate
	}
	f := 1 - math.Exp(-dt*follow)
	c.current = c.current.Add(c.target.Sub(c.current).Scale(f))
}

// easeOutCubic is the recenter animation curve.
func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// =============================================================================
// Outputs
// =============================================================================

// Offset returns the wrapped current offset, the only value ever used to
// position drawable content.
func (c *Controller) Offset() world.Vec {
	return world.WrapVec(c.current, c.period())
}

// ShouldPublish reports whether the offset has moved more than a sub-pixel
// threshold since the last publish, and records the publish if so. The
// engine uses it to avoid redundant culling passes.
func (c *Controller) ShouldPublish() bool {
	if c.published && c.current.Sub(c.lastPublished).Len() <= publishThreshold {
		return false
	}
	c.lastPublished = c.current
	c.published = true
	return true
}

// OffCenter reports whether the viewport center is farther than
// OffCenterThreshold screen pixels from world center, which drives the
// visibility of the recenter affordance.
func (c *Controller) OffCenter() bool {
	offset := c.Offset()
	// Inverse-map the viewport center into world coordinates.
	cx := (c.viewportW/2 - offset.X) / c.scale
	cy := (c.viewportH/2 - offset.Y) / c.scale
	dx := world.ShortestDelta(cx, c.worldSize/2, c.worldSize)
	dy := world.ShortestDelta(cy, c.worldSize/2, c.worldSize)
	return math.Hypot(dx, dy)*c.scale > OffCenterThreshold
}
