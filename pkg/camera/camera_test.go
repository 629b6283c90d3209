package camera

import (
	"math"
	"testing"
	"time"

	"github.com/driftwall/driftwall/pkg/world"
)

const (
	testWorld = 8000.0
	testViewW = 1440.0
	testViewH = 900.0
)

func newTestController() *Controller {
	return New(testWorld, testViewW, testViewH)
}

// drag simulates a pointer drag of several moves ending at time end.
func drag(c *Controller, start time.Time, steps int, step world.Vec) time.Time {
	now := start
	c.PointerDown(now)
	for range steps {
		now = now.Add(16 * time.Millisecond)
		c.PointerMove(now, step)
	}
	return now
}

func TestInitialStateCentered(t *testing.T) {
	c := newTestController()
	if c.Phase() != PhaseIdle {
		t.Errorf("initial phase = %v, want idle", c.Phase())
	}
	if c.OffCenter() {
		t.Error("freshly created camera reports off-center")
	}
}

func TestDragMovesTargetOneToOne(t *testing.T) {
	c := newTestController()
	before := c.Target()

	now := time.Unix(0, 0)
	c.PointerDown(now)
	c.PointerMove(now.Add(16*time.Millisecond), world.Vec{X: 40, Y: -10})
	c.PointerMove(now.Add(32*time.Millisecond), world.Vec{X: 25, Y: 5})

	got := c.Target().Sub(before)
	want := world.Vec{X: 65, Y: -5}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("target moved by %+v, want %+v", got, want)
	}
	if c.Phase() != PhaseDragging {
		t.Errorf("phase = %v, want dragging", c.Phase())
	}
}

func TestReleaseEntersInertialAndGlides(t *testing.T) {
	c := newTestController()

	// 40px-per-16ms moves build a smoothed velocity well above the glide
	// threshold and a drag distance above the minimum.
	now := drag(c, time.Unix(0, 0), 10, world.Vec{X: 40, Y: 0})
	c.PointerUp(now)

	if c.Phase() != PhaseInertial {
		t.Fatalf("phase = %v, want inertial", c.Phase())
	}
	if v := c.Velocity(); v.X <= 0 || v.Len() > MaxSpeed+1e-9 {
		t.Fatalf("release velocity = %+v, want positive x within MaxSpeed", v)
	}

	// Target x strictly increases for several ticks, then the glide decays
	// to a stop.
	c.Tick(now)
	prev := c.Target().X
	for i := range 5 {
		now = now.Add(16 * time.Millisecond)
		c.Tick(now)
		if got := c.Target().X; got <= prev {
			t.Fatalf("tick %d: target.x = %v, not increasing from %v", i, got, prev)
		} else {
			prev = got
		}
	}

	for range 2000 {
		now = now.Add(16 * time.Millisecond)
		c.Tick(now)
		if c.Phase() == PhaseIdle {
			return
		}
	}
	t.Error("glide never settled to idle")
}

func TestTapDoesNotGlide(t *testing.T) {
	c := newTestController()
	now := time.Unix(0, 0)

	c.PointerDown(now)
	c.PointerMove(now.Add(16*time.Millisecond), world.Vec{X: 2, Y: 1})
	tap := c.PointerUp(now.Add(32 * time.Millisecond))

	if !tap {
		t.Error("small-movement release not reported as tap")
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", c.Phase())
	}
	if v := c.Velocity(); v.Len() != 0 {
		t.Errorf("velocity = %+v, want zero", v)
	}
}

func TestDragSuppressesFollowingTap(t *testing.T) {
	c := newTestController()

	now := drag(c, time.Unix(0, 0), 5, world.Vec{X: 30, Y: 0})
	if tap := c.PointerUp(now); tap {
		t.Fatal("drag release reported as tap")
	}

	// A click landing inside the suppression window is not a tap.
	now = now.Add(100 * time.Millisecond)
	c.PointerDown(now)
	if tap := c.PointerUp(now.Add(10 * time.Millisecond)); tap {
		t.Error("tap inside suppression window not suppressed")
	}

	// After the window passes, taps work again.
	now = now.Add(time.Second)
	c.PointerDown(now)
	if tap := c.PointerUp(now.Add(10 * time.Millisecond)); !tap {
		t.Error("tap after suppression window still suppressed")
	}
}

func TestPointerCancel(t *testing.T) {
	c := newTestController()
	now := drag(c, time.Unix(0, 0), 10, world.Vec{X: 40, Y: 0})

	c.PointerCancel(now)
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", c.Phase())
	}
	if v := c.Velocity(); v.Len() != 0 {
		t.Errorf("velocity after cancel = %+v, want zero", v)
	}
}

func TestRecenterAnimatesHome(t *testing.T) {
	c := newTestController()

	// Pan far away, then recenter.
	now := drag(c, time.Unix(0, 0), 50, world.Vec{X: -37, Y: 22})
	c.PointerUp(now)

	c.Recenter(now)
	if c.Phase() != PhaseRecentering {
		t.Fatalf("phase = %v, want recentering", c.Phase())
	}
	if v := c.Velocity(); v.Len() != 0 {
		t.Fatalf("recenter did not zero velocity: %+v", v)
	}

	// The scripted move is the shortest path: bounded by period/2 per axis.
	period := testWorld * c.Scale()
	delta := c.recenterEnd.Sub(c.recenterStart)
	if math.Abs(delta.X) > period/2+1e-9 || math.Abs(delta.Y) > period/2+1e-9 {
		t.Errorf("recenter delta %+v exceeds period/2 (%v)", delta, period/2)
	}

	for range 100 {
		now = now.Add(16 * time.Millisecond)
		c.Tick(now)
	}
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after animation = %v, want idle", c.Phase())
	}

	// Let the follow smoothing settle, then the view must be centered.
	for range 600 {
		now = now.Add(16 * time.Millisecond)
		c.Tick(now)
	}
	if c.OffCenter() {
		t.Error("camera still off-center after recenter")
	}
}

func TestPointerDownOverridesRecenter(t *testing.T) {
	c := newTestController()
	now := drag(c, time.Unix(0, 0), 20, world.Vec{X: 35, Y: 0})
	c.PointerUp(now)

	c.Recenter(now)
	c.PointerDown(now.Add(50 * time.Millisecond))
	if c.Phase() != PhaseDragging {
		t.Errorf("phase = %v, want dragging (drag wins over scripted motion)", c.Phase())
	}
}

func TestTickFollowsTarget(t *testing.T) {
	c := newTestController()
	now := time.Unix(0, 0)
	c.Tick(now)

	c.PointerDown(now)
	c.PointerMove(now.Add(16*time.Millisecond), world.Vec{X: 300, Y: 0})

	gap := func() float64 { return c.Target().Sub(c.current).Len() }
	before := gap()
	for i := range 10 {
		now = now.Add(16 * time.Millisecond)
		c.Tick(now)
		if g := gap(); g >= before {
			t.Fatalf("tick %d: follow gap %v did not shrink from %v", i, g, before)
		} else {
			before = g
		}
	}
}

func TestOffCenterAfterPan(t *testing.T) {
	c := newTestController()
	now := drag(c, time.Unix(0, 0), 30, world.Vec{X: 40, Y: 0})
	c.PointerUp(now)

	for range 200 {
		now = now.Add(16 * time.Millisecond)
		c.Tick(now)
	}
	if !c.OffCenter() {
		t.Error("camera not reported off-center after a long pan")
	}
}

func TestShouldPublishThreshold(t *testing.T) {
	c := newTestController()
	now := time.Unix(0, 0)
	c.Tick(now)

	if !c.ShouldPublish() {
		t.Fatal("first publish must always fire")
	}
	if c.ShouldPublish() {
		t.Error("publish fired again with no movement")
	}

	c.PointerDown(now)
	c.PointerMove(now.Add(16*time.Millisecond), world.Vec{X: 50, Y: 0})
	for i := range 4 {
		now = now.Add(16 * time.Millisecond)
		c.Tick(now)
		_ = i
	}
	if !c.ShouldPublish() {
		t.Error("publish did not fire after visible movement")
	}
}

func TestOffsetStaysWrapped(t *testing.T) {
	c := newTestController()
	now := time.Unix(0, 0)

	// Pan a very long way in one direction; the wrapped offset must stay
	// inside (-period, 0] the whole time.
	period := testWorld * c.Scale()
	for range 40 {
		now = drag(c, now.Add(50*time.Millisecond), 20, world.Vec{X: -48, Y: -31})
		c.PointerUp(now)
		for range 30 {
			now = now.Add(16 * time.Millisecond)
			c.Tick(now)
		}
		off := c.Offset()
		if off.X <= -period || off.X > 0 || off.Y <= -period || off.Y > 0 {
			t.Fatalf("wrapped offset %+v escaped (-%v, 0]", off, period)
		}
	}
}
