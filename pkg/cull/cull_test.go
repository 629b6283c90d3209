package cull

import (
	"testing"

	"github.com/driftwall/driftwall/pkg/layout"
	"github.com/driftwall/driftwall/pkg/world"
)

// fixedLayout builds a layout with hand-placed items, bypassing the solver.
func fixedLayout(items ...layout.Item) layout.Layout {
	return layout.Layout{
		WorldSize:     8000,
		Gap:           layout.DefaultGap,
		CaptionHeight: layout.DefaultCaptionHeight,
		Items:         items,
	}
}

func TestVisibleMatchesIndependentAABB(t *testing.T) {
	l := fixedLayout(
		layout.Item{ID: "near-origin", X: 100, Y: 100, W: 400, H: 300, Partner: -1},
		layout.Item{ID: "center", X: 3800, Y: 3800, W: 400, H: 300, Partner: -1},
		layout.Item{ID: "far-corner", X: 7000, Y: 7000, W: 400, H: 300, Partner: -1},
	)

	offset := world.Vec{X: -500, Y: -300}
	const scale = 1.0
	const vw, vh = 1440.0, 900.0

	sets := Visible(l, offset, scale, vw, vh)

	view := layout.Rect{X: -Buffer, Y: -Buffer, W: vw + 2*Buffer, H: vh + 2*Buffer}
	period := l.WorldSize * scale

	for _, set := range sets {
		included := make(map[int]bool, len(set.Indexes))
		for _, idx := range set.Indexes {
			included[idx] = true
		}
		for idx, it := range l.Items {
			fp := l.Footprint(it)
			box := layout.Rect{
				X: offset.X + float64(set.Offset.Col)*period + fp.X*scale,
				Y: offset.Y + float64(set.Offset.Row)*period + fp.Y*scale,
				W: fp.W * scale,
				H: fp.H * scale,
			}
			if want := box.Intersects(view); included[idx] != want {
				t.Errorf("copy %+v item %s: included = %v, want %v",
					set.Offset, it.ID, included[idx], want)
			}
		}
	}
}

func TestVisibleCenterCopyContents(t *testing.T) {
	l := fixedLayout(
		layout.Item{ID: "in-view", X: 600, Y: 400, W: 400, H: 300, Partner: -1},
		layout.Item{ID: "inside-buffer", X: 1440 + 200, Y: 0, W: 200, H: 150, Partner: -1},
		layout.Item{ID: "far-outside", X: 4000, Y: 4000, W: 200, H: 150, Partner: -1},
	)

	sets := Visible(l, world.Vec{}, 1.0, 1440, 900)

	var center TileSet
	for _, s := range sets {
		if s.Offset == (world.TileOffset{Col: 0, Row: 0}) {
			center = s
		}
	}

	got := make(map[string]bool)
	for _, idx := range center.Indexes {
		got[l.Items[idx].ID] = true
	}
	if !got["in-view"] {
		t.Error("item fully inside the viewport was culled")
	}
	if !got["inside-buffer"] {
		t.Error("item inside the buffer margin was culled")
	}
	if got["far-outside"] {
		t.Error("item far outside the expanded viewport was included")
	}
}

func TestVisibleWrapNeighbor(t *testing.T) {
	// An item at the far right edge of the world must appear in the left
	// neighbor copy when the camera sits near the origin.
	l := fixedLayout(
		layout.Item{ID: "right-edge", X: 7800, Y: 200, W: 180, H: 140, Partner: -1},
	)

	sets := Visible(l, world.Vec{}, 1.0, 1440, 900)
	for _, s := range sets {
		if s.Offset == (world.TileOffset{Col: -1, Row: 0}) {
			if len(s.Indexes) != 1 {
				t.Errorf("left neighbor copy has %d items, want 1", len(s.Indexes))
			}
			return
		}
	}
	t.Fatal("left neighbor copy missing from result")
}

func TestVisibleEmptyLayout(t *testing.T) {
	sets := Visible(layout.Layout{WorldSize: 8000}, world.Vec{}, 1.0, 1440, 900)
	for _, s := range sets {
		if len(s.Indexes) != 0 {
			t.Errorf("empty layout produced visible items in copy %+v", s.Offset)
		}
	}
}

func TestHitTest(t *testing.T) {
	l := fixedLayout(
		layout.Item{ID: "under", X: 100, Y: 100, W: 400, H: 300, Partner: 1},
		layout.Item{ID: "over", X: 450, Y: 150, W: 400, H: 300, Partner: 0},
	)

	tests := []struct {
		name   string
		px, py float64
		want   int
	}{
		{"inside first only", 150, 200, 0},
		{"overlap region favors top-most", 470, 200, 1},
		{"inside second only", 700, 200, 1},
		{"caption strip is not clickable", 150, 100 + 300 + layout.DefaultGap + 10, -1},
		{"empty space", 3000, 3000, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(l, world.Vec{}, 1.0, tt.px, tt.py); got != tt.want {
				t.Errorf("HitTest(%v, %v) = %d, want %d", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestHitTestThroughWrap(t *testing.T) {
	l := fixedLayout(
		layout.Item{ID: "edge", X: 7900, Y: 100, W: 300, H: 200, Partner: -1},
	)
	// With the camera at the origin, the item's wrapped copy sits at
	// screen x ≈ -100..200 via the left neighbor.
	if got := HitTest(l, world.Vec{}, 1.0, 50, 150); got != 0 {
		t.Errorf("HitTest through wrap = %d, want 0", got)
	}
}
