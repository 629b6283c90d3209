// Package cull decides, each frame, which placed items are worth drawing.
//
// Visible is a pure, stateless function of (layout, camera offset, scale,
// viewport): for each of the nine rendered world copies it returns the items
// whose screen-space bounding box (tile plus caption strip) intersects the
// viewport expanded by a fixed buffer margin. It is cheap enough to run on
// every meaningful camera movement; the engine only calls it when the
// controller republishes its offset.
package cull

import (
	"github.com/driftwall/driftwall/pkg/layout"
	"github.com/driftwall/driftwall/pkg/world"
)

// Buffer is the margin (screen px) by which the viewport is expanded, so
// tiles begin rendering slightly before they scroll into view.
const Buffer = 500.0

// TileSet lists the visible items for one world copy.
type TileSet struct {
	Offset world.TileOffset `json:"offset"`

	// Indexes are positions into layout.Items, in layout order.
	Indexes []int `json:"indexes"`
}

// Visible culls the layout against the viewport for all nine world copies.
// offset is the wrapped camera offset in screen px, scale the render scale,
// and viewportW/H the viewport size in screen px.
func Visible(l layout.Layout, offset world.Vec, scale float64, viewportW, viewportH float64) [9]TileSet {
	var out [9]TileSet

	view := layout.Rect{
		X: -Buffer,
		Y: -Buffer,
		W: viewportW + 2*Buffer,
		H: viewportH + 2*Buffer,
	}
	period := l.WorldSize * scale

	for i, tile := range world.TileOffsets() {
		out[i].Offset = tile
		base := world.Vec{
			X: offset.X + float64(tile.Col)*period,
			Y: offset.Y + float64(tile.Row)*period,
		}
		for idx := range l.Items {
			if screenBox(l, l.Items[idx], base, scale).Intersects(view) {
				out[i].Indexes = append(out[i].Indexes, idx)
			}
		}
	}
	return out
}

// screenBox maps an item's world-space footprint into screen space for one
// world copy.
func screenBox(l layout.Layout, it layout.Item, base world.Vec, scale float64) layout.Rect {
	fp := l.Footprint(it)
	return layout.Rect{
		X: base.X + fp.X*scale,
		Y: base.Y + fp.Y*scale,
		W: fp.W * scale,
		H: fp.H * scale,
	}
}

// HitTest returns the index of the top-most item whose screen-space tile
// contains the point (px, py), searching all nine world copies, or -1.
// Later-placed items draw on top, so the scan runs in reverse layout order.
func HitTest(l layout.Layout, offset world.Vec, scale float64, px, py float64) int {
	period := l.WorldSize * scale
	for idx := len(l.Items) - 1; idx >= 0; idx-- {
		for _, tile := range world.TileOffsets() {
			base := world.Vec{
				X: offset.X + float64(tile.Col)*period,
				Y: offset.Y + float64(tile.Row)*period,
			}
			t := l.Items[idx].Tile()
			box := layout.Rect{
				X: base.X + t.X*scale,
				Y: base.Y + t.Y*scale,
				W: t.W * scale,
				H: t.H * scale,
			}
			if px >= box.X && px < box.Right() && py >= box.Y && py < box.Bottom() {
				return idx
			}
		}
	}
	return -1
}
