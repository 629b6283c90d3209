package cli

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/driftwall/driftwall/pkg/layout"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string // output PNG path
	size   int    // output image side length in pixels
	grid   bool   // draw the center exclusion and margins
}

// renderCommand creates the render command: rasterize a solved layout as a
// PNG overview, one pixel grid for the whole world.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{size: 2000}

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a solved layout to a PNG overview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.size < 100 {
				return fmt.Errorf("size must be at least 100 pixels")
			}

			lf, err := loadLayoutFile(args[0])
			if err != nil {
				return err
			}

			out := opts.output
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
			}

			loggerFromContext(cmd.Context()).Info("rendering layout",
				"items", len(lf.Layout.Items),
				"size", opts.size)
			if err := renderPNG(lf.Layout, out, opts.size, opts.grid); err != nil {
				return err
			}

			printSuccess("Rendered %d tiles", len(lf.Layout.Items))
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PNG file (default: layout name with .png)")
	cmd.Flags().IntVar(&opts.size, "size", opts.size, "image side length in pixels")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the center exclusion zone")

	return cmd
}

// renderPNG draws the whole world into a square PNG.
func renderPNG(l layout.Layout, path string, size int, grid bool) error {
	if l.WorldSize <= 0 {
		return fmt.Errorf("layout has no world size")
	}
	scale := float64(size) / l.WorldSize

	dc := gg.NewContext(size, size)
	dc.SetRGB(0.96, 0.95, 0.93)
	dc.Clear()

	if grid && !l.CenterExclusion.Empty() {
		e := l.CenterExclusion
		dc.SetRGBA(0.85, 0.3, 0.25, 0.15)
		dc.DrawRectangle(e.X*scale, e.Y*scale, e.W*scale, e.H*scale)
		dc.Fill()
	}

	for i, it := range l.Items {
		drawItem(dc, l, it, i, scale)
	}

	if l.Title != "" && !l.CenterExclusion.Empty() {
		e := l.CenterExclusion
		cx := (e.X + e.W/2) * scale
		cy := (e.Y + e.H/2) * scale
		dc.SetRGB(0.25, 0.23, 0.2)
		dc.DrawStringAnchored(l.Title, cx, cy, 0.5, 0.35)
		if l.Subtitle != "" {
			dc.SetRGB(0.45, 0.43, 0.4)
			dc.DrawStringAnchored(l.Subtitle, cx, cy+math.Max(12, e.H*scale*0.18), 0.5, 0.35)
		}
	}

	return dc.SavePNG(path)
}

// drawItem paints one tile and its caption band, rotated around the tile
// center like the client does.
func drawItem(dc *gg.Context, l layout.Layout, it layout.Item, index int, scale float64) {
	cx := (it.X + it.W/2) * scale
	cy := (it.Y + it.H/2) * scale

	dc.Push()
	dc.RotateAbout(gg.Radians(it.Rotation), cx, cy)

	// Tile body, tinted per item so neighbors are distinguishable.
	r, g, b := tileColor(index)
	dc.SetRGB(r, g, b)
	dc.DrawRectangle(it.X*scale, it.Y*scale, it.W*scale, it.H*scale)
	dc.Fill()

	// White border like a print.
	dc.SetLineWidth(math.Max(1, 3*scale))
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(it.X*scale, it.Y*scale, it.W*scale, it.H*scale)
	dc.Stroke()

	// Caption band below the tile.
	band := l.Caption(it)
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(band.X*scale, band.Y*scale, band.W*scale, band.H*scale)
	dc.Fill()

	dc.SetRGB(0.25, 0.23, 0.2)
	dc.DrawStringAnchored(captionLabel(it.ID), cx, (band.Y+band.H/2)*scale, 0.5, 0.35)

	dc.Pop()
}

// tileColor derives a muted, stable color from the item index.
func tileColor(index int) (r, g, b float64) {
	hue := math.Mod(float64(index)*0.618033988749895, 1.0)
	return 0.45 + 0.25*math.Sin(hue*2*math.Pi),
		0.45 + 0.25*math.Sin((hue+1.0/3.0)*2*math.Pi),
		0.45 + 0.25*math.Sin((hue+2.0/3.0)*2*math.Pi)
}

// captionLabel shortens a photo ID to its folder and file name.
func captionLabel(id string) string {
	dir := filepath.Base(filepath.Dir(id))
	name := filepath.Base(id)
	if dir == "." || dir == "/" {
		return name
	}
	return dir + " · " + name
}
