package layout

// Source describes one photo to place: a stable identifier and the source
// image's width/height ratio. A non-positive ratio falls back to
// DefaultAspectRatio.
type Source struct {
	ID          string  `json:"id"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// Item is one placed photo tile.
type Item struct {
	ID          string  `json:"id"`
	AspectRatio float64 `json:"aspect_ratio"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`

	// Rotation is a small decorative tilt in degrees. It is cosmetic only
	// and ignored by all collision math.
	Rotation float64 `json:"rotation"`

	// Partner is the index (within Layout.Items) of the one item this tile
	// overlaps, or -1. The overlap relation is a matching: if A overlaps B,
	// neither overlaps any third item.
	Partner int `json:"partner"`
}

// Tile returns the item's rectangular footprint, excluding the caption.
func (it Item) Tile() Rect {
	return Rect{X: it.X, Y: it.Y, W: it.W, H: it.H}
}

// Layout is the solver output: the placed items plus the geometry shared by
// every caption strip. It is the canonical serialization format used for
// layout files, API responses, and the cache.
type Layout struct {
	WorldSize     float64 `json:"world_size"`
	Seed          uint64  `json:"seed"`
	Gap           float64 `json:"gap"`
	CaptionHeight float64 `json:"caption_height"`

	// CenterExclusion is the keep-out rectangle reserved for the title.
	CenterExclusion Rect `json:"center_exclusion"`

	// Title and Subtitle are rendered inside the exclusion zone.
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`

	// Items preserves input order; dropped sources are simply absent.
	Items []Item `json:"items"`

	// Dropped lists the IDs of sources that could not be placed within the
	// attempt budgets. Dropping is a soft condition, not an error.
	Dropped []string `json:"dropped,omitempty"`
}

// Caption returns an item's caption strip: a fixed-height band directly
// below the tile, separated by the layout gap.
func (l Layout) Caption(it Item) Rect {
	return Rect{X: it.X, Y: it.Tile().Bottom() + l.Gap, W: it.W, H: l.CaptionHeight}
}

// Footprint returns the combined tile-plus-caption bounding rectangle used
// for culling and hit-testing.
func (l Layout) Footprint(it Item) Rect {
	return Rect{X: it.X, Y: it.Y, W: it.W, H: it.H + l.Gap + l.CaptionHeight}
}
