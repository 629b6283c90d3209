package world

import (
	"math"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		period float64
		want   float64
	}{
		{"already in range", -500, 8000, -500},
		{"zero", 0, 8000, 0},
		{"positive", 500, 8000, -7500},
		{"exactly one period", 8000, 8000, 0},
		{"exactly negative period", -8000, 8000, 0},
		{"many periods ahead", 8000*5 + 300, 8000, -7700},
		{"many periods behind", -8000*7 - 300, 8000, -300},
		{"non-positive period passes through", 123, 0, 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.v, tt.period)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Wrap(%v, %v) = %v, want %v", tt.v, tt.period, got, tt.want)
			}
		})
	}
}

func TestWrapIdempotent(t *testing.T) {
	const period = 8000.0
	values := []float64{-123456.7, -8000, -500, -1e-9, 0, 1e-9, 500, 7999.99, 8000, 1e8}
	for _, v := range values {
		w := Wrap(v, period)
		if w <= -period || w > 0 {
			t.Errorf("Wrap(%v) = %v, outside (-period, 0]", v, w)
		}
		if again := Wrap(w, period); math.Abs(again-w) > 1e-9 {
			t.Errorf("Wrap(Wrap(%v)) = %v, want %v", v, again, w)
		}
	}
}

func TestShortestDelta(t *testing.T) {
	tests := []struct {
		name             string
		current, desired float64
		want             float64
	}{
		{"no move", -100, -100, 0},
		{"short forward", -100, -50, 50},
		{"short backward", -50, -100, -50},
		{"across wrap boundary", -7900, -100, -200},
		{"across wrap boundary reverse", -100, -7900, 200},
		{"half period is bounded", 0, -4000, -4000},
	}

	const period = 8000.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortestDelta(tt.current, tt.desired, period)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ShortestDelta(%v, %v) = %v, want %v", tt.current, tt.desired, got, tt.want)
			}
		})
	}
}

func TestShortestDeltaBound(t *testing.T) {
	const period = 8000.0
	for _, current := range []float64{-7999, -6000, -4000, -1, 0, 3000, 12345} {
		for _, desired := range []float64{-7999, -6000, -4000, -1, 0, 3000, 12345} {
			d := ShortestDelta(current, desired, period)
			if math.Abs(d) > period/2+1e-9 {
				t.Errorf("|ShortestDelta(%v, %v)| = %v exceeds period/2", current, desired, math.Abs(d))
			}
			// Applying the delta must land on the same wrapped location.
			if got, want := Wrap(current+d, period), Wrap(desired, period); math.Abs(got-want) > 1e-6 {
				t.Errorf("ShortestDelta(%v, %v): landed at %v, want %v", current, desired, got, want)
			}
		}
	}
}

func TestTileOffsets(t *testing.T) {
	offsets := TileOffsets()
	seen := make(map[TileOffset]bool)
	for _, o := range offsets {
		if o.Col < -1 || o.Col > 1 || o.Row < -1 || o.Row > 1 {
			t.Errorf("offset %+v outside {-1,0,1}²", o)
		}
		seen[o] = true
	}
	if len(seen) != 9 {
		t.Errorf("got %d distinct offsets, want 9", len(seen))
	}
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		want float64
	}{
		{"reference viewport", 1440, 900, 1.0},
		{"small phone clamps low", 390, 700, 0.55},
		{"huge display clamps high", 3840, 2160, 1.35},
		{"degenerate viewport", 0, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleFor(tt.w, tt.h); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScaleFor(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
			}
		})
	}
}
