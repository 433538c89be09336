package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/railsim/internal/render"
)

func TestCanvasSetAt(t *testing.T) {
	c := NewCanvas(10, 5)

	c.Set(3, 7)
	if !c.At(3, 7) {
		t.Error("pixel not set")
	}
	if c.At(4, 7) || c.At(3, 8) {
		t.Error("neighbour pixels set")
	}

	// out of range is a no-op
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(200, 0)
	c.Set(0, 200)
	if c.At(-1, 0) || c.At(200, 0) {
		t.Error("out-of-range At should be false")
	}

	c.Clear()
	if c.At(3, 7) {
		t.Error("pixel survived Clear")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawLine(0, 0, 19, 0)

	for x := 0; x < 20; x++ {
		if !c.At(x, 0) {
			t.Fatalf("horizontal line missing pixel at x=%d", x)
		}
	}
	if c.At(0, 1) {
		t.Error("line bled into next row")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(4, 3)
	out := c.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 4 {
			t.Errorf("line %q has %d cells, want 4", line, len([]rune(line)))
		}
	}
}

func TestSurfaceSize(t *testing.T) {
	c := NewCanvas(10, 5)
	w, h := NewSurface(c).Size()
	if w != 20 || h != 20 {
		t.Errorf("size = %dx%d, want 20x20", w, h)
	}
}

func TestSurfaceFillPolygon(t *testing.T) {
	c := NewCanvas(20, 10)
	sf := NewSurface(c)

	// axis-aligned rectangle covering [4,12) x [8,24)
	sf.FillPolygon([][2]float64{{4, 8}, {12, 8}, {12, 24}, {4, 24}}, render.Color{})

	if !c.At(8, 16) {
		t.Error("interior pixel not filled")
	}
	if !c.At(4, 8) {
		t.Error("top-left pixel not filled")
	}
	if c.At(2, 16) || c.At(14, 16) {
		t.Error("fill bled outside horizontally")
	}
	if c.At(8, 4) || c.At(8, 26) {
		t.Error("fill bled outside vertically")
	}
}

func TestSurfaceFillPolygon_Triangle(t *testing.T) {
	c := NewCanvas(30, 15)
	sf := NewSurface(c)

	sf.FillPolygon([][2]float64{{30, 5}, {50, 45}, {10, 45}}, render.Color{})

	if !c.At(30, 40) {
		t.Error("centroid region not filled")
	}
	if c.At(10, 6) || c.At(50, 6) {
		t.Error("filled outside the apex")
	}
}

func TestSurfaceFillPolygon_Degenerate(t *testing.T) {
	c := NewCanvas(10, 5)
	sf := NewSurface(c)

	sf.FillPolygon(nil, render.Color{})
	sf.FillPolygon([][2]float64{{1, 1}, {5, 5}}, render.Color{})

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if c.At(x, y) {
				t.Fatalf("degenerate fill set pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestSurfaceFillPolygon_Clipped(t *testing.T) {
	// A polygon partly outside the canvas fills only the inside part.
	c := NewCanvas(10, 5)
	sf := NewSurface(c)

	sf.FillPolygon([][2]float64{{-10, -10}, {10, -10}, {10, 10}, {-10, 10}}, render.Color{})

	if !c.At(0, 0) || !c.At(5, 5) {
		t.Error("in-canvas part not filled")
	}
	if c.At(12, 0) || c.At(0, 12) {
		t.Error("filled past the polygon edge")
	}
}

func TestSurfaceStrokePolygon(t *testing.T) {
	c := NewCanvas(20, 10)
	sf := NewSurface(c)

	sf.StrokePolygon([][2]float64{{2, 2}, {18, 2}, {18, 18}, {2, 18}}, render.Color{})

	if !c.At(2, 2) || !c.At(18, 2) || !c.At(18, 18) || !c.At(2, 18) {
		t.Error("corners not stroked")
	}
	if !c.At(10, 2) || !c.At(2, 10) {
		t.Error("edges not stroked")
	}
	if c.At(10, 10) {
		t.Error("interior should stay empty")
	}
}
