package viz

import (
	"math"
	"sort"

	"github.com/san-kum/railsim/internal/render"
)

// canvasSurface adapts a Canvas to the renderer's drawing target. The
// canvas is monochrome, so fill colors are ignored.
type canvasSurface struct {
	c *Canvas
}

// NewSurface wraps a canvas so the rasterizer can paint onto it. Pixel
// coordinates map one-to-one onto the canvas sub-pixels.
func NewSurface(c *Canvas) render.Surface {
	return canvasSurface{c: c}
}

func (s canvasSurface) Size() (int, int) {
	return s.c.Width * 2, s.c.Height * 4
}

// FillPolygon scanline-fills a convex or concave polygon. Crossings
// are tested against the row center so vertices sitting exactly on a
// scanline do not double-count.
func (s canvasSurface) FillPolygon(pts [][2]float64, _ render.Color) {
	n := len(pts)
	if n < 3 {
		return
	}

	minY, maxY := pts[0][1], pts[0][1]
	for _, p := range pts[1:] {
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}

	_, h := s.Size()
	y0 := int(math.Floor(minY))
	y1 := int(math.Ceil(maxY))
	if y0 < 0 {
		y0 = 0
	}
	if y1 >= h {
		y1 = h - 1
	}

	xs := make([]float64, 0, 8)
	for y := y0; y <= y1; y++ {
		fy := float64(y) + 0.5
		xs = xs[:0]
		for i := 0; i < n; i++ {
			a, b := pts[i], pts[(i+1)%n]
			if (a[1] <= fy) == (b[1] <= fy) {
				continue
			}
			t := (fy - a[1]) / (b[1] - a[1])
			xs = append(xs, a[0]+t*(b[0]-a[0]))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i] - 0.5)); float64(x)+0.5 <= xs[i+1]; x++ {
				s.c.Set(x, y)
			}
		}
	}
}

func (s canvasSurface) StrokePolygon(pts [][2]float64, _ render.Color) {
	n := len(pts)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		s.c.DrawLine(roundInt(a[0]), roundInt(a[1]), roundInt(b[0]), roundInt(b[1]))
	}
}

func roundInt(v float64) int { return int(math.Round(v)) }
