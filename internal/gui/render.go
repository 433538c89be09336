package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/railsim/internal/render"
)

// windowSurface adapts the raylib window to the renderer's drawing
// target. It must only be used between BeginDrawing and EndDrawing.
type windowSurface struct {
	w, h int
}

func (s windowSurface) Size() (int, int) { return s.w, s.h }

// FillPolygon fan-triangulates the polygon. raylib wants triangle
// vertices counter-clockwise in screen space, so each fan triangle is
// reordered when needed.
func (s windowSurface) FillPolygon(pts [][2]float64, c render.Color) {
	if len(pts) < 3 {
		return
	}
	col := rl.NewColor(c.R, c.G, c.B, 255)
	a := vec2(pts[0])
	for i := 1; i+1 < len(pts); i++ {
		b, d := vec2(pts[i]), vec2(pts[i+1])
		if cross2(a, b, d) > 0 {
			b, d = d, b
		}
		rl.DrawTriangle(a, b, d, col)
	}
}

func (s windowSurface) StrokePolygon(pts [][2]float64, c render.Color) {
	if len(pts) < 2 {
		return
	}
	col := rl.NewColor(c.R, c.G, c.B, 255)
	for i := range pts {
		rl.DrawLineV(vec2(pts[i]), vec2(pts[(i+1)%len(pts)]), col)
	}
}

func vec2(p [2]float64) rl.Vector2 {
	return rl.NewVector2(float32(p[0]), float32(p[1]))
}

func cross2(a, b, c rl.Vector2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
