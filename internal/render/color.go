package render

import (
	"math"

	"github.com/san-kum/railsim/internal/geom"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// sunBias keeps faces turned away from the sun from going fully black.
var sunBias = [3]float64{20, 20, 20}

// DefaultSun is the fixed light direction, pointing from the sun toward
// the scene.
func DefaultSun() geom.Vec3 {
	return geom.V(-0.4, 0.6, -0.7).Normalize()
}

// Shade scales a base color by how squarely the face normal meets the
// sun, plus a constant bias so shadowed faces stay visible.
func Shade(base Color, normal, sun geom.Vec3) Color {
	n := normal.Normalize()
	lit := math.Max(0, -n.Dot(sun))
	return Color{
		R: clamp8(float64(base.R)*lit + sunBias[0]),
		G: clamp8(float64(base.G)*lit + sunBias[1]),
		B: clamp8(float64(base.B)*lit + sunBias[2]),
	}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
