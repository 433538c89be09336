package render

import (
	"math"
	"testing"

	"github.com/san-kum/railsim/internal/geom"
	"github.com/san-kum/railsim/internal/track"
)

func northCamera() *Camera {
	c := NewCamera()
	c.Position = geom.V(0, 0, 0)
	c.Yaw, c.Pitch = 0, 0
	return c
}

func TestProject_CenterAndDepth(t *testing.T) {
	c := northCamera()

	x, y, _, ok := c.Project(geom.V(0, 10, 0))
	if !ok {
		t.Fatal("point straight ahead not visible")
	}
	if math.Abs(x) > 1e-12 || math.Abs(y) > 1e-12 {
		t.Errorf("straight ahead projected to (%v, %v), want center", x, y)
	}

	// Depth ordering must match world distance along the view axis.
	_, _, dNear, _ := c.Project(geom.V(0, 10, 0))
	_, _, dFar, _ := c.Project(geom.V(0, 100, 0))
	if dNear >= dFar {
		t.Errorf("depths not ordered: near %v, far %v", dNear, dFar)
	}
}

func TestProject_BehindNearPlane(t *testing.T) {
	c := northCamera()

	tests := []struct {
		name string
		p    geom.Vec3
	}{
		{"behind camera", geom.V(0, -10, 0)},
		{"on the camera", geom.V(0, 0, 0)},
		{"inside near plane", geom.V(0, c.Near/2, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, d, ok := c.Project(tt.p)
			if ok {
				t.Errorf("point %v reported visible", tt.p)
			}
			for _, v := range []float64{x, y, d} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("non-finite output for %v", tt.p)
				}
			}
		})
	}
}

func TestProject_OffsetDirections(t *testing.T) {
	c := northCamera()

	x, y, _, ok := c.Project(geom.V(3, 10, 2))
	if !ok {
		t.Fatal("offset point not visible")
	}
	if x <= 0 {
		t.Errorf("point east of the axis projected to x=%v, want > 0", x)
	}
	if y <= 0 {
		t.Errorf("point above the axis projected to y=%v, want > 0", y)
	}
}

func TestProject_FOVScale(t *testing.T) {
	c := northCamera()
	c.FOV = 90
	c.Aspect = 1

	// At 90 degrees the focal scale is 1, so a point as far off-axis as
	// it is deep lands exactly on the frustum edge.
	x, y, d, ok := c.Project(geom.V(10, 10, 10))
	if !ok {
		t.Fatal("frustum-edge point not visible")
	}
	if math.Abs(x-1) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Errorf("projected to (%v, %v), want (1, 1)", x, y)
	}
	if math.Abs(d-10) > 1e-9 {
		t.Errorf("depth = %v, want the view-space distance 10", d)
	}
}

func TestProject_YawTurnsView(t *testing.T) {
	c := northCamera()
	c.Yaw = math.Pi / 2 // facing east

	x, _, _, ok := c.Project(geom.V(10, 0, 0))
	if !ok {
		t.Fatal("point dead ahead after yaw not visible")
	}
	if math.Abs(x) > 1e-9 {
		t.Errorf("dead-ahead point at x=%v after yaw", x)
	}
	if _, _, _, ok := c.Project(geom.V(0, 10, 0)); ok {
		t.Error("point 90 degrees off-axis reported visible")
	}
}

func TestAttach(t *testing.T) {
	c := NewCamera()
	pose := track.Pose{
		Position: geom.V(5, 7, 1),
		Forward:  geom.V(0, 1, 0),
		Up:       geom.V(0, 0, 1),
	}
	c.Attach(pose)

	want := geom.V(5, 7, 1+eyeHeight)
	if c.Position != want {
		t.Errorf("cab position = %v, want %v", c.Position, want)
	}
	if c.Yaw != 0 || c.Pitch != 0 {
		t.Errorf("yaw/pitch = %v/%v for a northbound pose", c.Yaw, c.Pitch)
	}

	// Degenerate forward keeps the previous orientation.
	c.Yaw = 1.2
	c.Attach(track.Pose{Position: geom.V(0, 0, 0), Up: geom.Up()})
	if c.Yaw != 1.2 {
		t.Errorf("degenerate pose changed yaw to %v", c.Yaw)
	}
}

func TestRotate_ClampsPitch(t *testing.T) {
	c := northCamera()
	c.Rotate(0, 10)
	if c.Pitch >= math.Pi/2 {
		t.Errorf("pitch %v reached the pole", c.Pitch)
	}
	c.Rotate(0, -20)
	if c.Pitch <= -math.Pi/2 {
		t.Errorf("pitch %v reached the pole", c.Pitch)
	}
}

func TestShade(t *testing.T) {
	base := Color{200, 100, 50}
	sun := geom.V(0, 0, -1) // straight down

	lit := Shade(base, geom.V(0, 0, 1), sun)
	if lit.R <= base.R-1 {
		t.Errorf("face square to the sun got darker: %v", lit)
	}

	dark := Shade(base, geom.V(0, 0, -1), sun)
	if dark.R == 0 || dark.G == 0 || dark.B == 0 {
		t.Errorf("bias should keep shadowed faces visible: %v", dark)
	}
	if dark.R >= lit.R {
		t.Errorf("shadowed face brighter than lit face: %v vs %v", dark, lit)
	}
}
