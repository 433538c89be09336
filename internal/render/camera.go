// Package render is the software 3D pipeline: camera, projection and a
// painter's-algorithm rasterizer that draws through a 2D Surface.
package render

import (
	"math"

	"github.com/san-kum/railsim/internal/geom"
	"github.com/san-kum/railsim/internal/track"
)

// Mode selects how the camera is driven.
type Mode int

const (
	CabView Mode = iota
	FreeLook
)

func (m Mode) String() string {
	if m == FreeLook {
		return "free"
	}
	return "cab"
}

// eyeHeight lifts the cab viewpoint above the rail head (metres).
const eyeHeight = 2.5

// Camera projects world points to normalized screen coordinates.
// Yaw is measured from north (+y) toward east (+x), pitch upward from
// the horizon, both radians. FOV is the vertical field of view in
// degrees. Aspect is width over height.
type Camera struct {
	Mode     Mode
	Position geom.Vec3
	Yaw      float64
	Pitch    float64
	FOV      float64
	Aspect   float64
	Near     float64
	Far      float64
}

func NewCamera() *Camera {
	return &Camera{
		FOV:    70,
		Aspect: 16.0 / 9.0,
		Near:   0.5,
		Far:    2000,
	}
}

// Attach places the camera in the cab for the given track pose. A
// degenerate pose keeps the previous orientation.
func (c *Camera) Attach(pose track.Pose) {
	c.Position = pose.Position.Add(pose.Up.Scale(eyeHeight))
	f := pose.Forward
	if f.Length() < 1e-12 {
		return
	}
	c.Yaw = math.Atan2(f.X, f.Y)
	c.Pitch = math.Asin(geom.Clamp(f.Z, -1, 1))
}

// Rotate turns the free camera, clamping pitch short of the poles.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = geom.Clamp(c.Pitch+dPitch, -math.Pi/2+0.01, math.Pi/2-0.01)
}

// Move translates the free camera by deltas along its own axes:
// X right, Y forward, Z world-up.
func (c *Camera) Move(delta geom.Vec3) {
	fwd := geom.V(math.Sin(c.Yaw), math.Cos(c.Yaw), 0)
	right := geom.V(math.Cos(c.Yaw), -math.Sin(c.Yaw), 0)
	c.Position = c.Position.
		Add(right.Scale(delta.X)).
		Add(fwd.Scale(delta.Y)).
		Add(geom.Up().Scale(delta.Z))
}

// ViewMatrix maps world space to view space, where +X is right, +Y is
// depth into the screen and +Z is up.
func (c *Camera) ViewMatrix() geom.Mat4 {
	return geom.RotateX(-c.Pitch).
		Mul(geom.RotateZ(c.Yaw)).
		Mul(geom.Translate(c.Position.Neg()))
}

// Project maps a world point to normalized screen coordinates in
// [-1, 1] (y up) plus its view-space depth. Points at or behind the
// near plane, or yielding non-finite results, return ok=false.
func (c *Camera) Project(world geom.Vec3) (x, y, depth float64, ok bool) {
	return c.projectView(c.ViewMatrix().Apply(world))
}

func (c *Camera) projectView(v geom.Vec3) (x, y, depth float64, ok bool) {
	if !v.IsValid() || v.Y <= c.Near {
		return 0, 0, 0, false
	}
	// The projection matrix takes x right, y up, z depth; view space has
	// depth on y and up on z, so the axes are swapped going in.
	p, w := geom.Perspective(c.FOV, c.Near, c.Far).ApplyH(geom.V(v.X, v.Z, v.Y))
	x = p.X / w
	y = p.Y / w * c.Aspect
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, 0, false
	}
	return x, y, w, true
}
