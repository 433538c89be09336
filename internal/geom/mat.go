package geom

import "math"

// Mat4 is a 4x4 matrix stored row-major. It is used for composing the
// view and projection transforms of the software pipeline.
type Mat4 [16]float64

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate builds a translation by v.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// RotateX builds a rotation by a radians about the x axis.
func RotateX(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY builds a rotation by a radians about the y axis.
func RotateY(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ builds a rotation by a radians about the z axis.
func RotateZ(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the matrix product m*o, so that
// m.Mul(o).Apply(p) == m.Apply(o.Apply(p)).
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[i*4+k] * o[k*4+j]
			}
			r[i*4+j] = sum
		}
	}
	return r
}

// Apply transforms a point, treating it as (x, y, z, 1) and discarding
// the homogeneous row. Use ApplyH when the matrix contains a projection.
func (m Mat4) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// ApplyH transforms a point homogeneously and returns the transformed
// vector together with the w component, before perspective division.
func (m Mat4) ApplyH(v Vec3) (Vec3, float64) {
	p := m.Apply(v)
	w := m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]
	return p, w
}

// Perspective builds the projection used by the renderer. The camera
// space has x right, y up and z as depth growing away from the camera.
// The resulting w equals the camera-space depth, so points behind the
// camera come out with w <= 0 and must be clipped before projection.
func Perspective(fovDeg, near, far float64) Mat4 {
	s := 1 / math.Tan(fovDeg/2*math.Pi/180)
	q := far / (far - near)
	return Mat4{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, -q, -q * near,
		0, 0, 1, 0,
	}
}
