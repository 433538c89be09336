package geom

import (
	"math"
	"testing"
)

func approxVec(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestMat4_Identity(t *testing.T) {
	p := V(1, -2, 3)
	if got := Identity().Apply(p); got != p {
		t.Errorf("Identity().Apply(%v) = %v", p, got)
	}
}

func TestMat4_Translate(t *testing.T) {
	m := Translate(V(1, 2, 3))
	if got := m.Apply(V(0, 0, 0)); got != (Vec3{1, 2, 3}) {
		t.Errorf("Translate.Apply = %v", got)
	}
}

func TestMat4_Rotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"z quarter turn", RotateZ(math.Pi / 2), V(1, 0, 0), V(0, 1, 0)},
		{"x quarter turn", RotateX(math.Pi / 2), V(0, 1, 0), V(0, 0, 1)},
		{"y quarter turn", RotateY(math.Pi / 2), V(0, 0, 1), V(1, 0, 0)},
		{"z full turn", RotateZ(2 * math.Pi), V(1, 2, 3), V(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Apply(tt.in); !approxVec(got, tt.want, 1e-12) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMat4_MulComposition(t *testing.T) {
	a := RotateZ(0.3)
	b := Translate(V(1, 2, 3))
	p := V(-4, 5, 6)

	composed := a.Mul(b).Apply(p)
	nested := a.Apply(b.Apply(p))
	if !approxVec(composed, nested, 1e-12) {
		t.Errorf("composition mismatch: %v vs %v", composed, nested)
	}
}

func TestPerspective_DepthMonotonic(t *testing.T) {
	m := Perspective(60, 1, 2000)

	// Depth after perspective division must grow with camera-space z,
	// so that painter's sorting on it is meaningful.
	prev := math.Inf(-1)
	for _, z := range []float64{1.0, 2.0, 10.0, 100.0, 1500.0} {
		p, w := m.ApplyH(V(0, 0, z))
		if w <= 0 {
			t.Fatalf("w = %v at z = %v, want positive", w, z)
		}
		depth := p.Z / w
		if depth <= prev {
			t.Errorf("depth not monotonic at z=%v: %v <= %v", z, depth, prev)
		}
		prev = depth
	}
}

func TestPerspective_CenterProjectsToOrigin(t *testing.T) {
	m := Perspective(60, 1, 2000)
	p, w := m.ApplyH(V(0, 0, 10))
	if math.Abs(p.X/w) > 1e-12 || math.Abs(p.Y/w) > 1e-12 {
		t.Errorf("axis point projected off-center: (%v, %v)", p.X/w, p.Y/w)
	}
}
