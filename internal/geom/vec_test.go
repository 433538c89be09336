package geom

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := V(1, 2, 3)
	b := V(4, 5, 6)

	sum := a.Add(b)
	if sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", scaled)
	}
}

func TestVec3_DotCross(t *testing.T) {
	x := V(1, 0, 0)
	y := V(0, 1, 0)

	if got := x.Dot(y); got != 0 {
		t.Errorf("Dot of orthogonal vectors = %v, want 0", got)
	}
	if got := x.Cross(y); got != (Vec3{0, 0, 1}) {
		t.Errorf("Cross(x, y) = %v, want z", got)
	}
	if got := y.Cross(x); got != (Vec3{0, 0, -1}) {
		t.Errorf("Cross(y, x) = %v, want -z", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"unit", V(1, 0, 0), 1},
		{"long", V(3, 4, 0), 1},
		{"tiny", V(0, 0, 1e-9), 1},
		{"zero", Vec3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.v.Normalize()
			if !n.IsValid() {
				t.Fatalf("Normalize(%v) produced invalid vector %v", tt.v, n)
			}
			if math.Abs(n.Length()-tt.want) > 1e-12 {
				t.Errorf("length = %v, want %v", n.Length(), tt.want)
			}
		})
	}
}

func TestVec3_Lerp(t *testing.T) {
	a := V(0, 0, 0)
	b := V(10, -10, 4)

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	mid := a.Lerp(b, 0.5)
	if mid != (Vec3{5, -5, 2}) {
		t.Errorf("Lerp(0.5) = %v", mid)
	}
}

func TestVec3_IsValid(t *testing.T) {
	if !V(1, 2, 3).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if (Vec3{math.NaN(), 0, 0}).IsValid() {
		t.Error("NaN vector reported valid")
	}
	if (Vec3{0, math.Inf(1), 0}).IsValid() {
		t.Error("Inf vector reported valid")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp inside = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp below = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp above = %v", got)
	}
}
