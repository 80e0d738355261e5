package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(Vec3{10, 20, 30})
	got := m.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestUniformScale(t *testing.T) {
	got := UniformScale(2).TransformPoint(Vec3{1, 2, 3})
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("UniformScale: got %v, want %v", got, want)
	}
	if n := UniformScale(3).RowNorm(); abs(n-3) > 1e-6 {
		t.Errorf("RowNorm of scale 3: got %f", n)
	}
}

func TestRotateAxis90(t *testing.T) {
	m := RotateAxis(Vec3{0, 1, 0}, float32(math.Pi/2))
	got := m.TransformPoint(Vec3{1, 0, 0})

	// (1,0,0) rotated 90 degrees about +Y lands on (0,0,-1)
	if abs(got.X) > 0.001 || abs(got.Y) > 0.001 || abs(got.Z+1) > 0.001 {
		t.Errorf("RotateAxis Y 90: got %v, want (0, 0, -1)", got)
	}
}

func TestRotateAxisInverse(t *testing.T) {
	axis := Vec3{1, 2, 3}.Normalize()
	m := RotateAxis(axis, 0.7).Mul(RotateAxis(axis, -0.7))
	if !m.ApproxEqual(Identity(), 1e-5) {
		t.Errorf("R(a) * R(-a) should be identity, got %v", m)
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(-2, 2, -1, 1, -10, 10)

	p := m.TransformPoint(Vec3{2, 1, 0})
	if abs(p.X-1) > 1e-6 || abs(p.Y-1) > 1e-6 {
		t.Errorf("Ortho corner: got %v, want (1, 1, _)", p)
	}
	if m[15] != 1 {
		t.Errorf("Ortho [15] should be 1, got %f", m[15])
	}
}

func TestRowAndColumn(t *testing.T) {
	m := Mat4{
		1, 2, 3, 0,
		4, 5, 6, 0,
		7, 8, 9, 0,
		0, 0, 0, 1,
	}
	if got := m.Column(1); got != (Vec3{4, 5, 6}) {
		t.Errorf("Column(1) = %v", got)
	}
	if got := m.Row(1); got != (Vec3{2, 5, 8}) {
		t.Errorf("Row(1) = %v", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(Vec3{10, 20, 30}).Mul(UniformScale(2))
	got := m.TransformDirection(Vec3{0, 1, 0})
	if got != (Vec3{0, 2, 0}) {
		t.Errorf("TransformDirection = %v, want {0 2 0}", got)
	}
}
