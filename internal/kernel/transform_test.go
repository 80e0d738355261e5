package kernel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestTransformZeroValueIsIdentity(t *testing.T) {
	var tr Transform
	if !tr.IsIdentity() {
		t.Fatal("zero Transform should be identity")
	}
	p := r3.Vec{X: 1, Y: -2, Z: 3}
	if got := tr.Apply(p); got != p {
		t.Errorf("identity Apply = %v, want %v", got, p)
	}
	if !NewTransform([12]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0}).IsIdentity() {
		t.Error("NewTransform of identity matrix should be identity")
	}
}

func TestTransformCompose(t *testing.T) {
	rot := Rotation(r3.Vec{Z: 1}, math.Pi/2)
	move := Translation(r3.Vec{X: 10})

	// move after rotate: (1,0,0) -> (0,1,0) -> (10,1,0)
	got := move.Mul(rot).Apply(r3.Vec{X: 1})
	if want := (r3.Vec{X: 10, Y: 1}); !near(got, want) {
		t.Errorf("move*rot = %v, want %v", got, want)
	}

	// rotate after move: (1,0,0) -> (11,0,0) -> (0,11,0)
	got = rot.Mul(move).Apply(r3.Vec{X: 1})
	if want := (r3.Vec{Y: 11}); !near(got, want) {
		t.Errorf("rot*move = %v, want %v", got, want)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	tr := Translation(r3.Vec{X: 5, Y: 5, Z: 5}).Mul(Scaling(2))
	got := tr.ApplyDirection(r3.Vec{Z: 1})
	if want := (r3.Vec{Z: 2}); !near(got, want) {
		t.Errorf("ApplyDirection = %v, want %v", got, want)
	}
}

func TestRotationDegenerate(t *testing.T) {
	if !Rotation(r3.Vec{}, 1).IsIdentity() {
		t.Error("rotation about zero axis should be identity")
	}
	if !Rotation(r3.Vec{X: 1}, 0).IsIdentity() {
		t.Error("zero-angle rotation should be identity")
	}
}

func TestFindAttribute(t *testing.T) {
	attrs := []Attribute{NameAttribute("lid"), ColorAttribute(RGB{1, 0, 0})}
	a, ok := Find(attrs, AttrColor)
	if !ok || a.Color != (RGB{1, 0, 0}) {
		t.Errorf("Find color = %+v, %v", a, ok)
	}
	if _, ok := Find(attrs[:1], AttrColor); ok {
		t.Error("expected no color attribute")
	}
}

func TestRGBFromSlice(t *testing.T) {
	c, ok := RGBFromSlice([]float32{2, 0.5, -1})
	if !ok || c != (RGB{1, 0.5, 0}) {
		t.Errorf("RGBFromSlice = %v, %v", c, ok)
	}
	if _, ok := RGBFromSlice([]float32{1, 1}); ok {
		t.Error("expected failure for 2-element slice")
	}
}
