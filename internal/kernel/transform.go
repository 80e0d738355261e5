package kernel

import "gonum.org/v1/gonum/spatial/r3"

// Transform is an affine 3D transform. The zero value is the identity.
//
// Elements are stored with the identity subtracted from the diagonal
// (d00 = x00-1, ...) so an identity check is a plain comparison:
//
//	if t == (Transform{})
type Transform struct {
	d00, x01, x02, x03 float64
	x10, d11, x12, x13 float64
	x20, x21, d22, x23 float64
}

// NewTransform builds a transform from a row-major 3x4 matrix.
func NewTransform(m [12]float64) Transform {
	return Transform{
		d00: m[0] - 1, x01: m[1], x02: m[2], x03: m[3],
		x10: m[4], d11: m[5] - 1, x12: m[6], x13: m[7],
		x20: m[8], x21: m[9], d22: m[10] - 1, x23: m[11],
	}
}

// Translation returns a pure translation.
func Translation(v r3.Vec) Transform {
	return Transform{x03: v.X, x13: v.Y, x23: v.Z}
}

// Scaling returns a uniform scale about the origin.
func Scaling(s float64) Transform {
	return Transform{d00: s - 1, d11: s - 1, d22: s - 1}
}

// Rotation returns a rotation of angle radians about axis.
func Rotation(axis r3.Vec, angle float64) Transform {
	if angle == 0 || axis == (r3.Vec{}) {
		return Transform{}
	}
	q := r3.NewRotation(angle, r3.Unit(axis))
	x2 := q.Imag + q.Imag
	y2 := q.Jmag + q.Jmag
	z2 := q.Kmag + q.Kmag
	xx, yy, zz := q.Imag*x2, q.Jmag*y2, q.Kmag*z2
	xy, xz, yz := q.Imag*y2, q.Imag*z2, q.Jmag*z2
	wx, wy, wz := q.Real*x2, q.Real*y2, q.Real*z2

	return NewTransform([12]float64{
		1 - (yy + zz), xy - wz, xz + wy, 0,
		xy + wz, 1 - (xx + zz), yz - wx, 0,
		xz - wy, yz + wx, 1 - (xx + yy), 0,
	})
}

// IsIdentity reports whether t is the identity transform.
func (t Transform) IsIdentity() bool {
	return t == Transform{}
}

// Matrix returns the row-major 3x4 matrix of t.
func (t Transform) Matrix() [12]float64 {
	return [12]float64{
		t.d00 + 1, t.x01, t.x02, t.x03,
		t.x10, t.d11 + 1, t.x12, t.x13,
		t.x20, t.x21, t.d22 + 1, t.x23,
	}
}

// Apply transforms a point.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z + t.x03,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z + t.x13,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z + t.x23,
	}
}

// ApplyDirection transforms a direction, ignoring translation.
func (t Transform) ApplyDirection(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z,
	}
}

// Mul returns t * b: the transform that applies b first, then t.
func (t Transform) Mul(b Transform) Transform {
	if t.IsIdentity() {
		return b
	}
	if b.IsIdentity() {
		return t
	}
	a, m := t.Matrix(), b.Matrix()
	var c [12]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			c[i*4+j] = a[i*4+0]*m[0*4+j] + a[i*4+1]*m[1*4+j] + a[i*4+2]*m[2*4+j]
		}
		c[i*4+3] += a[i*4+3]
	}
	return NewTransform(c)
}
