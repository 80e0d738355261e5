// Package picking finds the face under the cursor.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // normalized
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// OrthoRay returns the view space ray of an orthographic camera through the
// view point x, y, starting at depth near and looking down -Z.
func OrthoRay(x, y, near float32) Ray {
	return Ray{
		Origin:    math.Vec3{X: x, Y: y, Z: near},
		Direction: math.Vec3{Z: -1},
	}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// It returns the entry distance, or the exit distance if the ray starts
// inside the box.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)

	o := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for i := range 3 {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle returns the distance along r to triangle a, b, c.
// Both windings hit.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	return t, t >= 0
}

// Hit is the nearest face crossed by a ray.
type Hit struct {
	Face  int // index into Data.Faces
	T     float32
	Point math.Vec3 // view space
}

// PickFace intersects a view space ray with the faces of d placed by
// modelView and returns the nearest hit.
func PickFace(d *display.Data, modelView math.Mat4, r Ray) (Hit, bool) {
	inf := math32.Inf(1)
	best := Hit{Face: -1, T: inf}
	var tri []math.Vec3

	for fi, f := range d.Faces {
		if f.NumIndices == 0 {
			continue
		}
		tri = tri[:0]
		box := AABB{
			Min: math.Vec3{X: inf, Y: inf, Z: inf},
			Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
		}
		for _, idx := range d.Triangles[f.BaseIndex : f.BaseIndex+f.NumIndices] {
			o := int(idx) * 3
			p := modelView.TransformPoint(math.Vec3{
				X: d.FaceCoords[o],
				Y: d.FaceCoords[o+1],
				Z: d.FaceCoords[o+2],
			})
			tri = append(tri, p)
			box.Min = math.Vec3{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y), Z: min(box.Min.Z, p.Z)}
			box.Max = math.Vec3{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y), Z: max(box.Max.Z, p.Z)}
		}

		if t, ok := r.IntersectAABB(box); !ok || t > best.T {
			continue
		}
		for i := 0; i+2 < len(tri); i += 3 {
			if t, ok := r.IntersectTriangle(tri[i], tri[i+1], tri[i+2]); ok && t < best.T {
				best.Face, best.T = fi, t
			}
		}
	}

	if best.Face < 0 {
		return Hit{}, false
	}
	best.Point = r.Origin.Add(r.Direction.Scale(best.T))
	return best, true
}
