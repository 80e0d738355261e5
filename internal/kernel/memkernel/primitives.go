package memkernel

import (
	"errors"
	"fmt"
	"math"

	sdf "github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// boxFaces lists corner indices of each box face, counter-clockwise seen
// from outside. Corner i sits at (±x, ±y, ±z) with bit 0 = x, 1 = y, 2 = z.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// NewBox creates an axis-aligned box centered on the origin with 6 planar
// faces and 12 shared edges.
func NewBox(size r3.Vec) (*Body, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("memkernel: invalid box size %v", size)
	}
	h := r3.Scale(0.5, size)
	var corners [8]r3.Vec
	for i := range corners {
		corners[i] = r3.Vec{X: -h.X, Y: -h.Y, Z: -h.Z}
		if i&1 != 0 {
			corners[i].X = h.X
		}
		if i&2 != 0 {
			corners[i].Y = h.Y
		}
		if i&4 != 0 {
			corners[i].Z = h.Z
		}
	}

	b := &Body{}
	shared := make(map[[2]int]*Edge)
	for _, idx := range boxFaces {
		f := &Face{loop: make([]r3.Vec, 0, 4)}
		for k := range idx {
			f.loop = append(f.loop, corners[idx[k]])

			i, j := idx[k], idx[(k+1)%4]
			if i > j {
				i, j = j, i
			}
			e, ok := shared[[2]int{i, j}]
			if !ok {
				e = newLine(corners[i], corners[j])
				shared[[2]int{i, j}] = e
				b.addEdge(e)
			}
			f.boundary = append(f.boundary, e)
		}
		b.addFace(f)
	}
	return b, nil
}

// NewPlate creates a body with one planar face bounded by the given convex
// loop. Fewer than 3 points yield a face the faceter cannot tessellate.
func NewPlate(loop []r3.Vec) *Body {
	b := &Body{}
	f := &Face{loop: append([]r3.Vec(nil), loop...)}
	for i := range loop {
		if len(loop) < 2 {
			break
		}
		e := newLine(loop[i], loop[(i+1)%len(loop)])
		b.addEdge(e)
		f.boundary = append(f.boundary, e)
	}
	b.addFace(f)
	return b
}

// NewPolyline creates a wire of line edges joining consecutive points.
func NewPolyline(points []r3.Vec) (*Wire, error) {
	if len(points) < 2 {
		return nil, errors.New("memkernel: polyline needs at least 2 points")
	}
	w := &Wire{}
	for i := 0; i+1 < len(points); i++ {
		w.addEdge(newLine(points[i], points[i+1]))
	}
	return w, nil
}

// NewArc creates a wire with one circular arc edge in the XY plane.
// Angles are in radians.
func NewArc(center r3.Vec, radius, start, sweep float64) (*Wire, error) {
	if radius <= 0 || sweep == 0 {
		return nil, fmt.Errorf("memkernel: invalid arc radius=%g sweep=%g", radius, sweep)
	}
	w := &Wire{}
	w.addEdge(&Edge{
		shape:  shapeArc,
		center: center,
		radius: radius,
		start:  start,
		sweep:  sweep,
	})
	return w, nil
}

// NewImplicit creates a body with a single face covering the surface of an
// sdfx solid. It has no edges.
func NewImplicit(s sdf.SDF3) *Body {
	b := &Body{}
	b.addFace(&Face{solid: s})
	return b
}

// Sphere creates an implicit sphere centered on the origin.
func Sphere(radius float64) (*Body, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("memkernel: sphere: %w", err)
	}
	return NewImplicit(s), nil
}

// Cylinder creates an implicit cylinder along Z centered on the origin.
func Cylinder(height, radius float64) (*Body, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("memkernel: cylinder: %w", err)
	}
	return NewImplicit(s), nil
}

// RoundedBox creates an implicit box with rounded edges centered on the origin.
func RoundedBox(size r3.Vec, round float64) (*Body, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, round)
	if err != nil {
		return nil, fmt.Errorf("memkernel: rounded box: %w", err)
	}
	return NewImplicit(s), nil
}

func newLine(a, b r3.Vec) *Edge {
	return &Edge{shape: shapeLine, a: a, b: b}
}

// arcPoint returns the point at angle t on the edge's circle.
func (e *Edge) arcPoint(t float64) r3.Vec {
	s, c := math.Sincos(t)
	return r3.Add(e.center, r3.Vec{X: e.radius * c, Y: e.radius * s})
}
