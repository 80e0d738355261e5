package memkernel

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// faceMesh is the tessellation attached to a face. It implements
// kernel.FaceMesh.
type faceMesh struct {
	positions []float32
	normals   []float32 // nil when the faceter produced no normals
	polygons  [][]uint32
}

func (m *faceMesh) NumVertices() int { return len(m.positions) / 3 }
func (m *faceMesh) NumPolygons() int { return len(m.polygons) }
func (m *faceMesh) HasNormals() bool { return m.normals != nil }

func (m *faceMesh) SerializePositions(dst []float32) { copy(dst, m.positions) }
func (m *faceMesh) SerializeNormals(dst []float32)   { copy(dst, m.normals) }

func (m *faceMesh) SerializeTriangles(dst []uint32) int {
	n := 0
	for _, p := range m.polygons {
		if len(p) != 3 {
			continue
		}
		if 3*n+3 > len(dst) {
			break
		}
		copy(dst[3*n:], p)
		n++
	}
	return n
}

// facetPlanar fans a convex loop into triangles sharing a constant normal.
// It returns nil for loops that do not span an area.
func facetPlanar(loop []r3.Vec) *faceMesh {
	if len(loop) < 3 {
		return nil
	}
	n := newellNormal(loop)
	if r3.Norm(n) < 1e-12 {
		return nil
	}
	n = r3.Unit(n)

	m := &faceMesh{
		positions: make([]float32, 0, 3*len(loop)),
		normals:   make([]float32, 0, 3*len(loop)),
		polygons:  make([][]uint32, 0, len(loop)-2),
	}
	for _, p := range loop {
		m.positions = append(m.positions, float32(p.X), float32(p.Y), float32(p.Z))
		m.normals = append(m.normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	for i := 1; i+1 < len(loop); i++ {
		m.polygons = append(m.polygons, []uint32{0, uint32(i), uint32(i + 1)})
	}
	return m
}

// newellNormal returns the area-weighted normal of a polygon loop.
func newellNormal(loop []r3.Vec) r3.Vec {
	var n r3.Vec
	for i := range loop {
		cur, next := loop[i], loop[(i+1)%len(loop)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}

// facetImplicit runs marching cubes over an sdfx solid. Triangles are not
// welded; each carries its own facet normal.
func (m *Model) facetImplicit(f *Face) *faceMesh {
	renderer := render.NewMarchingCubesUniform(m.opts.MeshCells)
	triangles := render.ToTriangles(f.solid, renderer)
	if len(triangles) == 0 {
		return nil
	}

	mesh := &faceMesh{
		positions: make([]float32, 0, len(triangles)*9),
		normals:   make([]float32, 0, len(triangles)*9),
		polygons:  make([][]uint32, 0, len(triangles)),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.positions = append(mesh.positions, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.normals = append(mesh.normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		base := uint32(i * 3)
		mesh.polygons = append(mesh.polygons, []uint32{base, base + 1, base + 2})
	}
	return mesh
}

// facetEdge computes the polyline of an edge.
func (m *Model) facetEdge(e *Edge) []r3.Vec {
	switch e.shape {
	case shapeArc:
		segs := m.opts.ArcSegments
		if full := math.Abs(e.sweep) / (2 * math.Pi); full < 1 {
			segs = int(math.Ceil(float64(segs) * full))
		}
		if segs < 1 {
			segs = 1
		}
		pts := make([]r3.Vec, segs+1)
		for i := range pts {
			pts[i] = e.arcPoint(e.start + e.sweep*float64(i)/float64(segs))
		}
		return pts
	default:
		return []r3.Vec{e.a, e.b}
	}
}
