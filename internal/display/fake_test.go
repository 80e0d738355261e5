package display

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/brepview/internal/kernel"
)

type fakeFace struct{ id int }

func (*fakeFace) Kind() kernel.Kind { return kernel.KindFace }

type fakeEdge struct{ id int }

func (*fakeEdge) Kind() kernel.Kind { return kernel.KindEdge }

type fakeBody struct {
	faces []*fakeFace
	edges []*fakeEdge
}

func (*fakeBody) Kind() kernel.Kind { return kernel.KindBody }

type fakeMesh struct {
	positions []float32
	normals   []float32
	tris      []uint32
	polygons  int // reported polygon count, defaults to len(tris)/3
}

func (m *fakeMesh) NumVertices() int { return len(m.positions) / 3 }
func (m *fakeMesh) NumPolygons() int {
	if m.polygons > 0 {
		return m.polygons
	}
	return len(m.tris) / 3
}
func (m *fakeMesh) HasNormals() bool                    { return m.normals != nil }
func (m *fakeMesh) SerializePositions(dst []float32)    { copy(dst, m.positions) }
func (m *fakeMesh) SerializeNormals(dst []float32)      { copy(dst, m.normals) }
func (m *fakeMesh) SerializeTriangles(dst []uint32) int { return copy(dst, m.tris) / 3 }

type fakePoints struct {
	pts      []r3.Vec
	released *int
}

func (p *fakePoints) Points() []r3.Vec { return p.pts }
func (p *fakePoints) Release()         { *p.released++ }

type fakeModeler struct {
	meshes     map[kernel.Face]kernel.FaceMesh
	points     map[kernel.Edge][]r3.Vec
	transforms map[kernel.Entity]kernel.Transform
	colors     map[kernel.Entity]kernel.RGB
	failFacet  map[kernel.Entity]bool

	faceCalls int
	released  int
}

func newFakeModeler() *fakeModeler {
	return &fakeModeler{
		meshes:     make(map[kernel.Face]kernel.FaceMesh),
		points:     make(map[kernel.Edge][]r3.Vec),
		transforms: make(map[kernel.Entity]kernel.Transform),
		colors:     make(map[kernel.Entity]kernel.RGB),
		failFacet:  make(map[kernel.Entity]bool),
	}
}

var errFake = errors.New("fake kernel failure")

func (m *fakeModeler) EnsureFaceted(e kernel.Entity) error {
	if m.failFacet[e] {
		return errFake
	}
	return nil
}

func (m *fakeModeler) CollectFaces(e kernel.Entity) ([]kernel.Face, error) {
	m.faceCalls++
	switch v := e.(type) {
	case *fakeBody:
		out := make([]kernel.Face, 0, len(v.faces))
		for _, f := range v.faces {
			out = append(out, f)
		}
		return out, nil
	case *fakeFace:
		return []kernel.Face{v}, nil
	}
	return nil, nil
}

func (m *fakeModeler) CollectEdges(e kernel.Entity) ([]kernel.Edge, error) {
	switch v := e.(type) {
	case *fakeBody:
		out := make([]kernel.Edge, 0, len(v.edges))
		for _, ed := range v.edges {
			out = append(out, ed)
		}
		return out, nil
	case *fakeEdge:
		return []kernel.Edge{v}, nil
	}
	return nil, nil
}

func (m *fakeModeler) FaceMesh(f kernel.Face) (kernel.FaceMesh, bool) {
	mesh, ok := m.meshes[f]
	return mesh, ok
}

func (m *fakeModeler) EdgePoints(e kernel.Edge) (kernel.PointArray, error) {
	pts, ok := m.points[e]
	if !ok {
		return nil, errFake
	}
	return &fakePoints{pts: pts, released: &m.released}, nil
}

func (m *fakeModeler) OwnerTransform(e kernel.Entity) kernel.Transform {
	return m.transforms[e]
}

func (m *fakeModeler) Color(e kernel.Entity) (kernel.RGB, error) {
	c, ok := m.colors[e]
	if !ok {
		return kernel.RGB{}, kernel.ErrNoAttribute
	}
	return c, nil
}

// triangleMesh is a unit right triangle in the z=0 plane with +Z normals,
// shifted by x along X.
func triangleMesh(x float32, withNormals bool) *fakeMesh {
	m := &fakeMesh{
		positions: []float32{x, 0, 0, x + 1, 0, 0, x, 1, 0},
		tris:      []uint32{0, 1, 2},
	}
	if withNormals {
		m.normals = []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}
	}
	return m
}

// quadMesh is a unit square split in two triangles.
func quadMesh() *fakeMesh {
	return &fakeMesh{
		positions: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		tris:      []uint32{0, 1, 2, 0, 2, 3},
	}
}
