// Package display flattens tessellated faces and edges into the shared
// vertex, normal, index and polyline buffers consumed by the viewer.
package display

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/brepview/internal/kernel"
)

// VertexIndex counts points (one xyz triple each). FaceRecord offsets use it.
type VertexIndex uint32

// ScalarOffset counts float scalars (three per point). EdgeRecord offsets
// use it.
type ScalarOffset uint32

// Point returns the point index of a scalar offset.
func (o ScalarOffset) Point() int { return int(o) / 3 }

// FaceRecord locates one face inside the shared face buffers.
type FaceRecord struct {
	NumIndices int         // index entries, 3 per triangle
	BaseIndex  int         // first entry in Data.Triangles
	BaseVertex VertexIndex // first point in Data.FaceCoords
	Color      kernel.RGB
}

// NumTriangles returns the number of triangles of the face.
func (r FaceRecord) NumTriangles() int { return r.NumIndices / 3 }

// EdgeRecord locates one edge polyline inside Data.EdgeCoords.
type EdgeRecord struct {
	NumIndices int          // scalars, 3 per point
	BaseVertex ScalarOffset // first scalar in Data.EdgeCoords
	Color      kernel.RGB
}

// NumPoints returns the number of polyline points.
func (r EdgeRecord) NumPoints() int { return r.NumIndices / 3 }

// Stats summarizes a build.
type Stats struct {
	Faces        int // faces collected from the input
	Edges        int // edges collected from the input
	SkippedFaces int // collected faces without tessellation
	SkippedEdges int // collected edges whose points could not be read
	Triangles    int
}

// Data is the flattened display of a set of entities. It is written once by
// Builder.Build and read-only afterwards.
type Data struct {
	FaceCoords   []float32 // xyz per face vertex
	NormalCoords []float32 // xyz per face vertex, aligned with FaceCoords
	Triangles    []uint32  // global indices into FaceCoords points
	EdgeCoords   []float32 // xyz per polyline point

	Faces []FaceRecord
	Edges []EdgeRecord

	Stats Stats
}

// NumVertices returns the number of face points.
func (d *Data) NumVertices() int { return len(d.FaceCoords) / 3 }

// NumEdgePoints returns the number of polyline points over all edges.
func (d *Data) NumEdgePoints() int { return len(d.EdgeCoords) / 3 }

// Bounds returns the largest absolute coordinate over faces and edges. It
// is a conservative radius of a sphere around the origin containing the
// whole display.
func (d *Data) Bounds() float32 {
	var m float32
	for _, c := range d.FaceCoords {
		m = math32.Max(m, math32.Abs(c))
	}
	for _, c := range d.EdgeCoords {
		m = math32.Max(m, math32.Abs(c))
	}
	return m
}

// Validate checks the buffer invariants and reports the first violation.
func (d *Data) Validate() error {
	if len(d.FaceCoords)%3 != 0 {
		return fmt.Errorf("display: %d face scalars is not a multiple of 3", len(d.FaceCoords))
	}
	if len(d.NormalCoords) != len(d.FaceCoords) {
		return fmt.Errorf("display: %d normal scalars for %d face scalars", len(d.NormalCoords), len(d.FaceCoords))
	}
	if len(d.EdgeCoords)%3 != 0 {
		return fmt.Errorf("display: %d edge scalars is not a multiple of 3", len(d.EdgeCoords))
	}

	nv := uint32(d.NumVertices())
	for i, idx := range d.Triangles {
		if idx >= nv {
			return fmt.Errorf("display: triangle index %d at %d out of range (%d vertices)", idx, i, nv)
		}
	}

	sum := 0
	for i, r := range d.Faces {
		if r.BaseIndex != sum {
			return fmt.Errorf("display: face %d starts at index %d, want %d", i, r.BaseIndex, sum)
		}
		if r.NumIndices%3 != 0 {
			return fmt.Errorf("display: face %d has %d indices", i, r.NumIndices)
		}
		if uint32(r.BaseVertex) > nv {
			return fmt.Errorf("display: face %d base vertex %d beyond %d vertices", i, r.BaseVertex, nv)
		}
		sum += r.NumIndices
	}
	if sum != len(d.Triangles) {
		return fmt.Errorf("display: face records cover %d indices, buffer has %d", sum, len(d.Triangles))
	}

	for i, r := range d.Edges {
		if r.NumIndices%3 != 0 || r.BaseVertex%3 != 0 {
			return fmt.Errorf("display: edge %d is not point aligned (base %d, count %d)", i, r.BaseVertex, r.NumIndices)
		}
		if int(r.BaseVertex)+r.NumIndices > len(d.EdgeCoords) {
			return fmt.Errorf("display: edge %d range %d+%d exceeds %d scalars", i, r.BaseVertex, r.NumIndices, len(d.EdgeCoords))
		}
	}
	return nil
}
