// Package kernel defines what the display pipeline consumes from a solid
// modeling kernel. Implementations own the B-rep and the faceter; this
// package only names the operations the mesh extractors call.
package kernel

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoAttribute is returned by Modeler.Color when the entity carries no
// color attribute.
var ErrNoAttribute = errors.New("kernel: attribute not found")

// Kind classifies an entity.
type Kind int

const (
	KindAssembly Kind = iota
	KindBody
	KindWire
	KindFace
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindAssembly:
		return "assembly"
	case KindBody:
		return "body"
	case KindWire:
		return "wire"
	case KindFace:
		return "face"
	case KindEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Entity is an opaque handle to a kernel object.
type Entity interface {
	Kind() Kind
}

// Face is an entity of KindFace.
type Face interface {
	Entity
}

// Edge is an entity of KindEdge.
type Edge interface {
	Entity
}

// FaceMesh is the tessellation attached to a face by the faceter.
type FaceMesh interface {
	NumVertices() int
	// NumPolygons is the polygon count, an upper bound on the triangles
	// SerializeTriangles writes.
	NumPolygons() int
	HasNormals() bool
	// SerializePositions fills dst (len 3*NumVertices) with xyz positions.
	SerializePositions(dst []float32)
	// SerializeNormals fills dst (len 3*NumVertices) with xyz normals.
	SerializeNormals(dst []float32)
	// SerializeTriangles fills dst (len 3*NumPolygons) front to back with
	// face-local vertex indices and returns the number of triangles written.
	// Non-triangular polygons are not written.
	SerializeTriangles(dst []uint32) int
}

// PointArray is a faceted edge polyline. The faceter owns the backing
// storage until Release is called.
type PointArray interface {
	Points() []r3.Vec
	Release()
}

// Modeler is the kernel API surface used to build display data.
type Modeler interface {
	// EnsureFaceted attaches tessellation data to the entity and everything
	// below it.
	EnsureFaceted(e Entity) error
	// CollectFaces returns every face reachable from e.
	CollectFaces(e Entity) ([]Face, error)
	// CollectEdges returns every edge reachable from e, including face
	// boundaries.
	CollectEdges(e Entity) ([]Edge, error)
	// FaceMesh returns the tessellation attached to f, if any.
	FaceMesh(f Face) (FaceMesh, bool)
	// EdgePoints returns the faceted polyline of an edge.
	EdgePoints(e Edge) (PointArray, error)
	// OwnerTransform returns the cumulative transform of every ancestor of e.
	OwnerTransform(e Entity) Transform
	// Color returns the flat color attribute of e or ErrNoAttribute.
	Color(e Entity) (RGB, error)
}
