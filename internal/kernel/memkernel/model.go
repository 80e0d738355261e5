package memkernel

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/brepview/internal/kernel"
	"github.com/Faultbox/brepview/internal/logger"
)

// Compile-time interface check.
var _ kernel.Modeler = (*Model)(nil)

var (
	// ErrForeignEntity is returned for entities not created by this package.
	ErrForeignEntity = errors.New("memkernel: entity does not belong to this kernel")
	// ErrFacetingFailed is returned by EnsureFaceted for faces that refuse
	// tessellation.
	ErrFacetingFailed = errors.New("memkernel: faceting failed")
	// ErrNotFaceted is returned by EdgePoints for edges without a polyline.
	ErrNotFaceted = errors.New("memkernel: edge not faceted")
)

// Options controls tessellation density.
type Options struct {
	// ArcSegments is the segment count of a full circle.
	ArcSegments int
	// MeshCells is the marching cubes resolution along the longest axis
	// of an implicit solid.
	MeshCells int
}

// DefaultOptions returns the faceting defaults.
func DefaultOptions() Options {
	return Options{
		ArcSegments: 64,
		MeshCells:   64,
	}
}

// Model implements kernel.Modeler over memkernel entities.
type Model struct {
	opts        Options
	outstanding atomic.Int64
}

// New creates a modeler with the given faceting options. Zero fields fall
// back to DefaultOptions.
func New(opts Options) *Model {
	def := DefaultOptions()
	if opts.ArcSegments <= 0 {
		opts.ArcSegments = def.ArcSegments
	}
	if opts.MeshCells <= 0 {
		opts.MeshCells = def.MeshCells
	}
	return &Model{opts: opts}
}

// Outstanding returns the number of point arrays handed out by EdgePoints
// and not yet released.
func (m *Model) Outstanding() int64 {
	return m.outstanding.Load()
}

// EnsureFaceted tessellates every face and edge below e. Already faceted
// entities are left untouched.
func (m *Model) EnsureFaceted(e kernel.Entity) error {
	faces, err := m.CollectFaces(e)
	if err != nil {
		return err
	}
	for _, kf := range faces {
		f := kf.(*Face)
		if f.FailFaceting {
			return fmt.Errorf("%w: face %q", ErrFacetingFailed, f.Name())
		}
		if f.faceted {
			continue
		}
		if f.solid != nil {
			f.mesh = m.facetImplicit(f)
		} else {
			f.mesh = facetPlanar(f.loop)
		}
		f.faceted = true
		if f.mesh == nil {
			logger.Debug("face produced no tessellation", zap.String("face", f.Name()))
		}
	}

	edges, err := m.CollectEdges(e)
	if err != nil {
		return err
	}
	for _, ke := range edges {
		edge := ke.(*Edge)
		if edge.points == nil && !edge.Broken {
			edge.points = m.facetEdge(edge)
		}
	}
	return nil
}

// CollectFaces returns the faces reachable from e in depth-first order,
// without duplicates.
func (m *Model) CollectFaces(e kernel.Entity) ([]kernel.Face, error) {
	var out []kernel.Face
	seen := make(map[*Face]bool)
	var walk func(kernel.Entity) error
	walk = func(e kernel.Entity) error {
		switch v := e.(type) {
		case *Assembly:
			for _, c := range v.children {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *Body:
			for _, f := range v.faces {
				if !seen[f] {
					seen[f] = true
					out = append(out, f)
				}
			}
		case *Face:
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		case *Wire, *Edge:
		default:
			return ErrForeignEntity
		}
		return nil
	}
	if err := walk(e); err != nil {
		return nil, err
	}
	return out, nil
}

// CollectEdges returns the edges reachable from e in depth-first order,
// without duplicates. Faces contribute their boundary edges.
func (m *Model) CollectEdges(e kernel.Entity) ([]kernel.Edge, error) {
	var out []kernel.Edge
	seen := make(map[*Edge]bool)
	add := func(edges []*Edge) {
		for _, ed := range edges {
			if !seen[ed] {
				seen[ed] = true
				out = append(out, ed)
			}
		}
	}
	var walk func(kernel.Entity) error
	walk = func(e kernel.Entity) error {
		switch v := e.(type) {
		case *Assembly:
			for _, c := range v.children {
				if err := walk(c); err != nil {
					return err
				}
			}
		case *Body:
			add(v.edges)
		case *Wire:
			add(v.edges)
		case *Face:
			add(v.boundary)
		case *Edge:
			add([]*Edge{v})
		default:
			return ErrForeignEntity
		}
		return nil
	}
	if err := walk(e); err != nil {
		return nil, err
	}
	return out, nil
}

// FaceMesh returns the tessellation attached to f.
func (m *Model) FaceMesh(f kernel.Face) (kernel.FaceMesh, bool) {
	face, ok := f.(*Face)
	if !ok || face.mesh == nil {
		return nil, false
	}
	return face.mesh, true
}

// EdgePoints returns a copy of the edge polyline. The caller must Release it.
func (m *Model) EdgePoints(e kernel.Edge) (kernel.PointArray, error) {
	edge, ok := e.(*Edge)
	if !ok {
		return nil, ErrForeignEntity
	}
	if edge.Broken || len(edge.points) < 2 {
		return nil, ErrNotFaceted
	}
	m.outstanding.Add(1)
	return &pointArray{
		points: append([]r3.Vec(nil), edge.points...),
		model:  m,
	}, nil
}

// OwnerTransform returns the accumulated placement of e.
func (m *Model) OwnerTransform(e kernel.Entity) kernel.Transform {
	p, ok := e.(placed)
	if !ok {
		return kernel.Transform{}
	}
	return p.node().world()
}

// Color returns the color attribute attached directly to e.
func (m *Model) Color(e kernel.Entity) (kernel.RGB, error) {
	p, ok := e.(placed)
	if !ok {
		return kernel.RGB{}, ErrForeignEntity
	}
	a, found := kernel.Find(p.node().attrs, kernel.AttrColor)
	if !found {
		return kernel.RGB{}, kernel.ErrNoAttribute
	}
	return a.Color, nil
}

type pointArray struct {
	points []r3.Vec
	model  *Model
}

func (p *pointArray) Points() []r3.Vec { return p.points }

func (p *pointArray) Release() {
	if p.points == nil {
		return
	}
	p.points = nil
	p.model.outstanding.Add(-1)
}
