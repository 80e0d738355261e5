// Package memkernel is an in-memory B-rep kernel implementing
// kernel.Modeler. Bodies are built from planar convex faces or implicit
// solids (deadsy/sdfx); assemblies place bodies with affine transforms.
package memkernel

import (
	"errors"
	"fmt"

	sdf "github.com/deadsy/sdfx/sdf"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/brepview/internal/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Face = (*Face)(nil)
	_ kernel.Edge = (*Edge)(nil)
)

// ErrCycle is returned when adding an entity would make it its own ancestor.
var ErrCycle = errors.New("memkernel: assembly cycle")

// base carries placement, ownership and attributes for every entity.
type base struct {
	parent *base
	local  kernel.Transform
	attrs  []kernel.Attribute
}

func (b *base) node() *base { return b }

// world returns the product of every ancestor's local transform and b's own.
func (b *base) world() kernel.Transform {
	if b.parent == nil {
		return b.local
	}
	return b.parent.world().Mul(b.local)
}

func (b *base) setAttr(a kernel.Attribute) {
	for i := range b.attrs {
		if b.attrs[i].Kind == a.Kind {
			b.attrs[i] = a
			return
		}
	}
	b.attrs = append(b.attrs, a)
}

// Name returns the name attribute, or "".
func (b *base) Name() string {
	a, _ := kernel.Find(b.attrs, kernel.AttrName)
	return a.Name
}

// SetName attaches a name attribute.
func (b *base) SetName(name string) {
	b.setAttr(kernel.NameAttribute(name))
}

// Attributes returns the attributes attached to the entity.
func (b *base) Attributes() []kernel.Attribute {
	return b.attrs
}

type placed interface {
	kernel.Entity
	node() *base
}

// Assembly groups bodies, wires and other assemblies under one transform.
type Assembly struct {
	base
	children []kernel.Entity
}

// NewAssembly creates an assembly holding the given children.
func NewAssembly(children ...kernel.Entity) (*Assembly, error) {
	a := &Assembly{}
	if err := a.Add(children...); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Assembly) Kind() kernel.Kind { return kernel.KindAssembly }

// Add appends children, taking ownership of them.
func (a *Assembly) Add(children ...kernel.Entity) error {
	for _, c := range children {
		p, ok := c.(placed)
		if !ok {
			return fmt.Errorf("memkernel: cannot add %s to an assembly", c.Kind())
		}
		n := p.node()
		if n.parent != nil {
			return fmt.Errorf("memkernel: %s already has an owner", c.Kind())
		}
		for anc := &a.base; anc != nil; anc = anc.parent {
			if anc == n {
				return ErrCycle
			}
		}
		n.parent = &a.base
		a.children = append(a.children, c)
	}
	return nil
}

// Children returns the direct children.
func (a *Assembly) Children() []kernel.Entity { return a.children }

// SetTransform sets the assembly's placement relative to its owner.
func (a *Assembly) SetTransform(t kernel.Transform) { a.local = t }

// Body is a shell of faces and the edges bounding them.
type Body struct {
	base
	faces []*Face
	edges []*Edge
}

func (b *Body) Kind() kernel.Kind { return kernel.KindBody }

// Faces returns the body's faces.
func (b *Body) Faces() []*Face { return b.faces }

// Edges returns the body's edges.
func (b *Body) Edges() []*Edge { return b.edges }

// SetTransform sets the body's placement relative to its owner.
func (b *Body) SetTransform(t kernel.Transform) { b.local = t }

// SetFaceColor attaches a color attribute to every face.
func (b *Body) SetFaceColor(c kernel.RGB) {
	for _, f := range b.faces {
		f.SetColor(c)
	}
}

// SetEdgeColor attaches a color attribute to every edge.
func (b *Body) SetEdgeColor(c kernel.RGB) {
	for _, e := range b.edges {
		e.SetColor(c)
	}
}

func (b *Body) addFace(f *Face) {
	f.parent = &b.base
	b.faces = append(b.faces, f)
}

func (b *Body) addEdge(e *Edge) {
	e.parent = &b.base
	b.edges = append(b.edges, e)
}

// Wire is a set of edges with no faces.
type Wire struct {
	base
	edges []*Edge
}

func (w *Wire) Kind() kernel.Kind { return kernel.KindWire }

// Edges returns the wire's edges.
func (w *Wire) Edges() []*Edge { return w.edges }

// SetTransform sets the wire's placement relative to its owner.
func (w *Wire) SetTransform(t kernel.Transform) { w.local = t }

// SetEdgeColor attaches a color attribute to every edge.
func (w *Wire) SetEdgeColor(c kernel.RGB) {
	for _, e := range w.edges {
		e.SetColor(c)
	}
}

func (w *Wire) addEdge(e *Edge) {
	e.parent = &w.base
	w.edges = append(w.edges, e)
}

// Face is either a planar convex polygon or the boundary of an implicit solid.
type Face struct {
	base
	loop     []r3.Vec
	solid    sdf.SDF3
	boundary []*Edge

	faceted bool
	mesh    *faceMesh

	// FailFaceting makes EnsureFaceted report an error for this face.
	FailFaceting bool
}

func (f *Face) Kind() kernel.Kind { return kernel.KindFace }

// Boundary returns the edges bounding the face.
func (f *Face) Boundary() []*Edge { return f.boundary }

// SetColor attaches a color attribute.
func (f *Face) SetColor(c kernel.RGB) { f.setAttr(kernel.ColorAttribute(c)) }

type edgeShape int

const (
	shapeLine edgeShape = iota
	shapeArc
)

// Edge is a line segment or a circular arc in the XY plane of its owner.
type Edge struct {
	base
	shape  edgeShape
	a, b   r3.Vec
	center r3.Vec
	radius float64
	start  float64
	sweep  float64

	points []r3.Vec

	// Broken makes EdgePoints report a faceter failure for this edge.
	Broken bool
}

func (e *Edge) Kind() kernel.Kind { return kernel.KindEdge }

// SetColor attaches a color attribute.
func (e *Edge) SetColor(c kernel.RGB) { e.setAttr(kernel.ColorAttribute(c)) }
