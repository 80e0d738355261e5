// Package scene loads YAML scene descriptions into in-memory kernel
// entities.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/brepview/internal/kernel"
	"github.com/Faultbox/brepview/internal/kernel/memkernel"
)

// Vec3 is an [x, y, z] triple.
type Vec3 [3]float64

func (v Vec3) r3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Color is an [r, g, b] triple in 0..1.
type Color []float32

// Rotation is an axis and an angle in degrees.
type Rotation struct {
	Axis    Vec3    `yaml:"axis"`
	Degrees float64 `yaml:"degrees"`
}

// Entity describes one scene node. Which fields apply depends on Type.
type Entity struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`

	Size   Vec3    `yaml:"size"`   // box, rounded_box
	Round  float64 `yaml:"round"`  // rounded_box
	Radius float64 `yaml:"radius"` // sphere, cylinder, arc
	Height float64 `yaml:"height"` // cylinder
	Points []Vec3  `yaml:"points"` // plate, polyline
	Center Vec3    `yaml:"center"` // arc
	Start  float64 `yaml:"start"`  // arc, degrees
	Sweep  float64 `yaml:"sweep"`  // arc, degrees

	Children []Entity `yaml:"children"` // assembly

	Color     Color     `yaml:"color"`
	EdgeColor Color     `yaml:"edge_color"`
	Translate *Vec3     `yaml:"translate"`
	Rotate    *Rotation `yaml:"rotate"`
	Scale     float64   `yaml:"scale"`
}

// Scene is a list of top level entities.
type Scene struct {
	Entities []Entity `yaml:"entities"`
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if len(s.Entities) == 0 {
		return nil, errors.New("scene: no entities")
	}
	return &s, nil
}

// Build creates the kernel entities of the scene, in file order.
func (s *Scene) Build() ([]kernel.Entity, error) {
	out := make([]kernel.Entity, 0, len(s.Entities))
	for i := range s.Entities {
		e, err := s.Entities[i].build(fmt.Sprintf("entities[%d]", i), nil)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

type transformable interface {
	kernel.Entity
	SetTransform(kernel.Transform)
	SetName(string)
}

// build creates the entity. inherited is the nearest ancestor color, used
// when the entity sets none.
func (e *Entity) build(path string, inherited Color) (kernel.Entity, error) {
	color := e.Color
	if color == nil {
		color = inherited
	}
	face, err := parseColor(color)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: color: %w", path, err)
	}
	edge, err := parseColor(e.EdgeColor)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: edge_color: %w", path, err)
	}

	var ent transformable
	switch e.Type {
	case "box":
		ent, err = memkernel.NewBox(e.Size.r3())
	case "rounded_box":
		ent, err = memkernel.RoundedBox(e.Size.r3(), e.Round)
	case "sphere":
		ent, err = memkernel.Sphere(e.Radius)
	case "cylinder":
		ent, err = memkernel.Cylinder(e.Height, e.Radius)
	case "plate":
		pts := make([]r3.Vec, len(e.Points))
		for i, p := range e.Points {
			pts[i] = p.r3()
		}
		ent = memkernel.NewPlate(pts)
	case "polyline":
		pts := make([]r3.Vec, len(e.Points))
		for i, p := range e.Points {
			pts[i] = p.r3()
		}
		ent, err = memkernel.NewPolyline(pts)
	case "arc":
		ent, err = memkernel.NewArc(e.Center.r3(), e.Radius, radians(e.Start), radians(e.Sweep))
	case "assembly":
		a, aerr := e.buildAssembly(path, color)
		if aerr != nil {
			return nil, aerr
		}
		ent = a
	case "":
		return nil, fmt.Errorf("scene: %s: missing type", path)
	default:
		return nil, fmt.Errorf("scene: %s: unknown type %q", path, e.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}

	if e.Name != "" {
		ent.SetName(e.Name)
	}
	ent.SetTransform(e.transform())

	switch v := ent.(type) {
	case *memkernel.Body:
		if face != nil {
			v.SetFaceColor(*face)
		}
		if edge != nil {
			v.SetEdgeColor(*edge)
		}
	case *memkernel.Wire:
		// A wire has no faces; its color is the edge color.
		if edge == nil {
			edge = face
		}
		if edge != nil {
			v.SetEdgeColor(*edge)
		}
	}
	return ent, nil
}

func (e *Entity) buildAssembly(path string, color Color) (*memkernel.Assembly, error) {
	if len(e.Children) == 0 {
		return nil, fmt.Errorf("scene: %s: assembly without children", path)
	}
	children := make([]kernel.Entity, 0, len(e.Children))
	for i := range e.Children {
		c, err := e.Children[i].build(fmt.Sprintf("%s.children[%d]", path, i), color)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	a, err := memkernel.NewAssembly(children...)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return a, nil
}

// transform returns translate * rotate * scale.
func (e *Entity) transform() kernel.Transform {
	var t kernel.Transform
	if e.Translate != nil {
		t = kernel.Translation(e.Translate.r3())
	}
	if e.Rotate != nil && e.Rotate.Degrees != 0 {
		t = t.Mul(kernel.Rotation(e.Rotate.Axis.r3(), radians(e.Rotate.Degrees)))
	}
	if e.Scale != 0 && e.Scale != 1 {
		t = t.Mul(kernel.Scaling(e.Scale))
	}
	return t
}

func parseColor(c Color) (*kernel.RGB, error) {
	if c == nil {
		return nil, nil
	}
	rgb, ok := kernel.RGBFromSlice(c)
	if !ok {
		return nil, fmt.Errorf("want [r, g, b], got %d values", len(c))
	}
	return &rgb, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
