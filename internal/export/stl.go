// Package export writes built display data to mesh files.
package export

import (
	"errors"
	"io"

	"github.com/hschendel/stl"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/kernel"
)

// ErrNoTriangles is returned when the data holds no faces to export.
var ErrNoTriangles = errors.New("export: no triangles")

// Solid converts the face triangles of d into an STL solid. Edges are not
// exported. Face colors go in the attribute word using the VisCAM layout
// (bit 15 set, 5 bits per channel).
func Solid(d *display.Data, name string) (*stl.Solid, error) {
	if d == nil || len(d.Triangles) == 0 {
		return nil, ErrNoTriangles
	}
	s := &stl.Solid{
		Name:      name,
		Triangles: make([]stl.Triangle, 0, len(d.Triangles)/3),
	}
	for _, f := range d.Faces {
		attr := colorAttribute(f.Color)
		idx := d.Triangles[f.BaseIndex : f.BaseIndex+f.NumIndices]
		for i := 0; i+2 < len(idx); i += 3 {
			var t stl.Triangle
			for k := range 3 {
				t.Vertices[k] = vertex(d.FaceCoords, idx[i+k])
			}
			t.Attributes = attr
			s.Triangles = append(s.Triangles, t)
		}
	}
	s.RecalculateNormals()
	return s, nil
}

// WriteSTL writes d as a binary STL file.
func WriteSTL(path string, d *display.Data, name string) error {
	s, err := Solid(d, name)
	if err != nil {
		return err
	}
	return s.WriteFile(path)
}

// EncodeSTL writes d as binary STL to w.
func EncodeSTL(w io.Writer, d *display.Data, name string) error {
	s, err := Solid(d, name)
	if err != nil {
		return err
	}
	return s.WriteAll(w)
}

func vertex(coords []float32, i uint32) stl.Vec3 {
	o := int(i) * 3
	return stl.Vec3{coords[o], coords[o+1], coords[o+2]}
}

func colorAttribute(c kernel.RGB) uint16 {
	q := func(v float32) uint16 { return uint16(v*31 + 0.5) }
	return 1<<15 | q(c.B)<<10 | q(c.G)<<5 | q(c.R)
}
