package display

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/brepview/internal/kernel"
)

// FaceBuffers receives one face's tessellation. Triangle indices are local
// to Coords. The slices are reused between calls.
type FaceBuffers struct {
	Coords    []float32
	Normals   []float32
	Triangles []uint32
}

func (b *FaceBuffers) reset() {
	b.Coords = b.Coords[:0]
	b.Normals = b.Normals[:0]
	b.Triangles = b.Triangles[:0]
}

// NumVertices returns the number of points in Coords.
func (b *FaceBuffers) NumVertices() int { return len(b.Coords) / 3 }

// FaceExtractor reads a faceted face into FaceBuffers in world coordinates.
type FaceExtractor struct {
	Modeler kernel.Modeler
}

// Extract fills out with the tessellation of f. It returns false and leaves
// out empty when f carries no usable tessellation.
//
// Normals are always produced: a tessellation without normals gets its
// area-weighted face normal on every vertex.
func (x FaceExtractor) Extract(f kernel.Face, out *FaceBuffers) bool {
	out.reset()

	mesh, ok := x.Modeler.FaceMesh(f)
	if !ok || mesh == nil {
		return false
	}
	nv, npoly := mesh.NumVertices(), mesh.NumPolygons()
	if nv <= 0 {
		return false
	}

	out.Coords = grow(out.Coords, 3*nv)
	mesh.SerializePositions(out.Coords)

	out.Triangles = growIndices(out.Triangles, 3*npoly)
	ntri := mesh.SerializeTriangles(out.Triangles)
	if ntri < 0 {
		ntri = 0
	}
	if 3*ntri < len(out.Triangles) {
		out.Triangles = out.Triangles[:3*ntri]
	}
	for _, idx := range out.Triangles {
		if int(idx) >= nv {
			out.reset()
			return false
		}
	}

	xf := x.Modeler.OwnerTransform(f)
	if !xf.IsIdentity() {
		transformPoints(xf, out.Coords)
	}

	if mesh.HasNormals() {
		out.Normals = grow(out.Normals, 3*nv)
		mesh.SerializeNormals(out.Normals)
		if !xf.IsIdentity() {
			transformNormals(xf, out.Normals)
		}
	} else {
		n := faceNormal(out.Coords, out.Triangles)
		out.Normals = grow(out.Normals, 3*nv)
		for i := 0; i < nv; i++ {
			out.Normals[3*i], out.Normals[3*i+1], out.Normals[3*i+2] = n[0], n[1], n[2]
		}
	}
	return true
}

func grow(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	return s[:n]
}

func growIndices(s []uint32, n int) []uint32 {
	if cap(s) < n {
		return make([]uint32, n)
	}
	return s[:n]
}

func transformPoints(xf kernel.Transform, coords []float32) {
	for i := 0; i+2 < len(coords); i += 3 {
		p := xf.Apply(r3.Vec{X: float64(coords[i]), Y: float64(coords[i+1]), Z: float64(coords[i+2])})
		coords[i], coords[i+1], coords[i+2] = float32(p.X), float32(p.Y), float32(p.Z)
	}
}

func transformNormals(xf kernel.Transform, normals []float32) {
	for i := 0; i+2 < len(normals); i += 3 {
		n := xf.ApplyDirection(r3.Vec{X: float64(normals[i]), Y: float64(normals[i+1]), Z: float64(normals[i+2])})
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		normals[i], normals[i+1], normals[i+2] = float32(n.X), float32(n.Y), float32(n.Z)
	}
}

// faceNormal sums triangle cross products so larger triangles weigh more.
// A face with no area gets +Z.
func faceNormal(coords []float32, tris []uint32) [3]float32 {
	var sx, sy, sz float32
	for t := 0; t+2 < len(tris); t += 3 {
		a, b, c := 3*tris[t], 3*tris[t+1], 3*tris[t+2]
		ux, uy, uz := coords[b]-coords[a], coords[b+1]-coords[a+1], coords[b+2]-coords[a+2]
		vx, vy, vz := coords[c]-coords[a], coords[c+1]-coords[a+1], coords[c+2]-coords[a+2]
		sx += uy*vz - uz*vy
		sy += uz*vx - ux*vz
		sz += ux*vy - uy*vx
	}
	l := math32.Sqrt(sx*sx + sy*sy + sz*sz)
	if l == 0 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{sx / l, sy / l, sz / l}
}
