package debug

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/engine/camera"
	"github.com/Faultbox/brepview/pkg/math"
)

// SnapshotOptions configure a headless render.
type SnapshotOptions struct {
	Width, Height int
	Supersample   int // render at this multiple, then downscale

	Background [3]float32
	Light      [3]float32 // direction towards the light, view space
	Ambient    float32
	Diffuse    float32

	Camera camera.Settings
	// Initial trackball rotation in radians about the view up and right axes.
	Yaw, Pitch float32
}

// DefaultSnapshotOptions returns an 800x600 isometric-ish view.
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{
		Width:       800,
		Height:      600,
		Supersample: 2,
		Background:  [3]float32{0.75, 0.8, 0.85},
		Light:       [3]float32{0.4, 0.6, 1},
		Ambient:     0.3,
		Diffuse:     0.7,
		Camera:      camera.DefaultSettings(),
		Yaw:         -0.6,
		Pitch:       0.5,
	}
}

// RenderSnapshot draws d in software with the viewer's framing: flat-lit
// faces in their record colors, then edge polylines.
func RenderSnapshot(d *display.Data, opts SnapshotOptions) (image.Image, error) {
	if d == nil {
		return nil, errors.New("debug: no display data")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("debug: snapshot size must be positive")
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	w, h := opts.Width*ss, opts.Height*ss

	cam := camera.New(d.Bounds(), opts.Camera)
	cam.Resize(w, h)
	cam.Rotate(opts.Yaw, opts.Pitch)
	mv := cam.ModelView()
	proj := toFauxMatrix(cam.Projection())

	ctx := fauxgl.NewContext(w, h)
	ctx.ClearColorBufferWith(fauxColor(opts.Background))
	ctx.ClearDepthBuffer()
	ctx.Cull = fauxgl.CullNone

	light := fauxgl.V(float64(opts.Light[0]), float64(opts.Light[1]), float64(opts.Light[2])).Normalize()
	shader := fauxgl.NewPhongShader(proj, light, fauxgl.V(0, 0, 1))
	shader.AmbientColor = fauxgl.Gray(float64(opts.Ambient))
	shader.DiffuseColor = fauxgl.Gray(float64(opts.Diffuse))
	shader.SpecularPower = 0
	ctx.Shader = shader

	for _, rec := range d.Faces {
		shader.ObjectColor = fauxgl.Color{R: float64(rec.Color.R), G: float64(rec.Color.G), B: float64(rec.Color.B), A: 1}
		tris := make([]*fauxgl.Triangle, 0, rec.NumTriangles())
		for i := rec.BaseIndex; i+2 < rec.BaseIndex+rec.NumIndices; i += 3 {
			tris = append(tris, fauxgl.NewTriangle(
				faceVertex(d, mv, d.Triangles[i]),
				faceVertex(d, mv, d.Triangles[i+1]),
				faceVertex(d, mv, d.Triangles[i+2]),
			))
		}
		ctx.DrawTriangles(tris)
	}

	for _, rec := range d.Edges {
		c := fauxgl.Color{R: float64(rec.Color.R), G: float64(rec.Color.G), B: float64(rec.Color.B), A: 1}
		ctx.Shader = fauxgl.NewSolidColorShader(proj, c)
		base := rec.BaseVertex.Point()
		lines := make([]*fauxgl.Line, 0, rec.NumPoints())
		for p := base; p+1 < base+rec.NumPoints(); p++ {
			lines = append(lines, fauxgl.NewLine(edgeVertex(d, mv, p), edgeVertex(d, mv, p+1)))
		}
		ctx.DrawLines(lines)
	}

	img := ctx.Image()
	if ss > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SaveSnapshot writes img as PNG.
func SaveSnapshot(path string, img image.Image) error {
	return fauxgl.SavePNG(path, img)
}

func faceVertex(d *display.Data, mv math.Mat4, idx uint32) fauxgl.Vertex {
	i := 3 * int(idx)
	p := mv.TransformPoint(math.Vec3{X: d.FaceCoords[i], Y: d.FaceCoords[i+1], Z: d.FaceCoords[i+2]})
	n := mv.TransformDirection(math.Vec3{X: d.NormalCoords[i], Y: d.NormalCoords[i+1], Z: d.NormalCoords[i+2]}).Normalize()
	return fauxgl.Vertex{
		Position: fauxgl.V(float64(p.X), float64(p.Y), float64(p.Z)),
		Normal:   fauxgl.V(float64(n.X), float64(n.Y), float64(n.Z)),
	}
}

func edgeVertex(d *display.Data, mv math.Mat4, point int) fauxgl.Vertex {
	i := 3 * point
	p := mv.TransformPoint(math.Vec3{X: d.EdgeCoords[i], Y: d.EdgeCoords[i+1], Z: d.EdgeCoords[i+2]})
	return fauxgl.Vertex{Position: fauxgl.V(float64(p.X), float64(p.Y), float64(p.Z))}
}

func fauxColor(c [3]float32) fauxgl.Color {
	return fauxgl.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1}
}

// toFauxMatrix converts a column-major OpenGL matrix to fauxgl's row fields.
func toFauxMatrix(m math.Mat4) fauxgl.Matrix {
	f := func(row, col int) float64 { return float64(m[col*4+row]) }
	return fauxgl.Matrix{
		X00: f(0, 0), X01: f(0, 1), X02: f(0, 2), X03: f(0, 3),
		X10: f(1, 0), X11: f(1, 1), X12: f(1, 2), X13: f(1, 3),
		X20: f(2, 0), X21: f(2, 1), X22: f(2, 2), X23: f(2, 3),
		X30: f(3, 0), X31: f(3, 1), X32: f(3, 2), X33: f(3, 3),
	}
}
