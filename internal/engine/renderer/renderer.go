// Package renderer draws a display.Data with OpenGL 4.1 core.
package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/engine/debug"
	"github.com/Faultbox/brepview/internal/engine/framebuffer"
	"github.com/Faultbox/brepview/internal/engine/shader"
	"github.com/Faultbox/brepview/internal/logger"
	"github.com/Faultbox/brepview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Background [3]float32
	LightDir   [3]float32 // towards the light, view space
	Ambient    float32
	Diffuse    float32
}

// Renderer uploads one display.Data and draws it record by record.
// All methods must run on the thread owning the GL context.
type Renderer struct {
	config Config

	program *shader.Program

	faceVAO   uint32
	positions uint32
	normals   uint32
	indices   uint32

	edgeVAO uint32
	edgeVBO uint32

	data          *display.Data
	width, height int

	// Last matrices passed to Draw, replayed offscreen by Capture.
	projection, modelView math.Mat4
	drawn                 bool
	capture               *framebuffer.Framebuffer
}

// New creates a renderer. Nothing touches OpenGL before Init.
func New(cfg Config) *Renderer {
	return &Renderer{config: cfg}
}

// Init loads GL functions for the current context, compiles the shader and
// uploads d.
func (r *Renderer) Init(d *display.Data) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	bg := r.config.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	var err error
	r.program, err = shader.New(vertexShader, fragmentShader)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}

	r.data = d
	r.uploadFaces(d)
	r.uploadEdges(d)

	logger.Debug("display uploaded",
		zap.Int("vertices", d.NumVertices()),
		zap.Int("indices", len(d.Triangles)),
		zap.Int("edge_points", d.NumEdgePoints()),
	)
	return nil
}

func (r *Renderer) uploadFaces(d *display.Data) {
	gl.GenVertexArrays(1, &r.faceVAO)
	gl.BindVertexArray(r.faceVAO)

	r.positions = arrayBuffer(d.FaceCoords)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	r.normals = arrayBuffer(d.NormalCoords)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &r.indices)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.indices)
	if len(d.Triangles) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Triangles)*4, gl.Ptr(d.Triangles), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *Renderer) uploadEdges(d *display.Data) {
	gl.GenVertexArrays(1, &r.edgeVAO)
	gl.BindVertexArray(r.edgeVAO)

	r.edgeVBO = arrayBuffer(d.EdgeCoords)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	// Edges carry no normals; attribute 1 stays at its constant default.

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// arrayBuffer creates a bound ARRAY_BUFFER holding data.
func arrayBuffer(data []float32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return vbo
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Draw renders faces lit and flat colored, then edges unlit.
func (r *Renderer) Draw(projection, modelView math.Mat4) {
	r.projection, r.modelView, r.drawn = projection, modelView, true
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	p.SetMat4("uProjection", projection)
	p.SetMat4("uModelView", modelView)
	l := r.config.LightDir
	p.SetVec3("uLightDir", l[0], l[1], l[2])
	p.SetFloat("uAmbient", r.config.Ambient)
	p.SetFloat("uDiffuse", r.config.Diffuse)

	// Push faces back so coincident edges win the depth test.
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(1, 1)
	p.SetBool("uLighting", true)
	gl.BindVertexArray(r.faceVAO)
	for _, f := range r.data.Faces {
		if f.NumIndices == 0 {
			continue
		}
		p.SetVec3("uColor", f.Color.R, f.Color.G, f.Color.B)
		gl.DrawElements(gl.TRIANGLES, int32(f.NumIndices), gl.UNSIGNED_INT, gl.PtrOffset(f.BaseIndex*4))
	}
	gl.Disable(gl.POLYGON_OFFSET_FILL)

	p.SetBool("uLighting", false)
	gl.BindVertexArray(r.edgeVAO)
	for _, e := range r.data.Edges {
		if e.NumPoints() < 2 {
			continue
		}
		p.SetVec3("uColor", e.Color.R, e.Color.G, e.Color.B)
		gl.DrawArrays(gl.LINE_STRIP, int32(e.BaseVertex.Point()), int32(e.NumPoints()))
	}

	gl.BindVertexArray(0)
}

// Capture redraws the last frame into an offscreen framebuffer and reads
// it back. The window's back buffer is undefined after a swap.
func (r *Renderer) Capture() (image.Image, error) {
	if r.width <= 0 || r.height <= 0 {
		return nil, errors.New("renderer: no framebuffer size")
	}
	if !r.drawn {
		return nil, errors.New("renderer: nothing drawn yet")
	}
	if r.capture == nil {
		fb, err := framebuffer.New(r.width, r.height)
		if err != nil {
			return nil, err
		}
		r.capture = fb
	}
	r.capture.Resize(r.width, r.height)

	restore := r.capture.BindWithViewport()
	r.Draw(r.projection, r.modelView)
	pixels := r.capture.ReadPixels()
	restore()

	w, h := r.capture.Size()
	return debug.ImageFromPixels(pixels, w, h)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, vao := range []*uint32{&r.faceVAO, &r.edgeVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.positions, &r.normals, &r.indices, &r.edgeVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
	if r.capture != nil {
		r.capture.Destroy()
		r.capture = nil
	}
	if r.program != nil {
		r.program.Delete()
	}
}

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uProjection;
uniform mat4 uModelView;

out vec3 vNormal;

void main() {
	vNormal = mat3(uModelView) * aNormal;
	gl_Position = uProjection * uModelView * vec4(aPos, 1.0);
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;

uniform vec3 uColor;
uniform vec3 uLightDir;
uniform float uAmbient;
uniform float uDiffuse;
uniform bool uLighting;

out vec4 FragColor;

void main() {
	if (!uLighting) {
		FragColor = vec4(uColor, 1.0);
		return;
	}
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	float diff = max(dot(n, normalize(uLightDir)), 0.0);
	FragColor = vec4(uColor * (uAmbient + uDiffuse * diff), 1.0);
}
`
