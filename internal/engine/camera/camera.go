// Package camera provides the trackball camera used by the viewer.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/brepview/pkg/math"
)

// DragMode selects what a mouse drag does.
type DragMode int

const (
	DragNone DragMode = iota
	DragRotate
	DragScale
	DragTranslate
)

// Settings tune the trackball response.
type Settings struct {
	FramingFactor     float32 // bounding radius margin
	RotateSensitivity float32 // radians per pixel
	PanSensitivity    float32 // view units per view unit of cursor motion
	ZoomStep          float32 // scale per wheel notch
}

// DefaultSettings returns the stock trackball response.
func DefaultSettings() Settings {
	return Settings{
		FramingFactor:     1.5,
		RotateSensitivity: 0.01,
		PanSensitivity:    1.0,
		ZoomStep:          1.1,
	}
}

// Trackball is an orthographic camera that orbits, scales and pans a model
// framed by a sphere around the origin.
//
// Input handlers accumulate deltas and raise the gating flags. The render
// loop calls NeedsRedraw and, when it returns true, Update to fold the
// pending deltas into the model-view matrix.
type Trackball struct {
	Settings Settings

	Radius float32   // framing sphere radius
	Model  math.Mat4 // model-view matrix

	width, height int

	// Pending input, in pixels (rotate, translate) or as a factor (scale).
	rotX, rotY     float32
	scale          float32
	transX, transY float32

	drag         DragMode
	lastX, lastY float32

	RotateActive    bool
	ScaleActive     bool
	TranslateActive bool
	RedrawOnce      bool
}

// New creates a trackball framing a model whose largest absolute
// coordinate is bounds.
func New(bounds float32, s Settings) *Trackball {
	t := &Trackball{Settings: s, width: 1, height: 1}
	t.Frame(bounds)
	return t
}

// Frame sets the framing radius to FramingFactor times bounds and resets
// the view. A zero radius falls back to 1.
func (t *Trackball) Frame(bounds float32) {
	t.Radius = t.Settings.FramingFactor * math32.Abs(bounds)
	if t.Radius == 0 {
		t.Radius = 1
	}
	t.Reset()
}

// Reset restores the initial orientation and scale.
func (t *Trackball) Reset() {
	t.Model = math.Identity()
	t.rotX, t.rotY, t.transX, t.transY = 0, 0, 0, 0
	t.scale = 1
	t.RedrawOnce = true
}

// Resize records the framebuffer size.
func (t *Trackball) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	t.width, t.height = width, height
	t.RedrawOnce = true
}

// Aspect returns the framebuffer width over height.
func (t *Trackball) Aspect() float32 {
	return float32(t.width) / float32(t.height)
}

// viewExtent returns the half width and half height of the orthographic
// volume. The shorter side always spans the framing sphere.
func (t *Trackball) viewExtent() (float32, float32) {
	a := t.Aspect()
	if a >= 1 {
		return t.Radius * a, t.Radius
	}
	return t.Radius, t.Radius / a
}

// Projection returns the orthographic projection for the current size.
func (t *Trackball) Projection() math.Mat4 {
	hw, hh := t.viewExtent()
	return math.Ortho(-hw, hw, -hh, hh, -t.Near(), t.Near())
}

// ModelView returns the current model-view matrix.
func (t *Trackball) ModelView() math.Mat4 {
	return t.Model
}

// viewAxes returns the view's right and up directions in model space.
func (t *Trackball) viewAxes() (right, up math.Vec3) {
	return t.Model.Row(0).Normalize(), t.Model.Row(1).Normalize()
}

// Rotate turns the model about the view's up axis by a and about its right
// axis by b, both in radians, as a single rotation about the combined axis.
func (t *Trackball) Rotate(a, b float32) {
	angle := math32.Sqrt(a*a + b*b)
	if angle == 0 {
		return
	}
	right, up := t.viewAxes()
	axis := up.Scale(a).Add(right.Scale(b)).Normalize()
	t.Model = t.Model.Mul(math.RotateAxis(axis, angle))
}

// Scale multiplies the model scale by f.
func (t *Trackball) Scale(f float32) {
	if f <= 0 {
		return
	}
	t.Model = t.Model.Mul(math.UniformScale(f))
}

// Translate moves the model by dx, dy view units along the view's right and
// up axes, independent of the current scale.
func (t *Trackball) Translate(dx, dy float32) {
	s := t.Model.RowNorm()
	if s == 0 {
		return
	}
	right, up := t.viewAxes()
	v := right.Scale(dx / s).Add(up.Scale(dy / s))
	t.Model = t.Model.Mul(math.Translate(v))
}

// PixelsToView converts a cursor motion in pixels to view units.
func (t *Trackball) PixelsToView(dx, dy float32) (float32, float32) {
	hw, hh := t.viewExtent()
	return dx * 2 * hw / float32(t.width), -dy * 2 * hh / float32(t.height)
}

// ViewPoint converts a cursor position in pixels to view coordinates.
func (t *Trackball) ViewPoint(x, y float32) (float32, float32) {
	return t.PixelsToView(x-float32(t.width)/2, y-float32(t.height)/2)
}

// Near returns the view space depth of the near clipping plane.
func (t *Trackball) Near() float32 {
	return 10 * t.Radius
}

// BeginDrag starts a drag at cursor position x, y.
func (t *Trackball) BeginDrag(mode DragMode, x, y float32) {
	t.drag = mode
	t.lastX, t.lastY = x, y
	switch mode {
	case DragRotate:
		t.RotateActive = true
	case DragScale:
		t.ScaleActive = true
	case DragTranslate:
		t.TranslateActive = true
	}
}

// Motion records cursor movement to x, y. It is a no-op outside a drag.
func (t *Trackball) Motion(x, y float32) {
	dx, dy := x-t.lastX, y-t.lastY
	t.lastX, t.lastY = x, y
	switch t.drag {
	case DragRotate:
		t.rotX += dx
		t.rotY += dy
	case DragScale:
		t.scale *= math32.Pow(t.Settings.ZoomStep, -dy/20)
	case DragTranslate:
		t.transX += dx
		t.transY += dy
	}
}

// EndDrag ends a drag of the given mode.
func (t *Trackball) EndDrag(mode DragMode) {
	if t.drag == mode {
		t.drag = DragNone
	}
	switch mode {
	case DragRotate:
		t.RotateActive = false
	case DragScale:
		t.ScaleActive = false
	case DragTranslate:
		t.TranslateActive = false
	}
	// Show the final position of the drag.
	t.RedrawOnce = true
}

// Dragging returns the active drag mode.
func (t *Trackball) Dragging() DragMode { return t.drag }

// Wheel records a scroll of notches; positive zooms in.
func (t *Trackball) Wheel(notches float32) {
	t.scale *= math32.Pow(t.Settings.ZoomStep, notches)
	t.RedrawOnce = true
}

// NeedsRedraw reports whether a frame should be drawn and clears the
// one-shot flag. Continuous flags stay set until their drag ends.
func (t *Trackball) NeedsRedraw() bool {
	redraw := t.RotateActive || t.ScaleActive || t.TranslateActive || t.RedrawOnce
	t.RedrawOnce = false
	return redraw
}

// Update folds pending input into the model-view matrix.
func (t *Trackball) Update() {
	if t.rotX != 0 || t.rotY != 0 {
		k := t.Settings.RotateSensitivity / 2
		t.Rotate(t.rotX*k, t.rotY*k)
		t.rotX, t.rotY = 0, 0
	}
	if t.scale != 1 {
		t.Scale(t.scale)
		t.scale = 1
	}
	if t.transX != 0 || t.transY != 0 {
		dx, dy := t.PixelsToView(t.transX, t.transY)
		t.Translate(dx*t.Settings.PanSensitivity, dy*t.Settings.PanSensitivity)
		t.transX, t.transY = 0, 0
	}
}
