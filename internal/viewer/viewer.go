// Package viewer runs the interactive display of a display.Data: one
// window, one trackball camera and one blocking event loop per viewer.
package viewer

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/engine/camera"
	"github.com/Faultbox/brepview/internal/engine/debug"
	"github.com/Faultbox/brepview/internal/engine/input"
	"github.com/Faultbox/brepview/internal/engine/picking"
	"github.com/Faultbox/brepview/internal/logger"
	"github.com/Faultbox/brepview/pkg/math"
)

var (
	// ErrNoDisplayData is returned by New when data is nil.
	ErrNoDisplayData = errors.New("viewer: no display data")
	// ErrSurface wraps a platform failure to create the rendering surface.
	ErrSurface = errors.New("viewer: cannot create rendering surface")
	// ErrAlreadyDisplayed is returned when Display runs a second time.
	ErrAlreadyDisplayed = errors.New("viewer: already displayed")
)

// State is the viewer lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateFramed
	StateRendering
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateFramed:
		return "framed"
	case StateRendering:
		return "rendering"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Surface is a window with a current rendering context.
type Surface interface {
	// WaitEvent blocks until the next event for this surface.
	WaitEvent() input.Event
	// ShouldClose reports whether a close was requested.
	ShouldClose() bool
	// RequestClose asks the surface to close. Safe from any goroutine.
	RequestClose()
	// Size returns the drawable size in pixels.
	Size() (width, height int)
	SwapBuffers()
	Close()
}

// Platform creates surfaces.
type Platform interface {
	Open(title string, width, height int) (Surface, error)
}

// PlatformFunc adapts a function to Platform.
type PlatformFunc func(title string, width, height int) (Surface, error)

// Open calls f.
func (f PlatformFunc) Open(title string, width, height int) (Surface, error) {
	return f(title, width, height)
}

// Painter draws display data on the current surface.
type Painter interface {
	Init(d *display.Data) error
	Resize(width, height int)
	Draw(projection, modelView math.Mat4)
	Capture() (image.Image, error)
	Close()
}

// Options configure a viewer window.
type Options struct {
	Title         string
	Width, Height int
	Camera        camera.Settings
	ScreenshotDir string
}

// DefaultOptions returns a 1024x768 window with the stock camera.
func DefaultOptions() Options {
	return Options{
		Title:  "BrepView",
		Width:  1024,
		Height: 768,
		Camera: camera.DefaultSettings(),
	}
}

// Viewer owns one display.Data for the lifetime of its window. The data
// must not be modified once handed to New.
type Viewer struct {
	data     *display.Data
	platform Platform
	painter  Painter
	opts     Options
	shots    *debug.ScreenshotCapture
	log      *zap.Logger

	state   atomic.Int32
	started atomic.Bool
	quit    atomic.Bool
	radius  float32 // fixed at framing

	mu      sync.Mutex
	surface Surface
	picked  int

	// Owned by the goroutine running Display once it starts.
	cam            *camera.Trackball
	pressX, pressY int
}

// clickSlop is how far in pixels a left press may travel and still count
// as a click.
const clickSlop = 2

// New creates a viewer for data and frames it. The viewer is Framed on
// return.
func New(data *display.Data, platform Platform, painter Painter, opts Options) (*Viewer, error) {
	if data == nil {
		return nil, ErrNoDisplayData
	}
	cam := camera.New(data.Bounds(), opts.Camera)
	v := &Viewer{
		data:     data,
		platform: platform,
		painter:  painter,
		opts:     opts,
		shots:    debug.NewScreenshotCapture(opts.ScreenshotDir, "brepview"),
		log:      logger.Named("viewer"),
		picked:   -1,
		cam:      cam,
		radius:   cam.Radius,
	}
	v.state.Store(int32(StateFramed))
	return v, nil
}

// State returns the current lifecycle state.
func (v *Viewer) State() State { return State(v.state.Load()) }

// Radius returns the framing radius, or 0 for a viewer not built by New.
// Safe from any goroutine.
func (v *Viewer) Radius() float32 {
	return v.radius
}

// RequestClose asks a running viewer to close. Safe from any goroutine.
func (v *Viewer) RequestClose() {
	v.quit.Store(true)
	v.mu.Lock()
	s := v.surface
	v.mu.Unlock()
	if s != nil {
		s.RequestClose()
	}
}

// Display opens the window and runs the event loop until it is closed. It
// must run on a goroutine locked to its OS thread. A surface failure is
// reported once as ErrSurface; there is no retry.
func (v *Viewer) Display() error {
	if v.cam == nil {
		return ErrNoDisplayData
	}
	if !v.started.CompareAndSwap(false, true) {
		return ErrAlreadyDisplayed
	}
	defer v.state.Store(int32(StateClosed))

	s, err := v.platform.Open(v.opts.Title, v.opts.Width, v.opts.Height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}
	v.mu.Lock()
	v.surface = s
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.surface = nil
		v.mu.Unlock()
		s.Close()
	}()

	w, h := s.Size()
	v.cam.Resize(w, h)

	if err := v.painter.Init(v.data); err != nil {
		return fmt.Errorf("viewer: init painter: %w", err)
	}
	defer v.painter.Close()
	v.painter.Resize(w, h)

	v.log.Info("viewer framed",
		zap.Float32("radius", v.cam.Radius),
		zap.Int("faces", len(v.data.Faces)),
		zap.Int("edges", len(v.data.Edges)),
		zap.Int("width", w),
		zap.Int("height", h))

	v.state.Store(int32(StateRendering))
	v.loop(s)
	v.log.Info("viewer closed")
	return nil
}

func (v *Viewer) loop(s Surface) {
	for !v.quit.Load() && !s.ShouldClose() {
		if v.cam.NeedsRedraw() {
			v.cam.Update()
			v.painter.Draw(v.cam.Projection(), v.cam.ModelView())
			s.SwapBuffers()
		}
		v.handle(s.WaitEvent())
	}
}

func (v *Viewer) handle(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		v.quit.Store(true)

	case input.EventWindowResize:
		v.cam.Resize(ev.Width, ev.Height)
		v.painter.Resize(ev.Width, ev.Height)

	case input.EventExpose:
		v.cam.RedrawOnce = true

	case input.EventKeyDown:
		switch ev.Key {
		case input.KeyEscape:
			v.quit.Store(true)
		case input.KeyR:
			v.cam.Reset()
		case input.KeyS:
			v.screenshot()
		}

	case input.EventMouseDown:
		if ev.Button == input.ButtonLeft {
			v.pressX, v.pressY = ev.MouseX, ev.MouseY
		}
		if mode := dragMode(ev.Button); mode != camera.DragNone {
			v.cam.BeginDrag(mode, float32(ev.MouseX), float32(ev.MouseY))
		}

	case input.EventMouseUp:
		if mode := dragMode(ev.Button); mode != camera.DragNone {
			v.cam.EndDrag(mode)
		}
		if ev.Button == input.ButtonLeft && isClick(ev.MouseX-v.pressX, ev.MouseY-v.pressY) {
			v.pick(ev.MouseX, ev.MouseY)
		}

	case input.EventMouseMove:
		v.cam.Motion(float32(ev.MouseX), float32(ev.MouseY))

	case input.EventWheel:
		v.cam.Wheel(ev.Wheel)
	}
}

func dragMode(b input.Button) camera.DragMode {
	switch b {
	case input.ButtonLeft:
		return camera.DragRotate
	case input.ButtonRight:
		return camera.DragTranslate
	case input.ButtonMiddle:
		return camera.DragScale
	}
	return camera.DragNone
}

func isClick(dx, dy int) bool {
	return dx >= -clickSlop && dx <= clickSlop && dy >= -clickSlop && dy <= clickSlop
}

// Picked returns the face record index of the last click, or false if the
// last click hit nothing.
func (v *Viewer) Picked() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.picked, v.picked >= 0
}

func (v *Viewer) pick(x, y int) {
	vx, vy := v.cam.ViewPoint(float32(x), float32(y))
	hit, ok := picking.PickFace(v.data, v.cam.ModelView(), picking.OrthoRay(vx, vy, v.cam.Near()))

	v.mu.Lock()
	v.picked = -1
	if ok {
		v.picked = hit.Face
	}
	v.mu.Unlock()

	if !ok {
		v.log.Debug("nothing under cursor", zap.Int("x", x), zap.Int("y", y))
		return
	}
	f := v.data.Faces[hit.Face]
	v.log.Info("face picked",
		zap.Int("face", hit.Face),
		zap.Int("triangles", f.NumTriangles()),
		zap.Float32s("color", []float32{f.Color.R, f.Color.G, f.Color.B}),
		zap.Float32("depth", hit.Point.Z))
}

func (v *Viewer) screenshot() {
	img, err := v.painter.Capture()
	if err != nil {
		v.log.Warn("screenshot capture failed", zap.Error(err))
		return
	}
	path, err := v.shots.CaptureFromImage(img)
	if err != nil {
		v.log.Warn("screenshot save failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}
