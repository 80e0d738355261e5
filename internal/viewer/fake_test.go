package viewer

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"github.com/Faultbox/brepview/internal/display"
	"github.com/Faultbox/brepview/internal/engine/input"
	"github.com/Faultbox/brepview/pkg/math"
)

// scriptSurface replays a fixed event queue and reports a close request
// once the script runs out.
type scriptSurface struct {
	queue  *input.Queue
	width  int
	height int

	swaps  int
	closed bool
}

func (s *scriptSurface) WaitEvent() input.Event {
	if e, ok := s.queue.Pop(); ok {
		return e
	}
	return input.Quit()
}

func (s *scriptSurface) ShouldClose() bool { return false }
func (s *scriptSurface) RequestClose()     {}
func (s *scriptSurface) Size() (int, int)  { return s.width, s.height }
func (s *scriptSurface) SwapBuffers()      { s.swaps++ }
func (s *scriptSurface) Close()            { s.closed = true }

// blockingSurface waits on a channel until RequestClose.
type blockingSurface struct {
	events chan input.Event
	closed atomic.Bool
}

func newBlockingSurface() *blockingSurface {
	return &blockingSurface{events: make(chan input.Event, 4)}
}

func (s *blockingSurface) WaitEvent() input.Event { return <-s.events }
func (s *blockingSurface) ShouldClose() bool      { return false }
func (s *blockingSurface) Size() (int, int)       { return 640, 480 }
func (s *blockingSurface) SwapBuffers()           {}
func (s *blockingSurface) Close()                 { s.closed.Store(true) }

func (s *blockingSurface) RequestClose() {
	select {
	case s.events <- input.Quit():
	default:
	}
}

type fakePlatform struct {
	surface Surface
	err     error
	opened  int
}

func (p *fakePlatform) Open(title string, width, height int) (Surface, error) {
	p.opened++
	if p.err != nil {
		return nil, p.err
	}
	return p.surface, nil
}

type fakePainter struct {
	mu sync.Mutex

	initErr   error
	data      *display.Data
	draws     int
	lastMV    math.Mat4
	lastProj  math.Mat4
	resizes   [][2]int
	captures  int
	closed    bool
	captureOK bool
}

func (p *fakePainter) Init(d *display.Data) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = d
	return p.initErr
}

func (p *fakePainter) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resizes = append(p.resizes, [2]int{width, height})
}

func (p *fakePainter) Draw(projection, modelView math.Mat4) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draws++
	p.lastProj, p.lastMV = projection, modelView
}

func (p *fakePainter) Capture() (image.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captures++
	if !p.captureOK {
		return nil, errors.New("no framebuffer")
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (p *fakePainter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func triangleData() *display.Data {
	return &display.Data{
		FaceCoords:   []float32{0, 0, 0, 2, 0, 0, 0, 1, 0},
		NormalCoords: []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Triangles:    []uint32{0, 1, 2},
		EdgeCoords:   []float32{0, 0, 0, -4, 0, 0},
		Faces:        []display.FaceRecord{{NumIndices: 3}},
		Edges:        []display.EdgeRecord{{NumIndices: 6}},
	}
}
