// Package window handles SDL2 windows with OpenGL contexts, one per viewer.
//
// SDL keeps a single event queue per process. Viewers run on their own
// locked OS threads, so events are pumped by whichever viewer is waiting
// and routed to the owning window by id. The pumping viewer blocks in
// SDL_WaitEvent; RequestClose pushes a user event to wake it. Some platforms (macOS Cocoa)
// require window calls on the main thread; there a single viewer should be
// run from main.
package window

import (
	"fmt"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/engine/input"
	"github.com/Faultbox/brepview/internal/logger"
)

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

var (
	initOnce sync.Once
	initErr  error
)

// Init initializes SDL video once per process.
func Init() error {
	initOnce.Do(func() {
		logger.Info("initializing SDL2")
		if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
			initErr = fmt.Errorf("SDL_Init failed: %w", err)
		}
	})
	return initErr
}

// Quit shuts SDL down. Call once after every window is closed.
func Quit() {
	sdl.Quit()
}

// Window wraps an SDL2 window and its OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	id        uint32
	events    chan input.Event
	closing   bool
}

// New creates a window with an OpenGL 4.1 core context current on the
// calling thread.
func New(cfg Config) (*Window, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	w := &Window{
		config: cfg,
		events: make(chan input.Event, eventBuffer),
	}

	// OpenGL attributes must be set before the window is created.
	// 4.1 Core is the highest macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	if err := w.sdlWindow.GLMakeCurrent(w.glContext); err != nil {
		sdl.GLDeleteContext(w.glContext)
		w.sdlWindow.Destroy()
		return nil, fmt.Errorf("SDL_GL_MakeCurrent failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.id, err = w.sdlWindow.GetID()
	if err != nil {
		w.destroy()
		return nil, fmt.Errorf("SDL_GetWindowID failed: %w", err)
	}
	events.subscribe(w.id, w.events)

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Uint32("id", w.id),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// WaitEvent blocks until the next event for this window.
func (w *Window) WaitEvent() input.Event {
	ev := events.wait(w.events)
	if ev.Type == input.EventQuit {
		w.closing = true
	}
	return ev
}

// ShouldClose reports whether the window received a close request.
func (w *Window) ShouldClose() bool {
	return w.closing
}

// RequestClose queues a close request. Safe from any goroutine.
func (w *Window) RequestClose() {
	events.notify(w.events, input.Quit())
}

// Size returns the drawable size in pixels.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Close destroys the window and its context.
func (w *Window) Close() {
	logger.Info("closing window", zap.Uint32("id", w.id))
	events.unsubscribe(w.id)
	w.destroy()
}

func (w *Window) destroy() {
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
	}
}
