package window

import (
	"sync"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/brepview/internal/engine/input"
	"github.com/Faultbox/brepview/internal/logger"
)

const eventBuffer = 256

// router pumps the process-wide SDL queue and fans events out per window.
// One waiting window at a time blocks in SDL_WaitEvent and routes events
// for all of them; the others block on their own channel until an event
// arrives or the pump is released.
type router struct {
	pump sync.Mutex // held by the thread blocked in SDL_WaitEvent

	mu       sync.Mutex
	subs     map[uint32]chan input.Event
	released chan struct{} // closed and replaced when pump is unlocked

	waitEvent func() sdl.Event
	pollEvent func() sdl.Event
	wake      func()
}

func newRouter() *router {
	return &router{
		subs:      make(map[uint32]chan input.Event),
		released:  make(chan struct{}),
		waitEvent: sdl.WaitEvent,
		pollEvent: sdl.PollEvent,
		wake:      pushWake,
	}
}

var events = newRouter()

// pushWake unblocks the thread sitting in SDL_WaitEvent.
func pushWake() {
	if _, err := sdl.PushEvent(&sdl.UserEvent{Type: sdl.USEREVENT}); err != nil {
		logger.Debug("wake event not queued", zap.Error(err))
	}
}

func (r *router) subscribe(id uint32, ch chan input.Event) {
	r.mu.Lock()
	r.subs[id] = ch
	r.mu.Unlock()
}

func (r *router) unsubscribe(id uint32) {
	r.mu.Lock()
	delete(r.subs, id)
	r.mu.Unlock()
}

// wait returns the next event on ch, pumping SDL while none is queued.
func (r *router) wait(ch chan input.Event) input.Event {
	for {
		select {
		case ev := <-ch:
			return ev
		default:
		}

		r.mu.Lock()
		released := r.released
		r.mu.Unlock()

		if r.pump.TryLock() {
			r.pumpOnce()
			r.pump.Unlock()
			r.release()
			continue
		}

		// Another window is pumping; it routes our events to ch.
		select {
		case ev := <-ch:
			return ev
		case <-released:
		}
	}
}

// pumpOnce blocks for one SDL event and routes it with everything else
// already queued.
func (r *router) pumpOnce() {
	for sev := r.waitEvent(); sev != nil; sev = r.pollEvent() {
		r.dispatch(sev)
	}
}

func (r *router) release() {
	r.mu.Lock()
	close(r.released)
	r.released = make(chan struct{})
	r.mu.Unlock()
}

// notify queues ev for ch and wakes the pumping thread so its owner sees it.
func (r *router) notify(ch chan input.Event, ev input.Event) {
	send(ch, ev)
	r.wake()
}

func (r *router) dispatch(sev sdl.Event) {
	id, ev, ok := translate(sev)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id == 0 {
		for _, ch := range r.subs {
			send(ch, ev)
		}
		return
	}
	if ch, found := r.subs[id]; found {
		send(ch, ev)
	}
}

func send(ch chan input.Event, ev input.Event) {
	select {
	case ch <- ev:
	default:
		logger.Debug("event dropped, window queue full", zap.Stringer("type", ev.Type))
	}
}

// translate converts an SDL event to the owning window id and an
// input.Event. Id 0 addresses every window.
func translate(sev sdl.Event) (uint32, input.Event, bool) {
	switch e := sev.(type) {
	case *sdl.QuitEvent:
		return 0, input.Quit(), true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return e.WindowID, input.Quit(), true
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			w, h := drawableSize(e.WindowID, e.Data1, e.Data2)
			return e.WindowID, input.Event{Type: input.EventWindowResize, Width: w, Height: h}, true
		case sdl.WINDOWEVENT_EXPOSED:
			return e.WindowID, input.Event{Type: input.EventExpose}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN {
			return 0, input.Event{}, false
		}
		k := mapKey(e.Keysym.Sym)
		if k == input.KeyUnknown {
			return 0, input.Event{}, false
		}
		return e.WindowID, input.Event{Type: input.EventKeyDown, Key: k}, true

	case *sdl.MouseMotionEvent:
		return e.WindowID, input.Event{
			Type:   input.EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		}, true

	case *sdl.MouseButtonEvent:
		typ := input.EventMouseDown
		if e.Type == sdl.MOUSEBUTTONUP {
			typ = input.EventMouseUp
		}
		return e.WindowID, input.Event{
			Type:   typ,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: input.Button(e.Button),
		}, true

	case *sdl.MouseWheelEvent:
		return e.WindowID, input.Event{Type: input.EventWheel, Wheel: float32(e.Y)}, true
	}
	return 0, input.Event{}, false
}

func mapKey(k sdl.Keycode) input.Key {
	switch k {
	case sdl.K_ESCAPE:
		return input.KeyEscape
	case sdl.K_r:
		return input.KeyR
	case sdl.K_s:
		return input.KeyS
	}
	return input.KeyUnknown
}

// drawableSize prefers the GL drawable size, which differs from the window
// size on high-DPI displays.
func drawableSize(id uint32, w, h int32) (int, int) {
	if win, err := sdl.GetWindowFromID(id); err == nil && win != nil {
		dw, dh := win.GLGetDrawableSize()
		return int(dw), int(dh)
	}
	return int(w), int(h)
}
