package window

import (
	"testing"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/brepview/internal/engine/input"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		event  sdl.Event
		id     uint32
		want   input.Event
		routed bool
	}{
		{
			name:   "quit broadcasts",
			event:  &sdl.QuitEvent{Type: sdl.QUIT},
			want:   input.Quit(),
			routed: true,
		},
		{
			name:   "window close",
			event:  &sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 3, Event: sdl.WINDOWEVENT_CLOSE},
			id:     3,
			want:   input.Quit(),
			routed: true,
		},
		{
			name:   "expose",
			event:  &sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 2, Event: sdl.WINDOWEVENT_EXPOSED},
			id:     2,
			want:   input.Event{Type: input.EventExpose},
			routed: true,
		},
		{
			name:   "escape",
			event:  &sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 1, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}},
			id:     1,
			want:   input.Event{Type: input.EventKeyDown, Key: input.KeyEscape},
			routed: true,
		},
		{
			name:  "unbound key",
			event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 1, Keysym: sdl.Keysym{Sym: sdl.K_q}},
		},
		{
			name:  "key up ignored",
			event: &sdl.KeyboardEvent{Type: sdl.KEYUP, WindowID: 1, Keysym: sdl.Keysym{Sym: sdl.K_r}},
		},
		{
			name:   "right button",
			event:  &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, WindowID: 4, Button: sdl.BUTTON_RIGHT, X: 5, Y: 6},
			id:     4,
			want:   input.Event{Type: input.EventMouseDown, Button: input.ButtonRight, MouseX: 5, MouseY: 6},
			routed: true,
		},
		{
			name:   "wheel",
			event:  &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, WindowID: 4, Y: -2},
			id:     4,
			want:   input.Event{Type: input.EventWheel, Wheel: -2},
			routed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ev, ok := translate(tt.event)
			if ok != tt.routed {
				t.Fatalf("routed = %v, want %v", ok, tt.routed)
			}
			if !ok {
				return
			}
			if id != tt.id || ev != tt.want {
				t.Errorf("got (%d, %+v), want (%d, %+v)", id, ev, tt.id, tt.want)
			}
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	r := newRouter()
	a := make(chan input.Event, 4)
	b := make(chan input.Event, 4)
	r.subscribe(1, a)
	r.subscribe(2, b)

	r.dispatch(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, WindowID: 2, X: 7, Y: 8})
	if len(a) != 0 || len(b) != 1 {
		t.Fatalf("motion routed to wrong window: a=%d b=%d", len(a), len(b))
	}
	if ev := <-b; ev.MouseX != 7 || ev.MouseY != 8 {
		t.Errorf("unexpected event %+v", ev)
	}

	r.dispatch(&sdl.QuitEvent{Type: sdl.QUIT})
	if len(a) != 1 || len(b) != 1 {
		t.Errorf("quit should reach every window: a=%d b=%d", len(a), len(b))
	}

	r.unsubscribe(1)
	r.dispatch(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 1, Keysym: sdl.Keysym{Sym: sdl.K_s}})
	if len(a) != 1 {
		t.Error("event delivered to an unsubscribed window")
	}
}

// fakeQueue stands in for the SDL event queue.
type fakeQueue chan sdl.Event

func (q fakeQueue) install(r *router) {
	r.waitEvent = func() sdl.Event { return <-q }
	r.pollEvent = func() sdl.Event {
		select {
		case e := <-q:
			return e
		default:
			return nil
		}
	}
	r.wake = func() { q <- &sdl.UserEvent{Type: sdl.USEREVENT} }
}

func motion(window uint32, x int32) sdl.Event {
	return &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, WindowID: window, X: x}
}

func waitAsync(r *router, ch chan input.Event) <-chan input.Event {
	out := make(chan input.Event, 1)
	go func() { out <- r.wait(ch) }()
	return out
}

func receive(t *testing.T, out <-chan input.Event) input.Event {
	t.Helper()
	select {
	case ev := <-out:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return")
		return input.Event{}
	}
}

func TestRouterWaitBlocksUntilEvent(t *testing.T) {
	r := newRouter()
	q := make(fakeQueue, 8)
	q.install(r)
	a := make(chan input.Event, 4)
	r.subscribe(1, a)

	out := waitAsync(r, a)
	select {
	case ev := <-out:
		t.Fatalf("wait returned %+v with no event queued", ev)
	case <-time.After(100 * time.Millisecond):
	}

	q <- motion(1, 5)
	if ev := receive(t, out); ev.Type != input.EventMouseMove || ev.MouseX != 5 {
		t.Errorf("got %+v, want motion at x=5", ev)
	}
}

func TestRouterNotifyWakesPump(t *testing.T) {
	r := newRouter()
	q := make(fakeQueue, 8)
	q.install(r)
	a := make(chan input.Event, 4)
	r.subscribe(1, a)

	out := waitAsync(r, a)
	r.notify(a, input.Quit())
	if ev := receive(t, out); ev.Type != input.EventQuit {
		t.Errorf("got %+v, want quit", ev)
	}
}

func TestRouterRoutesAndHandsOff(t *testing.T) {
	r := newRouter()
	q := make(fakeQueue, 8)
	q.install(r)
	a := make(chan input.Event, 4)
	b := make(chan input.Event, 4)
	r.subscribe(1, a)
	r.subscribe(2, b)

	outA := waitAsync(r, a)
	outB := waitAsync(r, b)

	// Whichever waiter pumps routes this to window 1.
	q <- motion(1, 1)
	if ev := receive(t, outA); ev.MouseX != 1 {
		t.Errorf("window 1 got %+v", ev)
	}

	// Window 1 is gone; window 2 must still be pumped.
	q <- motion(2, 2)
	if ev := receive(t, outB); ev.MouseX != 2 {
		t.Errorf("window 2 got %+v", ev)
	}
}
