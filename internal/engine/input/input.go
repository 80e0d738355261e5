// Package input defines the window events the viewer reacts to.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit           // window close requested
	EventWindowResize
	EventExpose
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventWheel
)

var eventNames = [...]string{
	EventNone:         "none",
	EventQuit:         "quit",
	EventWindowResize: "resize",
	EventExpose:       "expose",
	EventKeyDown:      "keydown",
	EventMouseMove:    "mousemove",
	EventMouseDown:    "mousedown",
	EventMouseUp:      "mouseup",
	EventWheel:        "wheel",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Key identifies the keys the viewer binds.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyR
	KeyS
)

// Button identifies a mouse button. Values match SDL's.
type Button uint8

const (
	ButtonNone   Button = 0
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int // framebuffer size for EventWindowResize
	Height int
	MouseX int
	MouseY int
	Button Button
	Wheel  float32 // notches, positive away from the user
}

// Quit returns a close request event.
func Quit() Event { return Event{Type: EventQuit} }

// Queue buffers events in arrival order.
type Queue struct {
	events []Event
}

// NewQueue creates a queue holding the given events.
func NewQueue(events ...Event) *Queue {
	q := &Queue{events: make([]Event, 0, 16)}
	q.events = append(q.events, events...)
	return q
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Pop removes and returns the oldest event. ok is false when empty.
func (q *Queue) Pop() (e Event, ok bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	e = q.events[0]
	q.events = q.events[1:]
	return e, true
}

// Len returns the number of buffered events.
func (q *Queue) Len() int { return len(q.events) }

// IsKeyPressed checks if a key down for k is buffered.
func (q *Queue) IsKeyPressed(k Key) bool {
	for _, e := range q.events {
		if e.Type == EventKeyDown && e.Key == k {
			return true
		}
	}
	return false
}
