// Package input parses a raw terminal byte stream into typed events:
// key presses, mouse actions, and resizes. The dispatcher is
// single-threaded and cooperative; it accumulates partial escape
// sequences and resolves them as soon as an unambiguous match exists,
// or flushes a bare Escape after a caller-driven timeout.
package input

// EventType discriminates input events.
type EventType uint8

const (
	// EventKey is a key press.
	EventKey EventType = iota

	// EventMouse is a mouse press, release, or move.
	EventMouse

	// EventResize is a terminal dimension change.
	EventResize
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Key describes one key press.
type Key struct {
	// Name is the key's canonical name: "up", "enter", "f5", or the
	// literal character for printable keys.
	Name string

	// Sequence is the raw byte sequence that produced the event.
	Sequence string

	// Rune is the printable character, or 0 for special keys.
	Rune rune

	Ctrl  bool
	Meta  bool
	Shift bool
}

// MouseButton identifies which button an event refers to.
type MouseButton uint8

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
	ButtonWheelUp
	ButtonWheelDown
)

// String returns the button name.
func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonWheelUp:
		return "wheelUp"
	case ButtonWheelDown:
		return "wheelDown"
	default:
		return "unknown"
	}
}

// MouseAction is what the button did.
type MouseAction uint8

const (
	ActionPress MouseAction = iota
	ActionRelease
	ActionMove
)

// String returns the action name.
func (a MouseAction) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	default:
		return "unknown"
	}
}

// Mouse describes one mouse event. Coordinates are zero-based cells.
type Mouse struct {
	X      int
	Y      int
	Button MouseButton
	Action MouseAction
}

// Event is one typed input event.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key Key

	// Mouse is set for EventMouse.
	Mouse Mouse

	// Width and Height are set for EventResize; always positive.
	Width  int
	Height int
}

// KeyEvent builds a key event.
func KeyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// MouseEvent builds a mouse event.
func MouseEvent(m Mouse) Event {
	return Event{Type: EventMouse, Mouse: m}
}

// ResizeEvent builds a resize event.
func ResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}
