package input

import (
	"errors"
	"time"
	"unicode/utf8"
)

// DefaultEscTimeout is how long a bare ESC byte may sit unresolved
// before it is flushed as the Escape key rather than the start of a
// sequence.
const DefaultEscTimeout = 50 * time.Millisecond

// maxSequence bounds the accumulation buffer; a CSI sequence longer
// than this is malformed.
const maxSequence = 64

// Dispatcher parses raw terminal bytes into an ordered event queue.
// It is not safe for concurrent use; the pipeline feeds and drains it
// from a single goroutine.
type Dispatcher struct {
	// EscTimeout is the bare-Escape disambiguation window.
	EscTimeout time.Duration

	pending      []byte
	pendingSince time.Time
	queue        []Event
	now          func() time.Time
}

// NewDispatcher creates a dispatcher with the default ESC timeout.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		EscTimeout: DefaultEscTimeout,
		now:        time.Now,
	}
}

// Feed consumes raw bytes, appending resolved events to the queue.
// Malformed sequences are reported (joined when several occur) and
// dropped; parsing always continues with the following bytes.
func (d *Dispatcher) Feed(p []byte) error {
	data := append(d.pending, p...)
	d.pending = nil

	var errs []error
	for len(data) > 0 {
		ev, n, err := parseOne(data)
		if n == 0 {
			// Incomplete sequence: keep the tail for the next feed.
			if len(data) > maxSequence {
				errs = append(errs, NewError(data, ErrMalformed))
				data = nil
				break
			}
			d.pending = data
			if d.pendingSince.IsZero() {
				d.pendingSince = d.now()
			}
			break
		}
		if err != nil {
			errs = append(errs, err)
		} else if ev != nil {
			d.queue = append(d.queue, *ev)
		}
		data = data[n:]
	}

	if len(d.pending) == 0 {
		d.pendingSince = time.Time{}
	}
	return errors.Join(errs...)
}

// Pending reports whether a partial sequence is buffered.
func (d *Dispatcher) Pending() bool {
	return len(d.pending) > 0
}

// FlushPending resolves a buffered partial sequence after the ESC
// timeout has elapsed: a lone ESC becomes the Escape key, anything
// else is dropped as malformed. Callers invoke this when no further
// bytes arrived within EscTimeout.
func (d *Dispatcher) FlushPending() error {
	if len(d.pending) == 0 {
		return nil
	}
	if !d.pendingSince.IsZero() && d.now().Sub(d.pendingSince) < d.EscTimeout {
		return nil
	}

	seq := d.pending
	d.pending = nil
	d.pendingSince = time.Time{}

	if len(seq) == 1 && seq[0] == 0x1b {
		d.queue = append(d.queue, KeyEvent(Key{Name: "escape", Sequence: "\x1b"}))
		return nil
	}
	return NewError(seq, ErrMalformed)
}

// Resize queues a resize notification ahead of any undelivered key or
// mouse events, so layout never runs against stale dimensions.
func (d *Dispatcher) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return NewError(nil, ErrInvalidResize)
	}
	d.queue = append([]Event{ResizeEvent(width, height)}, d.queue...)
	return nil
}

// Post enqueues an already-parsed event behind any queued ones. Run
// loops that receive decoded events from the terminal layer use this
// instead of Feed.
func (d *Dispatcher) Post(ev Event) {
	d.queue = append(d.queue, ev)
}

// Next pops the oldest queued event.
func (d *Dispatcher) Next() (Event, bool) {
	if len(d.queue) == 0 {
		return Event{}, false
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev, true
}

// Drain returns and clears all queued events.
func (d *Dispatcher) Drain() []Event {
	evs := d.queue
	d.queue = nil
	return evs
}

// parseOne consumes one event's worth of bytes from data. It returns
// the event (nil if the bytes were dropped), the byte count consumed,
// and a parse error for dropped sequences. consumed == 0 means the
// data is an incomplete prefix and more bytes are needed.
func parseOne(data []byte) (*Event, int, error) {
	b := data[0]

	if b == 0x1b {
		return parseEscape(data)
	}

	// Control bytes 0x01-0x1A map to ctrl+letter, with a few carrying
	// their own key identity.
	switch b {
	case '\r', '\n':
		return evp(Key{Name: "enter", Sequence: string(b)}), 1, nil
	case '\t':
		return evp(Key{Name: "tab", Sequence: "\t"}), 1, nil
	case 0x7f, 0x08:
		return evp(Key{Name: "backspace", Sequence: string(b)}), 1, nil
	case 0x00:
		return nil, 1, nil
	}
	if b >= 0x01 && b <= 0x1a {
		letter := rune('a' + b - 1)
		return evp(Key{Name: string(letter), Sequence: string(b), Rune: letter, Ctrl: true}), 1, nil
	}
	if b < 0x20 {
		return nil, 1, NewError(data[:1], ErrUnknownSequence)
	}

	// Printable: decode one UTF-8 rune.
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size == 1 {
		if !utf8.FullRune(data) && len(data) < utf8.UTFMax {
			return nil, 0, nil
		}
		return nil, 1, NewError(data[:1], ErrMalformed)
	}
	return evp(Key{Name: string(r), Sequence: string(data[:size]), Rune: r}), size, nil
}

// parseEscape handles sequences starting with ESC.
func parseEscape(data []byte) (*Event, int, error) {
	if len(data) == 1 {
		// Bare ESC: ambiguous until the timeout flushes it.
		return nil, 0, nil
	}

	switch data[1] {
	case '[':
		return parseCSI(data)
	case 'O':
		return parseSS3(data)
	case 0x1b:
		return evp(Key{Name: "escape", Sequence: "\x1b"}), 1, nil
	}

	// ESC + printable is Alt/Meta + key.
	r, size := utf8.DecodeRune(data[1:])
	if r == utf8.RuneError && size == 1 {
		if !utf8.FullRune(data[1:]) && len(data[1:]) < utf8.UTFMax {
			return nil, 0, nil
		}
		return nil, 2, NewError(data[:2], ErrMalformed)
	}
	return evp(Key{Name: string(r), Sequence: string(data[:1+size]), Rune: r, Meta: true}), 1 + size, nil
}

// parseSS3 handles ESC O <final> sequences.
func parseSS3(data []byte) (*Event, int, error) {
	if len(data) < 3 {
		return nil, 0, nil
	}
	name := ""
	switch data[2] {
	case 'A':
		name = "up"
	case 'B':
		name = "down"
	case 'C':
		name = "right"
	case 'D':
		name = "left"
	case 'H':
		name = "home"
	case 'F':
		name = "end"
	case 'P':
		name = "f1"
	case 'Q':
		name = "f2"
	case 'R':
		name = "f3"
	case 'S':
		name = "f4"
	default:
		return nil, 3, NewError(data[:3], ErrUnknownSequence)
	}
	return evp(Key{Name: name, Sequence: string(data[:3])}), 3, nil
}

// parseCSI handles ESC [ ... <final> sequences, including SGR and X10
// mouse reports.
func parseCSI(data []byte) (*Event, int, error) {
	// Find the final byte (0x40-0x7E).
	end := -1
	for i := 2; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7e {
			end = i
			break
		}
		if data[i] < 0x20 || data[i] > 0x3f {
			return nil, i + 1, NewError(data[:i+1], ErrMalformed)
		}
		if i >= maxSequence {
			return nil, i + 1, NewError(data[:i+1], ErrMalformed)
		}
	}
	if end < 0 {
		return nil, 0, nil
	}

	final := data[end]
	params := data[2:end]
	seq := data[:end+1]

	// X10 mouse: ESC [ M Cb Cx Cy.
	if final == 'M' && len(params) == 0 {
		if len(data) < end+4 {
			return nil, 0, nil
		}
		return parseX10Mouse(data[:end+4])
	}

	// SGR mouse: ESC [ < b ; x ; y (M|m).
	if len(params) > 0 && params[0] == '<' && (final == 'M' || final == 'm') {
		return parseSGRMouse(seq, params[1:], final)
	}

	return parseCSIKey(seq, params, final)
}

// parseCSIKey maps a CSI key sequence to an event.
func parseCSIKey(seq, params []byte, final byte) (*Event, int, error) {
	nums := splitParams(params)

	key := Key{Sequence: string(seq)}
	if len(nums) >= 2 && nums[1] > 0 {
		mod := nums[1] - 1
		key.Shift = mod&1 != 0
		key.Meta = mod&2 != 0
		key.Ctrl = mod&4 != 0
	}

	switch final {
	case 'A':
		key.Name = "up"
	case 'B':
		key.Name = "down"
	case 'C':
		key.Name = "right"
	case 'D':
		key.Name = "left"
	case 'H':
		key.Name = "home"
	case 'F':
		key.Name = "end"
	case 'Z':
		key.Name = "tab"
		key.Shift = true
	case '~':
		if len(nums) == 0 {
			return nil, len(seq), NewError(seq, ErrMalformed)
		}
		name, ok := tildeKeys[nums[0]]
		if !ok {
			return nil, len(seq), NewError(seq, ErrUnknownSequence)
		}
		key.Name = name
	default:
		return nil, len(seq), NewError(seq, ErrUnknownSequence)
	}
	return evp(key), len(seq), nil
}

// tildeKeys maps CSI <n> ~ parameters to key names.
var tildeKeys = map[int]string{
	1:  "home",
	2:  "insert",
	3:  "delete",
	4:  "end",
	5:  "pageup",
	6:  "pagedown",
	7:  "home",
	8:  "end",
	11: "f1",
	12: "f2",
	13: "f3",
	14: "f4",
	15: "f5",
	17: "f6",
	18: "f7",
	19: "f8",
	20: "f9",
	21: "f10",
	23: "f11",
	24: "f12",
}

// parseX10Mouse decodes ESC [ M Cb Cx Cy.
func parseX10Mouse(seq []byte) (*Event, int, error) {
	cb := int(seq[3]) - 32
	x := int(seq[4]) - 33
	y := int(seq[5]) - 33
	if x < 0 || y < 0 {
		return nil, len(seq), NewError(seq, ErrMalformed)
	}

	m := Mouse{X: x, Y: y}
	if !decodeMouseButton(cb, &m) {
		return nil, len(seq), NewError(seq, ErrUnknownSequence)
	}
	if cb&3 == 3 {
		m.Action = ActionRelease
		m.Button = ButtonLeft
	}
	ev := MouseEvent(m)
	return &ev, len(seq), nil
}

// parseSGRMouse decodes ESC [ < b ; x ; y (M|m).
func parseSGRMouse(seq, params []byte, final byte) (*Event, int, error) {
	nums := splitParams(params)
	if len(nums) != 3 {
		return nil, len(seq), NewError(seq, ErrMalformed)
	}

	x, y := nums[1]-1, nums[2]-1
	if x < 0 || y < 0 {
		return nil, len(seq), NewError(seq, ErrMalformed)
	}

	m := Mouse{X: x, Y: y}
	if !decodeMouseButton(nums[0], &m) {
		return nil, len(seq), NewError(seq, ErrUnknownSequence)
	}
	if final == 'm' {
		m.Action = ActionRelease
	}
	ev := MouseEvent(m)
	return &ev, len(seq), nil
}

// decodeMouseButton fills button and action from an xterm button code.
func decodeMouseButton(cb int, m *Mouse) bool {
	if cb&32 != 0 {
		m.Action = ActionMove
	}
	switch {
	case cb&64 != 0:
		if cb&1 == 0 {
			m.Button = ButtonWheelUp
		} else {
			m.Button = ButtonWheelDown
		}
	default:
		switch cb & 3 {
		case 0:
			m.Button = ButtonLeft
		case 1:
			m.Button = ButtonMiddle
		case 2:
			m.Button = ButtonRight
		case 3:
			// Release in X10 encoding; caller decides.
			m.Button = ButtonLeft
		}
	}
	return true
}

// splitParams parses semicolon-separated decimal parameters.
func splitParams(params []byte) []int {
	if len(params) == 0 {
		return nil
	}
	var nums []int
	cur := 0
	has := false
	for _, b := range params {
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
			has = true
		case b == ';':
			nums = append(nums, cur)
			cur = 0
			has = false
		}
	}
	if has || len(nums) > 0 {
		nums = append(nums, cur)
	}
	return nums
}

// evp wraps a key into an event pointer.
func evp(k Key) *Event {
	ev := KeyEvent(k)
	return &ev
}
