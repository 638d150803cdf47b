// Package term flushes composed frames to a real terminal through
// tcell. It is the only package that touches the screen; everything
// upstream works on buffers and diffs.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/flexterm/internal/core"
	"github.com/dshills/flexterm/internal/diff"
)

// Terminal writes buffers and diffs to a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// New creates a terminal writer over a fresh tcell screen. The screen
// is not initialized until Init.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, &Error{Op: "create", Cause: err}
	}
	return &Terminal{screen: screen}, nil
}

// NewWithScreen wraps an existing screen; tests pass a simulation
// screen here.
func NewWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init puts the terminal into raw mode with mouse reporting enabled.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return &Error{Op: "init", Cause: err}
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	return nil
}

// DisableMouse turns off mouse reporting.
func (t *Terminal) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.DisableMouse()
}

// Size returns the current terminal dimensions.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// PollEvent blocks for the next tcell event. The run loop owns the
// translation to pipeline actions.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Interrupt wakes a blocked PollEvent so the run loop can exit.
func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// WriteFull repaints the whole screen from a buffer.
func (t *Terminal) WriteFull(buf *core.Buffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	for y, line := range buf.Lines {
		t.writeLine(y, line, buf.Width)
	}
	return nil
}

// WriteDiff applies line-level edits from a diff. Inserted and updated
// lines repaint; deleted lines clear.
func (t *Terminal) WriteDiff(d *diff.Diff) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, op := range d.Ops {
		switch op.Type {
		case diff.OpUpdate, diff.OpInsert:
			t.writeLine(op.LineIndex, op.NewLine, d.Width)
		case diff.OpDelete:
			t.clearLine(op.LineIndex, d.Width)
		}
	}
	return nil
}

// Clear blanks the screen.
func (t *Terminal) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	return nil
}

// Flush pushes pending cell changes to the terminal.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
	return nil
}

// Exit restores the terminal to cooked mode.
func (t *Terminal) Exit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
	return nil
}

// writeLine paints one styled line, padding the remainder of the row
// with default-style blanks.
func (t *Terminal) writeLine(y int, line core.Line, width int) {
	x := 0
	for _, seg := range line.Segments {
		style := convertStyle(seg.Style)
		for _, r := range seg.Text {
			if x >= width {
				return
			}
			t.screen.SetContent(x, y, r, nil, style)
			w := runewidth.RuneWidth(r)
			if w == 2 && x+1 < width {
				t.screen.SetContent(x+1, y, ' ', nil, style)
			}
			x += w
		}
	}
	t.padLine(x, y, width)
}

// clearLine blanks one row.
func (t *Terminal) clearLine(y, width int) {
	t.padLine(0, y, width)
}

func (t *Terminal) padLine(from, y, width int) {
	style := convertStyle(core.DefaultStyle())
	for x := from; x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// convertStyle maps a pipeline style onto tcell.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.Default {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.Default {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}

	if s.Attrs.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attrs.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attrs.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attrs.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attrs.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	if s.Attrs.Has(core.AttrInverse) {
		style = style.Reverse(true)
	}

	return style
}
