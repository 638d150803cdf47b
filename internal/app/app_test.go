package app

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/flexterm/internal/core"
	"github.com/dshills/flexterm/internal/diff"
	"github.com/dshills/flexterm/internal/input"
	"github.com/dshills/flexterm/internal/pipeline"
	"github.com/dshills/flexterm/internal/reconcile"
)

// nullWriter satisfies pipeline.Writer without a terminal.
type nullWriter struct{}

func (nullWriter) WriteFull(*core.Buffer) error { return nil }
func (nullWriter) WriteDiff(*diff.Diff) error   { return nil }
func (nullWriter) Clear() error                 { return nil }
func (nullWriter) Flush() error                 { return nil }
func (nullWriter) Exit() error                  { return nil }

func TestTranslateKeySpecials(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want input.Key
	}{
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), input.Key{Name: "up"}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), input.Key{Name: "enter"}},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), input.Key{Name: "tab", Shift: true}},
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), input.Key{Name: "q", Rune: 'q'}},
		{"ctrl-right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl), input.Key{Name: "right", Ctrl: true}},
		{"f5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), input.Key{Name: "f5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateKey(tt.ev)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTranslateMouseButtons(t *testing.T) {
	ev := tcell.NewEventMouse(4, 7, tcell.Button1, tcell.ModNone)
	m, ok := translateMouse(ev)
	if !ok {
		t.Fatal("left click should translate")
	}
	if m.X != 4 || m.Y != 7 || m.Button != input.ButtonLeft {
		t.Errorf("got %+v, want left at (4,7)", m)
	}

	move := tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone)
	m, ok = translateMouse(move)
	if !ok || m.Action != input.ActionMove {
		t.Errorf("motion = %+v ok=%v, want move", m, ok)
	}
}

func TestHandlerQuitSurfacesErrQuit(t *testing.T) {
	a := &Application{
		logger: NullLogger,
		pipe:   pipeline.New(nullWriter{}, nil),
		events: input.NewDispatcher(),
	}
	a.SetView(func() []*reconcile.Element { return nil })
	a.SetHandler(func(ev input.Event) bool { return false })

	a.events.Post(input.KeyEvent(input.Key{Name: "q", Rune: 'q'}))

	quit, err := a.drain()
	if !quit {
		t.Error("handler returning false should quit the loop")
	}
	if !errors.Is(err, ErrQuit) {
		t.Errorf("err = %v, want ErrQuit", err)
	}
}

func TestHandlerContinueDoesNotQuit(t *testing.T) {
	a := &Application{
		logger: NullLogger,
		pipe:   pipeline.New(nullWriter{}, nil),
		events: input.NewDispatcher(),
	}
	a.SetView(func() []*reconcile.Element { return nil })
	a.SetHandler(func(ev input.Event) bool { return true })

	a.events.Post(input.KeyEvent(input.Key{Name: "x", Rune: 'x'}))

	quit, err := a.drain()
	if quit || err != nil {
		t.Errorf("drain = %v, %v, want no quit and no error", quit, err)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", opts.LogLevel)
	}
	if !opts.MouseEnabled {
		t.Error("mouse should default on")
	}
}
