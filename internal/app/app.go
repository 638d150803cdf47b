package app

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/flexterm/internal/focus"
	"github.com/dshills/flexterm/internal/input"
	"github.com/dshills/flexterm/internal/pipeline"
	"github.com/dshills/flexterm/internal/reconcile"
	"github.com/dshills/flexterm/internal/term"
	"github.com/dshills/flexterm/internal/transform"
)

// View produces the next frame's element tree from application state.
type View func() []*reconcile.Element

// EventHandler reacts to one input event. Returning false quits the
// run loop.
type EventHandler func(ev input.Event) bool

// Application owns the terminal, the render pipeline, and the event
// loop connecting them.
type Application struct {
	opts     Options
	logger   *Logger
	logFile  *os.File
	terminal *term.Terminal
	pipe     *pipeline.Pipeline
	events   *input.Dispatcher

	view    View
	handler EventHandler

	running bool
}

// New builds an application from options. The terminal is created but
// not initialized; Run owns raw mode.
func New(opts Options) (*Application, error) {
	logger, logFile, err := buildLogger(opts)
	if err != nil {
		return nil, err
	}

	reg := transform.NewRegistry()
	for name, script := range opts.Transforms {
		if err := reg.RegisterScript(name, script); err != nil {
			if logFile != nil {
				logFile.Close()
			}
			return nil, fmt.Errorf("transform %q: %w", name, err)
		}
	}

	terminal, err := term.New()
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("creating terminal: %w", err)
	}

	return &Application{
		opts:     opts,
		logger:   logger,
		logFile:  logFile,
		terminal: terminal,
		pipe:     pipeline.New(terminal, reg),
		events:   input.NewDispatcher(),
	}, nil
}

// buildLogger opens the log file when configured; without one,
// logging is disabled since stderr is unusable in raw mode.
func buildLogger(opts Options) (*Logger, *os.File, error) {
	if opts.LogPath == "" {
		return NullLogger, nil, nil
	}

	f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	level := ParseLogLevel(opts.LogLevel)
	if opts.Debug {
		level = LogLevelDebug
	}
	logger := NewLogger(LoggerConfig{Level: level, Output: f, Prefix: "flexterm"})
	return logger, f, nil
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.logger
}

// Focus returns the focus manager.
func (a *Application) Focus() *focus.Manager {
	return a.pipe.Focus()
}

// SetView sets the function that produces each frame's elements.
func (a *Application) SetView(v View) {
	a.view = v
}

// SetHandler sets the input event handler.
func (a *Application) SetHandler(h EventHandler) {
	a.handler = h
}

// Invalidate re-renders the view on the next loop turn without an
// input event, for state changed outside the handler.
func (a *Application) Invalidate() {
	if a.view != nil {
		a.pipe.Submit(a.view())
	}
}

// Stop wakes the event loop and exits it.
func (a *Application) Stop() {
	a.terminal.Interrupt()
}

// Run enters raw mode and drives the event loop until the handler
// quits, Stop is called, or the terminal fails. A handler-initiated
// exit returns ErrQuit; Stop returns nil. Always returns with the
// terminal restored.
func (a *Application) Run() error {
	if a.running {
		return ErrAlreadyRunning
	}
	if a.view == nil {
		return ErrNoView
	}
	a.running = true
	defer func() { a.running = false }()

	if err := a.terminal.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer func() { _ = a.pipe.Close() }()
	if !a.opts.MouseEnabled {
		a.terminal.DisableMouse()
	}

	w, h := a.terminal.Size()
	a.pipe.Resize(w, h)
	a.pipe.Submit(a.view())
	a.logger.Info("starting at %dx%d", w, h)

	for {
		if a.pipe.Dirty() {
			nodeErrs, err := a.pipe.RenderFrame()
			if err != nil {
				a.logger.Error("frame failed: %v", err)
				return err
			}
			for _, e := range nodeErrs {
				a.logger.Warn("degraded node: %v", e)
			}
		}

		ev := a.terminal.PollEvent()
		if ev == nil {
			return nil
		}

		quit, err := a.dispatch(ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// dispatch translates one terminal event, runs it through the queue,
// and hands queued events to the handler.
func (a *Application) dispatch(ev tcell.Event) (bool, error) {
	switch e := ev.(type) {
	case *tcell.EventInterrupt:
		return true, nil

	case *tcell.EventResize:
		w, h := e.Size()
		if err := a.events.Resize(w, h); err != nil {
			a.logger.Warn("resize rejected: %v", err)
		}

	case *tcell.EventKey:
		a.events.Post(input.KeyEvent(translateKey(e)))

	case *tcell.EventMouse:
		if m, ok := translateMouse(e); ok {
			a.events.Post(input.MouseEvent(m))
		}
	}

	return a.drain()
}

// drain processes all queued events. Resizes feed the pipeline, tab
// cycles focus, and everything else goes to the handler. A handler
// quit surfaces as ErrQuit.
func (a *Application) drain() (bool, error) {
	for _, ev := range a.events.Drain() {
		switch ev.Type {
		case input.EventResize:
			a.pipe.Resize(ev.Width, ev.Height)

		case input.EventKey:
			if ev.Key.Name == "tab" {
				if ev.Key.Shift {
					a.pipe.Focus().MovePrevious()
				} else {
					a.pipe.Focus().MoveNext()
				}
				a.pipe.Submit(a.view())
				continue
			}
			if !a.handleEvent(ev) {
				return true, ErrQuit
			}

		case input.EventMouse:
			if !a.handleEvent(ev) {
				return true, ErrQuit
			}
		}
	}
	return false, nil
}

func (a *Application) handleEvent(ev input.Event) bool {
	if a.handler == nil {
		return true
	}
	cont := a.handler(ev)
	a.pipe.Submit(a.view())
	return cont
}

// translateKey maps a tcell key event onto the dispatcher's key model.
func translateKey(e *tcell.EventKey) input.Key {
	k := input.Key{
		Ctrl:  e.Modifiers()&tcell.ModCtrl != 0,
		Meta:  e.Modifiers()&(tcell.ModAlt|tcell.ModMeta) != 0,
		Shift: e.Modifiers()&tcell.ModShift != 0,
	}

	switch e.Key() {
	case tcell.KeyRune:
		k.Name = string(e.Rune())
		k.Rune = e.Rune()
	case tcell.KeyUp:
		k.Name = "up"
	case tcell.KeyDown:
		k.Name = "down"
	case tcell.KeyLeft:
		k.Name = "left"
	case tcell.KeyRight:
		k.Name = "right"
	case tcell.KeyEnter:
		k.Name = "enter"
	case tcell.KeyTab:
		k.Name = "tab"
	case tcell.KeyBacktab:
		k.Name = "tab"
		k.Shift = true
	case tcell.KeyEscape:
		k.Name = "escape"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		k.Name = "backspace"
	case tcell.KeyDelete:
		k.Name = "delete"
	case tcell.KeyInsert:
		k.Name = "insert"
	case tcell.KeyHome:
		k.Name = "home"
	case tcell.KeyEnd:
		k.Name = "end"
	case tcell.KeyPgUp:
		k.Name = "pageup"
	case tcell.KeyPgDn:
		k.Name = "pagedown"
	default:
		if e.Key() >= tcell.KeyF1 && e.Key() <= tcell.KeyF12 {
			k.Name = fmt.Sprintf("f%d", int(e.Key()-tcell.KeyF1)+1)
			break
		}
		if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
			k.Ctrl = true
			k.Rune = rune('a' + e.Key() - tcell.KeyCtrlA)
			k.Name = string(k.Rune)
			break
		}
		k.Name = string(e.Rune())
		k.Rune = e.Rune()
	}
	return k
}

// translateMouse maps a tcell mouse event; motion without buttons is
// reported as a move of the left button.
func translateMouse(e *tcell.EventMouse) (input.Mouse, bool) {
	x, y := e.Position()
	m := input.Mouse{X: x, Y: y}

	switch {
	case e.Buttons()&tcell.Button1 != 0:
		m.Button = input.ButtonLeft
	case e.Buttons()&tcell.Button2 != 0:
		m.Button = input.ButtonMiddle
	case e.Buttons()&tcell.Button3 != 0:
		m.Button = input.ButtonRight
	case e.Buttons()&tcell.WheelUp != 0:
		m.Button = input.ButtonWheelUp
	case e.Buttons()&tcell.WheelDown != 0:
		m.Button = input.ButtonWheelDown
	case e.Buttons() == tcell.ButtonNone:
		m.Action = input.ActionMove
		return m, true
	default:
		return m, false
	}
	return m, true
}

// Shutdown releases resources on all exit paths.
func (a *Application) Shutdown() {
	_ = a.pipe.Close()
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
