// Package main is a demo client for the flexterm render pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/flexterm/internal/app"
	"github.com/dshills/flexterm/internal/input"
	"github.com/dshills/flexterm/internal/reconcile"
	"github.com/dshills/flexterm/internal/tree"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	opts.Transforms = map[string]string{
		"banner": `function transform(text) return "== " .. text .. " ==" end`,
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	state := &demoState{}
	application.SetView(state.view)
	application.SetHandler(state.handle)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Stop()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// demoState is the mutable model behind the demo view.
type demoState struct {
	keys    int
	lastKey string
}

func (s *demoState) handle(ev input.Event) bool {
	if ev.Type != input.EventKey {
		return true
	}
	if ev.Key.Name == "q" || (ev.Key.Ctrl && ev.Key.Name == "c") {
		return false
	}
	s.keys++
	s.lastKey = ev.Key.Name
	return true
}

func (s *demoState) view() []*reconcile.Element {
	header := reconcile.Transform("banner",
		reconcile.Text("flexterm demo"),
	)

	left := reconcile.Box(tree.BoxProps{
		Border:      true,
		BorderColor: "cyan",
		FlexGrow:    1,
		Padding:     tree.Edges{Left: 1, Right: 1},
		Direction:   tree.DirectionColumn,
	},
		reconcile.StyledText(tree.TextProps{Content: "Counters", Bold: true}),
		reconcile.Text(fmt.Sprintf("keys pressed: %d", s.keys)),
		reconcile.Text(fmt.Sprintf("last key: %s", s.lastKey)),
	).WithKey("left").WithFocus()

	right := reconcile.Box(tree.BoxProps{
		Border:      true,
		BorderColor: "magenta",
		FlexGrow:    2,
		Padding:     tree.Edges{Left: 1, Right: 1},
		Direction:   tree.DirectionColumn,
	},
		reconcile.StyledText(tree.TextProps{
			Content: "Long text wraps to the box width; resize the terminal to watch reflow.",
			Wrap:    tree.WrapNormal,
		}),
		reconcile.Newline(1),
		reconcile.StyledText(tree.TextProps{
			Content: "tab cycles focus, q quits",
			Color:   "#888888",
		}),
	).WithKey("right").WithFocus()

	return []*reconcile.Element{
		header,
		reconcile.Static(
			reconcile.Text("session started"),
		),
		reconcile.Box(tree.BoxProps{
			Direction: tree.DirectionRow,
			FlexGrow:  1,
			Gap:       1,
		}, left, right),
	}
}

func parseFlags() app.Options {
	opts := app.DefaultOptions()
	var showVersion bool

	flag.StringVar(&opts.LogPath, "log", "", "Path to log file")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.MouseEnabled, "mouse", true, "Enable mouse reporting")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "flexterm - declarative terminal UI demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: flexterm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("flexterm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}
