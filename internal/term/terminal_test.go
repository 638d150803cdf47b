package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/flexterm/internal/core"
	"github.com/dshills/flexterm/internal/diff"
)

func simTerminal(t *testing.T, width, height int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatal(err)
	}
	sim.SetSize(width, height)
	return term, sim
}

func lineOf(text string) core.Line {
	return core.Line{Segments: []core.Segment{{Text: text, Style: core.DefaultStyle()}}}
}

func screenRow(sim tcell.SimulationScreen, y, width int) string {
	out := make([]rune, 0, width)
	for x := 0; x < width; x++ {
		mainc, _, _, _ := sim.GetContent(x, y)
		out = append(out, mainc)
	}
	return string(out)
}

func TestWriteFullPaintsAllLines(t *testing.T) {
	term, sim := simTerminal(t, 10, 3)
	defer term.Exit()

	buf := core.NewBuffer(10, 3)
	buf.Lines[0] = lineOf("hello")
	buf.Lines[2] = lineOf("world")

	if err := term.WriteFull(buf); err != nil {
		t.Fatal(err)
	}
	if err := term.Flush(); err != nil {
		t.Fatal(err)
	}

	if got := screenRow(sim, 0, 10); got != "hello     " {
		t.Errorf("row 0 = %q", got)
	}
	if got := screenRow(sim, 2, 10); got != "world     " {
		t.Errorf("row 2 = %q", got)
	}
}

func TestWriteDiffUpdatesOnlyTouchedLines(t *testing.T) {
	term, sim := simTerminal(t, 10, 2)
	defer term.Exit()

	buf := core.NewBuffer(10, 2)
	buf.Lines[0] = lineOf("aaaa")
	buf.Lines[1] = lineOf("bbbb")
	if err := term.WriteFull(buf); err != nil {
		t.Fatal(err)
	}

	d := &diff.Diff{Width: 10, Height: 2, Ops: []diff.Op{
		{Type: diff.OpUpdate, LineIndex: 1, NewLine: lineOf("BBBB")},
	}}
	if err := term.WriteDiff(d); err != nil {
		t.Fatal(err)
	}
	if err := term.Flush(); err != nil {
		t.Fatal(err)
	}

	if got := screenRow(sim, 0, 10); got != "aaaa      " {
		t.Errorf("row 0 = %q, untouched line must survive", got)
	}
	if got := screenRow(sim, 1, 10); got != "BBBB      " {
		t.Errorf("row 1 = %q", got)
	}
}

func TestWriteDiffDeleteClearsLine(t *testing.T) {
	term, sim := simTerminal(t, 10, 2)
	defer term.Exit()

	buf := core.NewBuffer(10, 2)
	buf.Lines[1] = lineOf("gone")
	if err := term.WriteFull(buf); err != nil {
		t.Fatal(err)
	}

	d := &diff.Diff{Width: 10, Height: 1, Ops: []diff.Op{
		{Type: diff.OpDelete, LineIndex: 1, OldLine: lineOf("gone")},
	}}
	if err := term.WriteDiff(d); err != nil {
		t.Fatal(err)
	}
	if err := term.Flush(); err != nil {
		t.Fatal(err)
	}

	if got := screenRow(sim, 1, 10); got != "          " {
		t.Errorf("row 1 = %q, want cleared", got)
	}
}

func TestStyledSegmentReachesScreen(t *testing.T) {
	term, sim := simTerminal(t, 5, 1)
	defer term.Exit()

	style := core.Style{
		Foreground: core.ColorFromRGB(255, 0, 0),
		Background: core.ColorDefault,
		Attrs:      core.AttrBold,
	}
	buf := core.NewBuffer(5, 1)
	buf.Lines[0] = core.Line{Segments: []core.Segment{{Text: "x", Style: style}}}

	if err := term.WriteFull(buf); err != nil {
		t.Fatal(err)
	}
	if err := term.Flush(); err != nil {
		t.Fatal(err)
	}

	_, _, st, _ := sim.GetContent(0, 0)
	fg, _, attrs := st.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Error("bold attribute was lost")
	}
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v, want red", fg)
	}
}
