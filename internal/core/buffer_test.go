package core

import "testing"

func TestNewBufferHeight(t *testing.T) {
	buf := NewBuffer(80, 24)

	if buf.Width != 80 {
		t.Errorf("Width = %d, want 80", buf.Width)
	}
	if len(buf.Lines) != 24 {
		t.Errorf("len(Lines) = %d, want 24", len(buf.Lines))
	}
}

func TestNewBufferClampsNegative(t *testing.T) {
	buf := NewBuffer(-1, -1)

	if buf.Width != 0 || buf.Height != 0 {
		t.Errorf("dimensions = %dx%d, want 0x0", buf.Width, buf.Height)
	}
}

func TestLineText(t *testing.T) {
	line := Line{Segments: []Segment{
		{Text: "Hello, "},
		{Text: "world", Style: DefaultStyle().WithAttr(AttrBold)},
	}}

	if got := line.Text(); got != "Hello, world" {
		t.Errorf("Text() = %q, want %q", got, "Hello, world")
	}
}

func TestLineEquals(t *testing.T) {
	bold := DefaultStyle().WithAttr(AttrBold)

	a := Line{Segments: []Segment{{Text: "x", Style: bold}}}
	b := Line{Segments: []Segment{{Text: "x", Style: bold}}}
	c := Line{Segments: []Segment{{Text: "x"}}}

	if !a.Equals(b) {
		t.Error("identical lines should be equal")
	}
	if a.Equals(c) {
		t.Error("lines differing only in style should not be equal")
	}
}

func TestBufferEquals(t *testing.T) {
	a := NewBuffer(10, 2)
	b := NewBuffer(10, 2)
	if !a.Equals(b) {
		t.Error("empty buffers of equal size should be equal")
	}

	b.Lines[1] = Line{Segments: []Segment{{Text: "hi"}}}
	if a.Equals(b) {
		t.Error("buffers with different content should not be equal")
	}

	c := NewBuffer(10, 3)
	if a.Equals(c) {
		t.Error("buffers of different height should not be equal")
	}
}

func TestBufferCloneIsDeep(t *testing.T) {
	a := NewBuffer(10, 1)
	a.Lines[0] = Line{Segments: []Segment{{Text: "orig"}}}

	b := a.Clone()
	b.Lines[0].Segments[0].Text = "changed"

	if a.Lines[0].Segments[0].Text != "orig" {
		t.Error("Clone should not share segment storage")
	}
}

func TestStyleEquals(t *testing.T) {
	a := DefaultStyle()
	b := DefaultStyle()
	if !a.Equals(b) {
		t.Error("default styles should be equal")
	}

	b.Foreground = ColorFromRGB(1, 2, 3)
	if a.Equals(b) {
		t.Error("styles with different foregrounds should not be equal")
	}

	c := DefaultStyle().WithAttr(AttrUnderline)
	if a.Equals(c) {
		t.Error("styles with different attributes should not be equal")
	}
}

func TestAttributeOps(t *testing.T) {
	a := AttrNone.With(AttrBold).With(AttrItalic)

	if !a.Has(AttrBold) || !a.Has(AttrItalic) {
		t.Error("attributes should contain bold and italic")
	}
	if a.Has(AttrDim) {
		t.Error("attributes should not contain dim")
	}

	a = a.Without(AttrBold)
	if a.Has(AttrBold) {
		t.Error("bold should be removed")
	}
}
