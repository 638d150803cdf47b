package core

import "strings"

// Segment is a run of text sharing a single style.
type Segment struct {
	Text  string
	Style Style
}

// Equals returns true if two segments are identical in text and style.
func (s Segment) Equals(other Segment) bool {
	return s.Text == other.Text && s.Style.Equals(other.Style)
}

// Line is one row of the output buffer, as an ordered list of segments.
type Line struct {
	Segments []Segment
}

// Text returns the line's content with styling stripped.
func (l Line) Text() string {
	var sb strings.Builder
	for _, seg := range l.Segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// Equals returns true if two lines have structurally identical segments.
func (l Line) Equals(other Line) bool {
	if len(l.Segments) != len(other.Segments) {
		return false
	}
	for i, seg := range l.Segments {
		if !seg.Equals(other.Segments[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the line.
func (l Line) Clone() Line {
	if len(l.Segments) == 0 {
		return Line{}
	}
	segs := make([]Segment, len(l.Segments))
	copy(segs, l.Segments)
	return Line{Segments: segs}
}

// Buffer is a full rendered frame: an ordered list of styled lines
// sized to the terminal.
type Buffer struct {
	Width  int
	Height int
	Lines  []Line
}

// NewBuffer creates an empty buffer with exactly height lines.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Lines:  make([]Line, height),
	}
}

// Line returns the line at the given index, or an empty line if the
// index is out of range.
func (b *Buffer) Line(index int) Line {
	if index < 0 || index >= len(b.Lines) {
		return Line{}
	}
	return b.Lines[index]
}

// Equals returns true if two buffers have identical dimensions and
// structurally identical lines.
func (b *Buffer) Equals(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Width != other.Width || b.Height != other.Height {
		return false
	}
	if len(b.Lines) != len(other.Lines) {
		return false
	}
	for i, line := range b.Lines {
		if !line.Equals(other.Lines[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	out := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Lines:  make([]Line, len(b.Lines)),
	}
	for i, line := range b.Lines {
		out.Lines[i] = line.Clone()
	}
	return out
}
