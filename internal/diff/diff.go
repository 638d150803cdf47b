// Package diff compares successive output buffers and emits minimal
// line-level edits. Diffing is strictly index-based: line i of the
// previous frame is compared to line i of the next, and height
// changes become trailing inserts or deletes. No cross-line move
// detection is attempted; this bounds diff latency by the line count
// regardless of content.
package diff

import (
	"fmt"

	"github.com/dshills/flexterm/internal/core"
)

// OpType discriminates diff operations.
type OpType uint8

const (
	// OpUpdate replaces the line at LineIndex; carries old and new.
	OpUpdate OpType = iota

	// OpInsert appends a line at LineIndex; carries only the new line.
	OpInsert

	// OpDelete removes the line at LineIndex; carries only the old line.
	OpDelete
)

// String returns the operation name.
func (t OpType) String() string {
	switch t {
	case OpUpdate:
		return "update"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is one line-level edit.
type Op struct {
	Type      OpType
	LineIndex int

	// OldLine is set for update and delete.
	OldLine core.Line

	// NewLine is set for update and insert.
	NewLine core.Line
}

// Diff is an ordered set of line edits transforming one buffer into
// the next. Replaying Ops in ascending LineIndex order against the
// old buffer reproduces the new one exactly.
type Diff struct {
	Ops    []Op
	Width  int
	Height int
}

// Empty reports whether the frames were identical.
func (d *Diff) Empty() bool {
	return len(d.Ops) == 0
}

// Compute compares two buffers line by line. Lines present in both
// are compared for structural segment equality; indices past the
// shorter buffer become inserts (next is taller) or deletes (previous
// is taller), in ascending index order.
func Compute(previous, next *core.Buffer) *Diff {
	d := &Diff{Width: next.Width, Height: next.Height}

	common := len(previous.Lines)
	if len(next.Lines) < common {
		common = len(next.Lines)
	}

	for i := 0; i < common; i++ {
		if !previous.Lines[i].Equals(next.Lines[i]) {
			d.Ops = append(d.Ops, Op{
				Type:      OpUpdate,
				LineIndex: i,
				OldLine:   previous.Lines[i].Clone(),
				NewLine:   next.Lines[i].Clone(),
			})
		}
	}

	for i := common; i < len(next.Lines); i++ {
		d.Ops = append(d.Ops, Op{
			Type:      OpInsert,
			LineIndex: i,
			NewLine:   next.Lines[i].Clone(),
		})
	}

	for i := common; i < len(previous.Lines); i++ {
		d.Ops = append(d.Ops, Op{
			Type:      OpDelete,
			LineIndex: i,
			OldLine:   previous.Lines[i].Clone(),
		})
	}

	return d
}

// Apply replays a diff against a buffer, producing the next frame.
// Updates replace in place, inserts extend the line list, and deletes
// drop trailing indices; LineIndex refers to positions in the
// original buffer throughout, which is well-defined because inserts
// and deletes only ever address trailing lines.
func Apply(previous *core.Buffer, d *Diff) (*core.Buffer, error) {
	out := previous.Clone()
	out.Width = d.Width
	out.Height = d.Height

	deleted := make(map[int]bool)

	for _, op := range d.Ops {
		if op.LineIndex < 0 {
			return nil, fmt.Errorf("diff: negative line index %d", op.LineIndex)
		}
		switch op.Type {
		case OpUpdate:
			if op.LineIndex >= len(out.Lines) {
				return nil, fmt.Errorf("diff: update at %d beyond %d lines", op.LineIndex, len(out.Lines))
			}
			out.Lines[op.LineIndex] = op.NewLine.Clone()
		case OpInsert:
			if op.LineIndex != len(out.Lines) {
				return nil, fmt.Errorf("diff: insert at %d, want %d", op.LineIndex, len(out.Lines))
			}
			out.Lines = append(out.Lines, op.NewLine.Clone())
		case OpDelete:
			if op.LineIndex >= len(previous.Lines) {
				return nil, fmt.Errorf("diff: delete at %d beyond %d lines", op.LineIndex, len(previous.Lines))
			}
			deleted[op.LineIndex] = true
		default:
			return nil, fmt.Errorf("diff: unknown op type %d", op.Type)
		}
	}

	if len(deleted) > 0 {
		kept := out.Lines[:0]
		for i, line := range out.Lines {
			if !deleted[i] {
				kept = append(kept, line)
			}
		}
		out.Lines = kept
	}

	return out, nil
}
