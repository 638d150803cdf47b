// Package flex implements the flexbox subset used for terminal
// layout: row/column direction, grow/shrink/basis sizing, justify and
// align placement, margin/padding/border insets, gaps, and absolute
// positioning.
//
// Nodes are owned by a Pool and addressed by generation-checked
// handles, so a freed handle can never silently alias another node:
// double-free and use-after-free are reported as errors.
package flex

// Direction is the main axis of a container.
type Direction uint8

const (
	// Column stacks children vertically.
	Column Direction = iota

	// Row places children horizontally.
	Row
)

// Justify positions children along the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
)

// Align positions children along the cross axis.
type Align uint8

const (
	AlignStretch Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Edges holds per-side inset values.
type Edges struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() int { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() int { return e.Top + e.Bottom }

// Auto marks a dimension or basis as unset.
const Auto = -1

// MeasureFunc reports the preferred size of a leaf's content given an
// available width. Used for text, whose height depends on wrapping.
type MeasureFunc func(availWidth int) (width, height int)

// Config is the style input for one node.
type Config struct {
	// Width and Height are explicit border-box dimensions;
	// Auto means derive from content or flex.
	Width  int
	Height int

	MinWidth  int
	MinHeight int

	// Grow is this node's share of positive free space.
	Grow float64

	// Shrink scales how much this node gives up when space is short.
	Shrink float64

	// Basis is the initial main-axis size; Auto means use the
	// explicit main dimension or the measured content size.
	Basis int

	Direction Direction
	Justify   Justify
	Align     Align

	Margin  Edges
	Padding Edges

	// Border is the uniform border width (0 or 1 in terminal cells).
	Border int

	// Gap is the spacing between adjacent flow children.
	Gap int

	// Absolute removes the node from flex flow; it is placed at
	// (Left, Top) relative to the parent's content box.
	Absolute bool
	Left     int
	Top      int

	// Measure reports content size for leaves; nil for containers.
	Measure MeasureFunc
}

// DefaultConfig returns a config with automatic sizing.
func DefaultConfig() Config {
	return Config{
		Width:  Auto,
		Height: Auto,
		Basis:  Auto,
		Shrink: 1,
	}
}

// Layout is the computed geometry of a node, relative to its parent's
// border box.
type Layout struct {
	Left   int
	Top    int
	Width  int
	Height int
}
