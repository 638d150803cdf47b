// Package tree provides the persistent render tree: tagged node
// variants, the id-indexed node arena, dirty tracking, and the
// render-error taxonomy.
//
// Nodes reference each other by NodeID rather than by pointer, so the
// parent/child cycle never becomes an ownership cycle and a node is
// always reachable through exactly one index entry.
package tree

import "github.com/dshills/flexterm/internal/core"

// NodeID identifies a node within one Tree. IDs are allocated by the
// owning Tree's counter and are never reused. The zero value means
// "no node".
type NodeID uint64

// None is the absent NodeID.
const None NodeID = 0

// Kind discriminates the render node variants.
type Kind uint8

const (
	// KindRoot is the single tree root.
	KindRoot Kind = iota

	// KindText is a styled text leaf.
	KindText

	// KindBox is a flex container with border and spacing props.
	KindBox

	// KindNewline is a vertical gap of Count rows.
	KindNewline

	// KindSpacer expands to fill free space along the parent's axis.
	KindSpacer

	// KindStatic is a container whose rendered content is frozen at
	// its first composition and never recomputed.
	KindStatic

	// KindTransform is a container whose rendered subtree text is
	// passed through a pure transform before emission.
	KindTransform
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindText:
		return "text"
	case KindBox:
		return "box"
	case KindNewline:
		return "newline"
	case KindSpacer:
		return "spacer"
	case KindStatic:
		return "static"
	case KindTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// CanHaveChildren returns true for container variants. Only Root, Box,
// Static, and Transform nodes may carry children.
func (k Kind) CanHaveChildren() bool {
	switch k {
	case KindRoot, KindBox, KindStatic, KindTransform:
		return true
	default:
		return false
	}
}

// WrapMode selects how text is fitted to its computed width.
type WrapMode uint8

const (
	// WrapNormal breaks lines, preferring whitespace boundaries.
	WrapNormal WrapMode = iota

	// TruncateEnd drops excess characters, ellipsis at the end.
	TruncateEnd

	// TruncateStart drops excess characters, ellipsis at the start.
	TruncateStart

	// TruncateMiddle drops the middle, ellipsis between the halves.
	TruncateMiddle
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapNormal:
		return "wrap"
	case TruncateEnd:
		return "truncate-end"
	case TruncateStart:
		return "truncate-start"
	case TruncateMiddle:
		return "truncate-middle"
	default:
		return "unknown"
	}
}

// FlexDirection is the main axis of a Box.
type FlexDirection uint8

const (
	// DirectionColumn stacks children vertically (the default).
	DirectionColumn FlexDirection = iota

	// DirectionRow places children horizontally.
	DirectionRow
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

// Edges holds per-side spacing values.
type Edges struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// TextProps is the payload of a Text node.
type TextProps struct {
	// Content is the raw text.
	Content string

	// Color and Background are color specifications resolved by the
	// compositor ("red", "#ff0000", "rgb(...)", "hsl(...)").
	Color      string
	Background string

	// Attribute flags.
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Dim           bool
	Inverse       bool

	// Wrap selects the fitting behavior at the computed width.
	Wrap WrapMode
}

// BoxProps is the payload of a Box node: the supported flexbox subset
// plus border and spacing.
type BoxProps struct {
	// Width and Height are explicit dimensions; nil means auto.
	Width  *int
	Height *int

	MinWidth  int
	MinHeight int

	FlexGrow   float64
	FlexShrink float64

	// FlexBasis is the initial main-axis size; nil means auto.
	FlexBasis *int

	Direction FlexDirection
	Justify   Justify
	Align     Align

	Margin  Edges
	Padding Edges
	Gap     int

	// Border draws a single-line border inside the box edge.
	Border      bool
	BorderColor string

	// Absolute positions the box at (Left, Top) relative to its
	// parent instead of participating in flex flow.
	Absolute bool
	Left     int
	Top      int
}

// NewlineProps is the payload of a Newline node.
type NewlineProps struct {
	// Count is the number of blank rows; always > 0.
	Count int
}

// StaticProps is the payload of a Static node.
type StaticProps struct {
	// Frozen is the rendered content captured at the node's first
	// successful composition. Once FrozenSet is true it is emitted
	// verbatim on every subsequent frame.
	Frozen    []string
	FrozenSet bool
}

// TransformProps is the payload of a Transform node.
type TransformProps struct {
	// Name identifies a registered pure text transform.
	Name string
}

// Node is one render node. Exactly one payload pointer is non-nil,
// matching Kind; consumers switch exhaustively on Kind.
type Node struct {
	ID       NodeID
	Kind     Kind
	Key      string
	Parent   NodeID
	Children []NodeID

	// Layout is the geometry from the last successful layout pass,
	// nil before the first pass.
	Layout *core.LayoutInfo

	// Focusable marks the node as eligible for keyboard focus.
	Focusable bool

	// Lifecycle flags maintained by the reconciler.
	Mounted     bool
	NeedsLayout bool
	NeedsRender bool

	Text      *TextProps
	Box       *BoxProps
	Newline   *NewlineProps
	Static    *StaticProps
	Transform *TransformProps
}
