// Package core provides shared types for the render pipeline.
// This package breaks import cycles between the tree, layout,
// compositor, differ, and terminal packages.
package core

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint8

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrStrikethrough           // Strikethrough text
	AttrInverse                 // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Color represents a true-color RGB value.
type Color struct {
	R, G, B uint8

	// Default indicates this is the terminal's default color.
	// R, G, B are ignored when Default is true.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Equals returns true if two colors are identical.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Style describes the visual appearance of a text segment.
type Style struct {
	// Foreground is the text color.
	Foreground Color

	// Background is the fill color behind the text.
	Background Color

	// Attrs contains the active text attributes.
	Attrs Attribute
}

// DefaultStyle returns a style using the terminal's default colors
// and no attributes.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attrs == other.Attrs
}

// WithAttr returns a copy of the style with the given attribute added.
func (s Style) WithAttr(attr Attribute) Style {
	s.Attrs = s.Attrs.With(attr)
	return s
}

// LayoutInfo holds the computed geometry for one node after a layout
// pass. X and Y are absolute screen coordinates; Left and Top are
// offsets relative to the node's parent.
type LayoutInfo struct {
	X      int
	Y      int
	Width  int
	Height int
	Left   int
	Top    int
}

// Valid returns true if the geometry has non-negative dimensions.
func (l LayoutInfo) Valid() bool {
	return l.Width >= 0 && l.Height >= 0
}
