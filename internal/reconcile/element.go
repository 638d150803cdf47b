// Package reconcile applies host UI descriptions to the persistent
// render tree, marking dirty nodes and driving layout-handle
// lifecycle.
//
// Matching rule: a host element is matched to an existing child first
// by explicit key, then by (position, kind). An element whose kind
// differs from its counterpart is never reused; the old node is
// unmounted (handle freed) and a fresh node mounted, since variants
// carry incompatible payloads and handle semantics.
package reconcile

import "github.com/dshills/flexterm/internal/tree"

// Element is one host UI descriptor, translated 1:1 from the host
// library's tree before reconciliation. Exactly one payload pointer
// matches Kind; nil payloads get variant defaults.
type Element struct {
	Kind      tree.Kind
	Key       string
	Focusable bool

	Text      *tree.TextProps
	Box       *tree.BoxProps
	Newline   *tree.NewlineProps
	Transform *tree.TransformProps

	Children []*Element
}

// Text creates a text element.
func Text(content string) *Element {
	return &Element{
		Kind: tree.KindText,
		Text: &tree.TextProps{Content: content},
	}
}

// StyledText creates a text element with the given props.
func StyledText(props tree.TextProps) *Element {
	p := props
	return &Element{Kind: tree.KindText, Text: &p}
}

// Box creates a box element containing the given children.
func Box(props tree.BoxProps, children ...*Element) *Element {
	p := props
	if p.FlexShrink == 0 {
		p.FlexShrink = 1
	}
	return &Element{Kind: tree.KindBox, Box: &p, Children: children}
}

// Newline creates a vertical gap of count rows.
func Newline(count int) *Element {
	return &Element{Kind: tree.KindNewline, Newline: &tree.NewlineProps{Count: count}}
}

// Spacer creates an element that expands into free space.
func Spacer() *Element {
	return &Element{Kind: tree.KindSpacer}
}

// Static creates a container whose rendered content freezes at its
// first composition.
func Static(children ...*Element) *Element {
	return &Element{Kind: tree.KindStatic, Children: children}
}

// Transform creates a container whose rendered text is passed through
// the named registered transform.
func Transform(name string, children ...*Element) *Element {
	return &Element{
		Kind:      tree.KindTransform,
		Transform: &tree.TransformProps{Name: name},
		Children:  children,
	}
}

// WithKey sets the element's reconciliation key.
func (e *Element) WithKey(key string) *Element {
	e.Key = key
	return e
}

// WithFocus marks the element focusable.
func (e *Element) WithFocus() *Element {
	e.Focusable = true
	return e
}
