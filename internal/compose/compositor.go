// Package compose walks the render tree with its computed geometry
// and produces the full-screen output buffer of styled text segments.
//
// Composition degrades node-locally: a node that fails (unresolvable
// color, no width for its content, a failing transform) renders empty
// and is reported, while the rest of the frame completes. This is
// deliberately unlike layout, which is all-or-nothing per frame.
package compose

import (
	"strings"

	"github.com/dshills/flexterm/internal/core"
	"github.com/dshills/flexterm/internal/layout"
	"github.com/dshills/flexterm/internal/textfit"
	"github.com/dshills/flexterm/internal/transform"
	"github.com/dshills/flexterm/internal/tree"
	runewidth "github.com/mattn/go-runewidth"
)

// Compositor turns tree + geometry into output buffers.
type Compositor struct {
	transforms *transform.Registry
}

// New creates a compositor. reg may be nil when no Transform nodes
// are used; they then fail node-locally.
func New(reg *transform.Registry) *Compositor {
	return &Compositor{transforms: reg}
}

// Compose renders the subtree covered by res into a buffer sized
// exactly to the layout's root dimensions. Node-level failures are
// returned alongside the completed buffer.
func (c *Compositor) Compose(t *tree.Tree, res *layout.Result) (*core.Buffer, []error) {
	width := res.Layout.Width
	height := res.Layout.Height

	p := newPainter(width, height, res.Layout.X, res.Layout.Y)
	var errs []error

	root := t.Node(res.NodeID)
	if root != nil {
		c.paintNode(t, res, root, p, &errs)
	}
	return p.buffer(), errs
}

// paintNode renders one node and recurses into its children.
func (c *Compositor) paintNode(t *tree.Tree, res *layout.Result, n *tree.Node, p *painter, errs *[]error) {
	info, ok := res.ChildLayouts[n.ID]
	if !ok {
		*errs = append(*errs, NewError(n.ID, ErrNoLayout))
		return
	}

	switch n.Kind {
	case tree.KindRoot:
		c.paintChildren(t, res, n, p, errs)

	case tree.KindBox:
		if n.Box.Border {
			if err := c.paintBorder(info, n, p); err != nil {
				*errs = append(*errs, NewError(n.ID, err))
			}
		}
		c.paintChildren(t, res, n, p, errs)

	case tree.KindText:
		if err := c.paintText(info, n, p); err != nil {
			*errs = append(*errs, NewError(n.ID, err))
		}

	case tree.KindStatic:
		c.paintStatic(t, res, n, info, p, errs)

	case tree.KindTransform:
		c.paintTransform(t, res, n, info, p, errs)

	case tree.KindNewline, tree.KindSpacer:
		// Pure layout nodes; nothing to draw.
	}
}

func (c *Compositor) paintChildren(t *tree.Tree, res *layout.Result, n *tree.Node, p *painter, errs *[]error) {
	for _, childID := range n.Children {
		if child := t.Node(childID); child != nil {
			c.paintNode(t, res, child, p, errs)
		}
	}
}

// paintText resolves the node's style and fits its content to the
// computed width per the wrap mode.
func (c *Compositor) paintText(info core.LayoutInfo, n *tree.Node, p *painter) error {
	props := n.Text
	if props.Content == "" {
		return nil
	}
	if info.Width <= 0 {
		return ErrNoWidth
	}

	style, err := resolveStyle(props)
	if err != nil {
		return err
	}

	var lines []string
	switch props.Wrap {
	case tree.TruncateEnd:
		lines = []string{textfit.TruncateEnd(props.Content, info.Width)}
	case tree.TruncateStart:
		lines = []string{textfit.TruncateStart(props.Content, info.Width)}
	case tree.TruncateMiddle:
		lines = []string{textfit.TruncateMiddle(props.Content, info.Width)}
	default:
		lines = textfit.Wrap(props.Content, info.Width)
	}

	for i, line := range lines {
		if i >= info.Height {
			break
		}
		p.writeString(info.X, info.Y+i, line, style)
	}
	return nil
}

// paintStatic emits the node's frozen content, freezing it from the
// subtree's rendered text at the first successful composition.
func (c *Compositor) paintStatic(t *tree.Tree, res *layout.Result, n *tree.Node, info core.LayoutInfo, p *painter, errs *[]error) {
	if !n.Static.FrozenSet {
		lines, ok := c.renderSubtreeText(t, res, n, info, errs)
		if !ok {
			return
		}
		n.Static.Frozen = lines
		n.Static.FrozenSet = true
	}

	style := core.DefaultStyle()
	for i, line := range n.Static.Frozen {
		if i >= info.Height {
			break
		}
		p.writeString(info.X, info.Y+i, line, style)
	}
}

// paintTransform renders the subtree to plain text, applies the named
// transform, and emits the result.
func (c *Compositor) paintTransform(t *tree.Tree, res *layout.Result, n *tree.Node, info core.LayoutInfo, p *painter, errs *[]error) {
	if c.transforms == nil {
		*errs = append(*errs, NewError(n.ID, transform.ErrNotFound))
		return
	}

	lines, ok := c.renderSubtreeText(t, res, n, info, errs)
	if !ok {
		return
	}

	out, err := c.transforms.Apply(n.Transform.Name, strings.Join(lines, "\n"))
	if err != nil {
		*errs = append(*errs, NewError(n.ID, err))
		return
	}

	style := core.DefaultStyle()
	for i, line := range strings.Split(out, "\n") {
		if i >= info.Height {
			break
		}
		p.writeString(info.X, info.Y+i, line, style)
	}
}

// renderSubtreeText composes the node's children into a scratch area
// and returns the rendered rows as plain strings.
func (c *Compositor) renderSubtreeText(t *tree.Tree, res *layout.Result, n *tree.Node, info core.LayoutInfo, errs *[]error) ([]string, bool) {
	if info.Width <= 0 || info.Height <= 0 {
		*errs = append(*errs, NewError(n.ID, ErrNoWidth))
		return nil, false
	}

	scratch := newPainter(info.Width, info.Height, info.X, info.Y)
	c.paintChildren(t, res, n, scratch, errs)

	lines := make([]string, info.Height)
	for y := 0; y < info.Height; y++ {
		lines[y] = scratch.rowText(y)
	}
	return lines, true
}

// paintBorder draws a single-line box border just inside the node's
// rect.
func (c *Compositor) paintBorder(info core.LayoutInfo, n *tree.Node, p *painter) error {
	if info.Width < 2 || info.Height < 2 {
		return ErrNoWidth
	}

	fg, err := core.ParseColor(n.Box.BorderColor)
	if err != nil {
		return err
	}
	style := core.DefaultStyle()
	style.Foreground = fg

	right := info.X + info.Width - 1
	bottom := info.Y + info.Height - 1

	p.setCell(info.X, info.Y, '┌', style)
	p.setCell(right, info.Y, '┐', style)
	p.setCell(info.X, bottom, '└', style)
	p.setCell(right, bottom, '┘', style)
	for x := info.X + 1; x < right; x++ {
		p.setCell(x, info.Y, '─', style)
		p.setCell(x, bottom, '─', style)
	}
	for y := info.Y + 1; y < bottom; y++ {
		p.setCell(info.X, y, '│', style)
		p.setCell(right, y, '│', style)
	}
	return nil
}

// resolveStyle turns text props into a concrete style, rejecting
// unresolvable colors.
func resolveStyle(props *tree.TextProps) (core.Style, error) {
	style := core.DefaultStyle()

	fg, err := core.ParseColor(props.Color)
	if err != nil {
		return style, err
	}
	bg, err := core.ParseColor(props.Background)
	if err != nil {
		return style, err
	}
	style.Foreground = fg
	style.Background = bg

	if props.Bold {
		style.Attrs = style.Attrs.With(core.AttrBold)
	}
	if props.Italic {
		style.Attrs = style.Attrs.With(core.AttrItalic)
	}
	if props.Underline {
		style.Attrs = style.Attrs.With(core.AttrUnderline)
	}
	if props.Strikethrough {
		style.Attrs = style.Attrs.With(core.AttrStrikethrough)
	}
	if props.Dim {
		style.Attrs = style.Attrs.With(core.AttrDim)
	}
	if props.Inverse {
		style.Attrs = style.Attrs.With(core.AttrInverse)
	}
	return style, nil
}

// cell is one grid position during painting.
type cell struct {
	r     rune
	style core.Style
	set   bool
}

// painter accumulates cells for one rectangular area. Coordinates
// passed to write methods are absolute; origin maps them into the
// grid.
type painter struct {
	width   int
	height  int
	originX int
	originY int
	cells   [][]cell
}

func newPainter(width, height, originX, originY int) *painter {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
	}
	return &painter{
		width:   width,
		height:  height,
		originX: originX,
		originY: originY,
		cells:   cells,
	}
}

// setCell places one rune, clipping to the grid.
func (p *painter) setCell(x, y int, r rune, style core.Style) {
	x -= p.originX
	y -= p.originY
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.cells[y][x] = cell{r: r, style: style, set: true}
}

// writeString places a string starting at (x, y), accounting for wide
// runes and clipping at the right edge.
func (p *painter) writeString(x, y int, s string, style core.Style) {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		p.setCell(col, y, r, style)
		if w == 2 {
			// Continuation cell of a wide rune: occupied, draws
			// nothing of its own.
			p.setCell(col+1, y, 0, style)
			col++
		}
		col++
	}
}

// rowText returns the plain text of one row, trailing blanks trimmed.
func (p *painter) rowText(y int) string {
	if y < 0 || y >= p.height {
		return ""
	}
	var sb strings.Builder
	for _, cl := range p.cells[y] {
		switch {
		case cl.set && cl.r != 0:
			sb.WriteRune(cl.r)
		case !cl.set:
			sb.WriteByte(' ')
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// buffer collapses the grid into a segment buffer: runs of cells with
// equal style become one segment, trailing blanks are dropped.
func (p *painter) buffer() *core.Buffer {
	buf := core.NewBuffer(p.width, p.height)

	for y := 0; y < p.height; y++ {
		row := p.cells[y]

		last := -1
		for x := p.width - 1; x >= 0; x-- {
			if row[x].set {
				last = x
				break
			}
		}
		if last < 0 {
			continue
		}

		var segs []core.Segment
		var sb strings.Builder
		cur := core.DefaultStyle()

		flush := func() {
			if sb.Len() > 0 {
				segs = append(segs, core.Segment{Text: sb.String(), Style: cur})
				sb.Reset()
			}
		}

		for x := 0; x <= last; x++ {
			cl := row[x]
			if cl.set && cl.r == 0 {
				// Continuation cell of a wide rune.
				continue
			}
			r := cl.r
			style := cl.style
			if !cl.set {
				r = ' '
				style = core.DefaultStyle()
			}
			if sb.Len() > 0 && !style.Equals(cur) {
				flush()
			}
			cur = style
			sb.WriteRune(r)
		}
		flush()
		buf.Lines[y] = core.Line{Segments: segs}
	}
	return buf
}
