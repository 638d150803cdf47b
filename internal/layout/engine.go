// Package layout wraps one flex node per render node and computes
// cached per-frame geometry. Handles are created and freed in
// lock-step with reconciler mount/unmount: each mounted node owns
// exactly one handle, released exactly once.
package layout

import (
	"time"

	"github.com/dshills/flexterm/internal/core"
	"github.com/dshills/flexterm/internal/layout/flex"
	"github.com/dshills/flexterm/internal/textfit"
	"github.com/dshills/flexterm/internal/tree"
)

// Request asks for geometry of the subtree rooted at NodeID within a
// terminal of the given dimensions. Force bypasses the cache.
type Request struct {
	NodeID tree.NodeID
	Width  int
	Height int
	Force  bool
}

// Result is the outcome of one layout pass.
type Result struct {
	// NodeID is the requested subtree root.
	NodeID tree.NodeID

	// Layout is the root's geometry.
	Layout core.LayoutInfo

	// ChildLayouts holds the geometry of every node in the subtree,
	// including the root.
	ChildLayouts map[tree.NodeID]core.LayoutInfo

	// Timestamp is a monotonic pass marker; a later pass always has
	// a strictly greater value.
	Timestamp int64
}

// Engine computes and caches flex geometry for a render tree.
type Engine struct {
	pool    *flex.Pool
	handles map[tree.NodeID]flex.Handle

	cache        *Result
	cacheWidth   int
	cacheHeight  int
	cacheVersion uint64

	lastStamp int64
	now       func() int64
}

// NewEngine creates an engine with an empty handle table.
func NewEngine() *Engine {
	return &Engine{
		pool:    flex.NewPool(),
		handles: make(map[tree.NodeID]flex.Handle),
		now:     func() int64 { return time.Now().UnixNano() },
	}
}

// Mount creates the flex handle for a newly mounted node and applies
// its style. Mounting a node twice is an error.
func (e *Engine) Mount(n *tree.Node) error {
	if _, ok := e.handles[n.ID]; ok {
		return NewError(n.ID, ErrAlreadyMounted)
	}
	h := e.pool.NewNode()
	e.handles[n.ID] = h
	return e.SetStyle(n)
}

// Unmount frees the node's flex handle. Only the reconciler calls
// this, exactly once per unmount; a second call is an error.
func (e *Engine) Unmount(id tree.NodeID) error {
	h, ok := e.handles[id]
	if !ok {
		return NewError(id, ErrNotMounted)
	}
	delete(e.handles, id)
	if err := e.pool.Free(h); err != nil {
		return NewError(id, err)
	}
	return nil
}

// Mounted reports whether the node currently owns a handle.
func (e *Engine) Mounted(id tree.NodeID) bool {
	_, ok := e.handles[id]
	return ok
}

// HandleCount returns the number of live handles, for leak checks.
func (e *Engine) HandleCount() int {
	return e.pool.Len()
}

// SetStyle translates the node's props into flex configuration.
func (e *Engine) SetStyle(n *tree.Node) error {
	h, ok := e.handles[n.ID]
	if !ok {
		return NewError(n.ID, ErrNotMounted)
	}
	if err := e.pool.SetConfig(h, styleFor(n)); err != nil {
		return NewError(n.ID, err)
	}
	return nil
}

// styleFor builds the flex config for one node variant.
func styleFor(n *tree.Node) flex.Config {
	cfg := flex.DefaultConfig()

	switch n.Kind {
	case tree.KindRoot, tree.KindStatic, tree.KindTransform:
		// Plain column containers.

	case tree.KindBox:
		b := n.Box
		if b.Width != nil {
			cfg.Width = *b.Width
		}
		if b.Height != nil {
			cfg.Height = *b.Height
		}
		cfg.MinWidth = b.MinWidth
		cfg.MinHeight = b.MinHeight
		cfg.Grow = b.FlexGrow
		cfg.Shrink = b.FlexShrink
		if b.FlexBasis != nil {
			cfg.Basis = *b.FlexBasis
		}
		if b.Direction == tree.DirectionRow {
			cfg.Direction = flex.Row
		}
		cfg.Justify = flex.Justify(b.Justify)
		cfg.Align = flex.Align(b.Align)
		cfg.Margin = flex.Edges(b.Margin)
		cfg.Padding = flex.Edges(b.Padding)
		cfg.Gap = b.Gap
		if b.Border {
			cfg.Border = 1
		}
		cfg.Absolute = b.Absolute
		cfg.Left = b.Left
		cfg.Top = b.Top

	case tree.KindText:
		content := n.Text.Content
		mode := n.Text.Wrap
		cfg.Measure = func(availWidth int) (int, int) {
			return measureText(content, mode, availWidth)
		}

	case tree.KindNewline:
		cfg.Width = 0
		cfg.Height = n.Newline.Count
		cfg.Shrink = 0

	case tree.KindSpacer:
		cfg.Grow = 1
		cfg.Basis = 0
		cfg.Shrink = 0
	}
	return cfg
}

// measureText reports the cell size of text content fitted at the
// given width.
func measureText(content string, mode tree.WrapMode, availWidth int) (int, int) {
	if content == "" {
		return 0, 0
	}
	if mode == tree.WrapNormal {
		lines := textfit.Wrap(content, availWidth)
		w := 0
		for _, line := range lines {
			if lw := textfit.Width(line); lw > w {
				w = lw
			}
		}
		return w, len(lines)
	}
	w := textfit.Width(content)
	if availWidth > 0 && w > availWidth {
		w = availWidth
	}
	return w, 1
}

// Layout computes geometry for the requested subtree. The cached
// result is returned unchanged when Force is false, the dimensions
// match the previous pass, the tree version is unchanged, and no node
// of the subtree is in the drained dirty set. A pass is all-or-
// nothing: on failure the previous cached result stays authoritative.
func (e *Engine) Layout(t *tree.Tree, req Request, dirty []tree.NodeID) (*Result, error) {
	root := t.Node(req.NodeID)
	if root == nil {
		return nil, NewError(req.NodeID, tree.ErrNodeNotFound)
	}

	if e.cacheValid(t, req, dirty) {
		return e.cache, nil
	}

	// Mirror the subtree into the flex pool: styles and child lists.
	var syncErr error
	t.Walk(req.NodeID, func(n *tree.Node) bool {
		h, ok := e.handles[n.ID]
		if !ok {
			// The tree root is created by the tree itself, not the
			// reconciler; give it a handle on first use.
			if n.Kind != tree.KindRoot {
				syncErr = NewError(n.ID, ErrNotMounted)
				return false
			}
			if err := e.Mount(n); err != nil {
				syncErr = err
				return false
			}
			h = e.handles[n.ID]
		}
		if err := e.pool.SetConfig(h, styleFor(n)); err != nil {
			syncErr = NewError(n.ID, err)
			return false
		}
		children := make([]flex.Handle, 0, len(n.Children))
		for _, childID := range n.Children {
			ch, ok := e.handles[childID]
			if !ok {
				syncErr = NewError(childID, ErrNotMounted)
				return false
			}
			children = append(children, ch)
		}
		if err := e.pool.SetChildren(h, children); err != nil {
			syncErr = NewError(n.ID, err)
			return false
		}
		return true
	})
	if syncErr != nil {
		return nil, syncErr
	}

	rootHandle := e.handles[req.NodeID]
	if err := e.pool.Calculate(rootHandle, req.Width, req.Height); err != nil {
		return nil, NewError(req.NodeID, err)
	}

	result := &Result{
		NodeID:       req.NodeID,
		ChildLayouts: make(map[tree.NodeID]core.LayoutInfo),
		Timestamp:    e.stamp(),
	}

	// Read computed geometry back, deriving absolute coordinates
	// from the parent chain.
	var readErr error
	var read func(n *tree.Node, absX, absY int)
	read = func(n *tree.Node, absX, absY int) {
		if readErr != nil {
			return
		}
		lay, err := e.pool.ComputedLayout(e.handles[n.ID])
		if err != nil {
			readErr = NewError(n.ID, err)
			return
		}
		info := core.LayoutInfo{
			X:      absX + lay.Left,
			Y:      absY + lay.Top,
			Width:  lay.Width,
			Height: lay.Height,
			Left:   lay.Left,
			Top:    lay.Top,
		}
		if !info.Valid() {
			readErr = NewError(n.ID, flex.ErrNegativeDimension)
			return
		}
		result.ChildLayouts[n.ID] = info
		for _, childID := range n.Children {
			if child := t.Node(childID); child != nil {
				read(child, info.X, info.Y)
			}
		}
	}
	read(root, 0, 0)
	if readErr != nil {
		return nil, readErr
	}

	// Write node geometry only once the whole read-back succeeded, so
	// a failed pass leaves every node on the previous result.
	for id, info := range result.ChildLayouts {
		if n := t.Node(id); n != nil {
			li := info
			n.Layout = &li
		}
	}

	result.Layout = result.ChildLayouts[req.NodeID]

	e.cache = result
	e.cacheWidth = req.Width
	e.cacheHeight = req.Height
	e.cacheVersion = t.Version()
	return result, nil
}

// cacheValid reports whether the previous result can be reused.
func (e *Engine) cacheValid(t *tree.Tree, req Request, dirty []tree.NodeID) bool {
	if req.Force || e.cache == nil || e.cache.NodeID != req.NodeID {
		return false
	}
	if req.Width != e.cacheWidth || req.Height != e.cacheHeight {
		return false
	}
	if t.Version() != e.cacheVersion {
		// A commit happened; reuse is still sound when nothing in
		// this subtree was dirtied.
		for _, id := range dirty {
			if _, ok := e.cache.ChildLayouts[id]; ok {
				return false
			}
		}
		e.cacheVersion = t.Version()
	}
	return true
}

// stamp returns a strictly increasing pass timestamp.
func (e *Engine) stamp() int64 {
	ts := e.now()
	if ts <= e.lastStamp {
		ts = e.lastStamp + 1
	}
	e.lastStamp = ts
	return ts
}
