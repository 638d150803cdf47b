package tree

import "fmt"

// Tree is the persistent render tree: a node arena indexed by id, the
// set of ids dirtied since the last commit, and a version counter that
// advances once per committed edit batch.
//
// The id counter is owned by the Tree instance, so independent trees
// never collide on ids.
type Tree struct {
	root    NodeID
	nodes   map[NodeID]*Node
	dirty   map[NodeID]struct{}
	version uint64
	nextID  NodeID
}

// New creates an empty tree containing a single mounted Root node.
func New() *Tree {
	t := &Tree{
		nodes: make(map[NodeID]*Node),
		dirty: make(map[NodeID]struct{}),
	}
	root := t.alloc(KindRoot)
	root.Mounted = true
	t.root = root.ID
	return t
}

// alloc creates a node of the given kind, assigns it a fresh id, and
// adds it to the index.
func (t *Tree) alloc(kind Kind) *Node {
	t.nextID++
	n := &Node{ID: t.nextID, Kind: kind}
	t.nodes[n.ID] = n
	return n
}

// NewNode creates an unattached node of the given kind with a default
// payload for its variant.
func (t *Tree) NewNode(kind Kind) *Node {
	n := t.alloc(kind)
	switch kind {
	case KindText:
		n.Text = &TextProps{}
	case KindBox:
		n.Box = &BoxProps{FlexShrink: 1}
	case KindNewline:
		n.Newline = &NewlineProps{Count: 1}
	case KindStatic:
		n.Static = &StaticProps{}
	case KindTransform:
		n.Transform = &TransformProps{}
	}
	return n
}

// NewNewline creates a Newline node, rejecting a non-positive count.
func (t *Tree) NewNewline(count int) (*Node, error) {
	if count <= 0 {
		return nil, NewRenderError(None, fmt.Errorf("%w: %d", ErrInvalidCount, count))
	}
	n := t.alloc(KindNewline)
	n.Newline = &NewlineProps{Count: count}
	return n, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// RootID returns the root node's id.
func (t *Tree) RootID() NodeID {
	return t.root
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

// Len returns the number of indexed nodes, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Version returns the current committed version.
func (t *Tree) Version() uint64 {
	return t.version
}

// Attach appends child to parent's child list. It fails with a render
// error if either node is unknown, the parent kind cannot carry
// children, the child already has a parent, or the attach would create
// a cycle.
func (t *Tree) Attach(parentID, childID NodeID) error {
	parent := t.nodes[parentID]
	if parent == nil {
		return NewRenderError(parentID, ErrNodeNotFound)
	}
	child := t.nodes[childID]
	if child == nil {
		return NewRenderError(childID, ErrNodeNotFound)
	}
	if !parent.Kind.CanHaveChildren() {
		return NewRenderError(parentID, fmt.Errorf("%w: %s", ErrNotAContainer, parent.Kind))
	}
	if child.Parent != None {
		return NewRenderError(childID, ErrAlreadyAttached)
	}
	for id := parentID; id != None; id = t.nodes[id].Parent {
		if id == childID {
			return NewRenderError(childID, ErrCycle)
		}
	}

	child.Parent = parentID
	parent.Children = append(parent.Children, childID)
	return nil
}

// Detach removes child from its parent's child list. The node stays in
// the index; Remove drops it entirely.
func (t *Tree) Detach(childID NodeID) error {
	child := t.nodes[childID]
	if child == nil {
		return NewRenderError(childID, ErrNodeNotFound)
	}
	if child.Parent == None {
		return nil
	}
	parent := t.nodes[child.Parent]
	if parent != nil {
		for i, id := range parent.Children {
			if id == childID {
				parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
				break
			}
		}
	}
	child.Parent = None
	return nil
}

// ReplaceChildren sets parent's child list to exactly ids, in order.
// Every id must be indexed and either unattached or already a child of
// parent. Used by the reconciler to apply a matched child ordering.
func (t *Tree) ReplaceChildren(parentID NodeID, ids []NodeID) error {
	parent := t.nodes[parentID]
	if parent == nil {
		return NewRenderError(parentID, ErrNodeNotFound)
	}
	if len(ids) > 0 && !parent.Kind.CanHaveChildren() {
		return NewRenderError(parentID, fmt.Errorf("%w: %s", ErrNotAContainer, parent.Kind))
	}
	for _, id := range ids {
		child := t.nodes[id]
		if child == nil {
			return NewRenderError(id, ErrNodeNotFound)
		}
		if child.Parent != None && child.Parent != parentID {
			return NewRenderError(id, ErrAlreadyAttached)
		}
	}
	for _, id := range ids {
		t.nodes[id].Parent = parentID
	}
	parent.Children = append(parent.Children[:0], ids...)
	return nil
}

// Remove detaches the node and deletes it, and its entire subtree,
// from the index and the dirty set.
func (t *Tree) Remove(id NodeID) error {
	n := t.nodes[id]
	if n == nil {
		return NewRenderError(id, ErrNodeNotFound)
	}
	if id == t.root {
		return NewRenderError(id, ErrNotAContainer)
	}
	if err := t.Detach(id); err != nil {
		return err
	}
	t.removeSubtree(n)
	return nil
}

func (t *Tree) removeSubtree(n *Node) {
	for _, childID := range n.Children {
		if child := t.nodes[childID]; child != nil {
			t.removeSubtree(child)
		}
	}
	delete(t.nodes, n.ID)
	delete(t.dirty, n.ID)
	n.Mounted = false
}

// MarkDirty flags a node for layout and render, adding it to the dirty
// set drained at the next commit.
func (t *Tree) MarkDirty(id NodeID) error {
	n := t.nodes[id]
	if n == nil {
		return NewRenderError(id, ErrNodeNotFound)
	}
	n.NeedsLayout = true
	n.NeedsRender = true
	t.dirty[id] = struct{}{}
	return nil
}

// IsDirty reports whether any node has been dirtied since the last
// commit.
func (t *Tree) IsDirty() bool {
	return len(t.dirty) > 0
}

// DirtyContains reports whether the given id is in the dirty set.
func (t *Tree) DirtyContains(id NodeID) bool {
	_, ok := t.dirty[id]
	return ok
}

// Commit ends an edit batch: it increments the version and returns the
// drained dirty set.
func (t *Tree) Commit() []NodeID {
	t.version++
	if len(t.dirty) == 0 {
		return nil
	}
	ids := make([]NodeID, 0, len(t.dirty))
	for id := range t.dirty {
		ids = append(ids, id)
		if n := t.nodes[id]; n != nil {
			n.NeedsLayout = false
			n.NeedsRender = false
		}
	}
	t.dirty = make(map[NodeID]struct{})
	return ids
}

// Walk visits the subtree rooted at id in document order (node before
// children, children in order). Walking stops when fn returns false.
func (t *Tree) Walk(id NodeID, fn func(*Node) bool) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, childID := range n.Children {
		t.Walk(childID, fn)
	}
}

// Validate checks the structural invariants: every node reachable from
// the root appears exactly once in the index, child/parent links agree,
// leaf kinds carry no children, payloads match kinds, and every dirty
// id is indexed.
func (t *Tree) Validate() error {
	seen := make(map[NodeID]bool, len(t.nodes))

	var check func(n *Node) error
	check = func(n *Node) error {
		if seen[n.ID] {
			return NewRenderError(n.ID, fmt.Errorf("node appears twice in tree"))
		}
		seen[n.ID] = true

		if t.nodes[n.ID] != n {
			return NewRenderError(n.ID, fmt.Errorf("index entry does not identify node"))
		}
		if len(n.Children) > 0 && !n.Kind.CanHaveChildren() {
			return NewRenderError(n.ID, fmt.Errorf("%w: %s", ErrNotAContainer, n.Kind))
		}
		if err := n.validatePayload(); err != nil {
			return err
		}
		for _, childID := range n.Children {
			child := t.nodes[childID]
			if child == nil {
				return NewRenderError(childID, ErrNodeNotFound)
			}
			if child.Parent != n.ID {
				return NewRenderError(childID, fmt.Errorf("parent link does not match child list"))
			}
			if err := check(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := check(t.Root()); err != nil {
		return err
	}

	for id := range t.dirty {
		if t.nodes[id] == nil {
			return NewRenderError(id, fmt.Errorf("dirty id not in index"))
		}
	}
	return nil
}

// validatePayload checks that the payload pointer matches the kind and
// satisfies its numeric constraints.
func (n *Node) validatePayload() error {
	switch n.Kind {
	case KindText:
		if n.Text == nil {
			return NewRenderError(n.ID, ErrMissingPayload)
		}
	case KindBox:
		if n.Box == nil {
			return NewRenderError(n.ID, ErrMissingPayload)
		}
		if n.Box.Width != nil && *n.Box.Width < 0 {
			return NewRenderError(n.ID, fmt.Errorf("negative width"))
		}
		if n.Box.Height != nil && *n.Box.Height < 0 {
			return NewRenderError(n.ID, fmt.Errorf("negative height"))
		}
	case KindNewline:
		if n.Newline == nil {
			return NewRenderError(n.ID, ErrMissingPayload)
		}
		if n.Newline.Count <= 0 {
			return NewRenderError(n.ID, fmt.Errorf("%w: %d", ErrInvalidCount, n.Newline.Count))
		}
	case KindStatic:
		if n.Static == nil {
			return NewRenderError(n.ID, ErrMissingPayload)
		}
	case KindTransform:
		if n.Transform == nil {
			return NewRenderError(n.ID, ErrMissingPayload)
		}
	}
	return nil
}
