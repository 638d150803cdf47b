package reconcile

import (
	"fmt"

	"github.com/dshills/flexterm/internal/tree"
)

// Lifecycle receives mount and unmount notifications so the layout
// engine can create and free native handles in lock-step with the
// tree. Unmount is called exactly once per unmounted node.
type Lifecycle interface {
	Mount(n *tree.Node) error
	Unmount(id tree.NodeID) error
}

// Reconciler applies host edit batches to a render tree.
type Reconciler struct {
	tree *tree.Tree
	life Lifecycle
}

// New creates a reconciler over the given tree. life may be nil when
// no layout engine is attached (tests).
func New(t *tree.Tree, life Lifecycle) *Reconciler {
	return &Reconciler{tree: t, life: life}
}

// Tree returns the reconciler's render tree.
func (r *Reconciler) Tree() *tree.Tree {
	return r.tree
}

// Reconcile applies one host edit batch: the given elements become the
// root's children. The batch is validated up front and rejected as a
// whole on structural errors; on success the matched nodes are
// updated, new nodes mounted, and unmatched nodes unmounted.
func (r *Reconciler) Reconcile(els []*Element) error {
	for _, el := range els {
		if err := validate(el); err != nil {
			return err
		}
	}
	return r.reconcileChildren(r.tree.Root(), els)
}

// Commit ends the batch: the tree version advances and the drained
// dirty set is returned for the layout engine.
func (r *Reconciler) Commit() []tree.NodeID {
	return r.tree.Commit()
}

// validate checks an element subtree before any mutation, so a bad
// batch is rejected without partial application.
func validate(el *Element) error {
	if el == nil {
		return tree.NewRenderError(tree.None, fmt.Errorf("nil element"))
	}
	if el.Kind == tree.KindRoot {
		return tree.NewRenderError(tree.None, fmt.Errorf("root cannot appear in an edit batch"))
	}
	if len(el.Children) > 0 && !el.Kind.CanHaveChildren() {
		return tree.NewRenderError(tree.None, fmt.Errorf("%w: %s", tree.ErrNotAContainer, el.Kind))
	}
	if el.Kind == tree.KindNewline {
		count := 1
		if el.Newline != nil {
			count = el.Newline.Count
		}
		if count <= 0 {
			return tree.NewRenderError(tree.None, fmt.Errorf("%w: %d", tree.ErrInvalidCount, count))
		}
	}
	for _, child := range el.Children {
		if err := validate(child); err != nil {
			return err
		}
	}
	return nil
}

// reconcileChildren matches els against parent's existing children,
// reusing, mounting, and unmounting as needed.
func (r *Reconciler) reconcileChildren(parent *tree.Node, els []*Element) error {
	existing := make([]tree.NodeID, len(parent.Children))
	copy(existing, parent.Children)

	byKey := make(map[string]tree.NodeID)
	for _, id := range existing {
		if n := r.tree.Node(id); n != nil && n.Key != "" {
			byKey[n.Key] = id
		}
	}

	used := make(map[tree.NodeID]bool, len(existing))
	next := make([]tree.NodeID, 0, len(els))

	for i, el := range els {
		var match *tree.Node

		if el.Key != "" {
			if id, ok := byKey[el.Key]; ok && !used[id] {
				if n := r.tree.Node(id); n != nil && n.Kind == el.Kind {
					match = n
				}
			}
		} else if i < len(existing) && !used[existing[i]] {
			if n := r.tree.Node(existing[i]); n != nil && n.Kind == el.Kind && n.Key == "" {
				match = n
			}
		}

		if match == nil {
			n, err := r.mount(el)
			if err != nil {
				return err
			}
			next = append(next, n.ID)
			continue
		}

		used[match.ID] = true
		if err := r.update(match, el); err != nil {
			return err
		}
		next = append(next, match.ID)

		if match.Kind.CanHaveChildren() {
			if err := r.reconcileChildren(match, el.Children); err != nil {
				return err
			}
		}
	}

	for _, id := range existing {
		if !used[id] {
			if err := r.unmount(id); err != nil {
				return err
			}
		}
	}

	// A structural change (mount, unmount, reorder) dirties the parent
	// itself: new children have no entry in the previous layout pass,
	// so dirtying only them would not invalidate its cached result.
	if !sameIDs(existing, next) {
		if err := r.tree.MarkDirty(parent.ID); err != nil {
			return err
		}
	}

	return r.tree.ReplaceChildren(parent.ID, next)
}

// sameIDs reports whether two child lists are identical in content
// and order.
func sameIDs(a, b []tree.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mount creates a node for el, notifies the lifecycle, and recurses
// into el's children.
func (r *Reconciler) mount(el *Element) (*tree.Node, error) {
	n := r.tree.NewNode(el.Kind)
	n.Key = el.Key
	n.Focusable = el.Focusable
	applyProps(n, el)
	n.Mounted = true

	if r.life != nil {
		if err := r.life.Mount(n); err != nil {
			return nil, err
		}
	}
	if err := r.tree.MarkDirty(n.ID); err != nil {
		return nil, err
	}

	if len(el.Children) > 0 {
		if err := r.reconcileChildren(n, el.Children); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// update applies el's props to an existing node, dirtying it only when
// something changed.
func (r *Reconciler) update(n *tree.Node, el *Element) error {
	changed := n.Focusable != el.Focusable || propsChanged(n, el)
	n.Focusable = el.Focusable
	applyProps(n, el)

	if changed {
		if err := r.tree.MarkDirty(n.ID); err != nil {
			return err
		}
		if r.life != nil {
			if eng, ok := r.life.(styleSetter); ok {
				if err := eng.SetStyle(n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// styleSetter is implemented by the layout engine; updates push the
// node's new props into its native handle.
type styleSetter interface {
	SetStyle(n *tree.Node) error
}

// unmount detaches and removes a subtree, freeing each node's layout
// handle exactly once, children first.
func (r *Reconciler) unmount(id tree.NodeID) error {
	n := r.tree.Node(id)
	if n == nil {
		return tree.NewRenderError(id, tree.ErrNodeNotFound)
	}

	var ids []tree.NodeID
	r.tree.Walk(id, func(node *tree.Node) bool {
		ids = append(ids, node.ID)
		return true
	})

	if r.life != nil {
		// Free depth-last so parents outlive children in the pool.
		for i := len(ids) - 1; i >= 0; i-- {
			if err := r.life.Unmount(ids[i]); err != nil {
				return err
			}
		}
	}
	return r.tree.Remove(id)
}

// applyProps copies the element payload onto the node, deep enough
// that later host mutations of the element cannot alias tree state.
func applyProps(n *tree.Node, el *Element) {
	switch el.Kind {
	case tree.KindText:
		p := tree.TextProps{}
		if el.Text != nil {
			p = *el.Text
		}
		n.Text = &p
	case tree.KindBox:
		p := tree.BoxProps{FlexShrink: 1}
		if el.Box != nil {
			p = *el.Box
			p.Width = copyInt(el.Box.Width)
			p.Height = copyInt(el.Box.Height)
			p.FlexBasis = copyInt(el.Box.FlexBasis)
		}
		n.Box = &p
	case tree.KindNewline:
		p := tree.NewlineProps{Count: 1}
		if el.Newline != nil {
			p = *el.Newline
		}
		n.Newline = &p
	case tree.KindStatic:
		if n.Static == nil {
			n.Static = &tree.StaticProps{}
		}
	case tree.KindTransform:
		p := tree.TransformProps{}
		if el.Transform != nil {
			p = *el.Transform
		}
		n.Transform = &p
	}
}

// propsChanged reports whether el's payload differs from the node's.
func propsChanged(n *tree.Node, el *Element) bool {
	switch el.Kind {
	case tree.KindText:
		want := tree.TextProps{}
		if el.Text != nil {
			want = *el.Text
		}
		return n.Text == nil || *n.Text != want
	case tree.KindBox:
		want := tree.BoxProps{FlexShrink: 1}
		if el.Box != nil {
			want = *el.Box
		}
		return n.Box == nil || !boxEqual(*n.Box, want)
	case tree.KindNewline:
		want := 1
		if el.Newline != nil {
			want = el.Newline.Count
		}
		return n.Newline == nil || n.Newline.Count != want
	case tree.KindTransform:
		want := tree.TransformProps{}
		if el.Transform != nil {
			want = *el.Transform
		}
		return n.Transform == nil || *n.Transform != want
	default:
		return false
	}
}

// boxEqual compares box props, dereferencing the optional dimensions.
func boxEqual(a, b tree.BoxProps) bool {
	if !intPtrEqual(a.Width, b.Width) || !intPtrEqual(a.Height, b.Height) || !intPtrEqual(a.FlexBasis, b.FlexBasis) {
		return false
	}
	a.Width, a.Height, a.FlexBasis = nil, nil, nil
	b.Width, b.Height, b.FlexBasis = nil, nil, nil
	return a == b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
