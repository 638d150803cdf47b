// Package focus tracks which focusable node currently receives key
// events. Focus order is supplied by the reconciler in document order;
// movement wraps at both ends, and explicit focus changes push the
// previous holder onto a history stack so transient surfaces can
// restore it.
package focus

import (
	"errors"
	"fmt"

	"github.com/dshills/flexterm/internal/tree"
)

// ErrNotFocusable is returned when focus is requested for a node
// outside the focus order.
var ErrNotFocusable = errors.New("node is not focusable")

// Error is a focus operation failure tied to a node.
type Error struct {
	NodeID tree.NodeID
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("focus: node %d: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Manager owns the focus ring. The zero NodeID means nothing is
// focused. Not safe for concurrent use.
type Manager struct {
	order   []tree.NodeID
	focused tree.NodeID
	history []tree.NodeID
}

// NewManager creates an empty focus manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetOrder replaces the focus ring with ids in document order. If the
// currently focused node is no longer present, focus is cleared.
func (m *Manager) SetOrder(ids []tree.NodeID) {
	m.order = append(m.order[:0], ids...)
	if m.focused != tree.None && m.indexOf(m.focused) < 0 {
		m.focused = tree.None
	}
}

// Order returns the current focus ring.
func (m *Manager) Order() []tree.NodeID {
	return m.order
}

// Focused returns the focused node, or tree.None.
func (m *Manager) Focused() tree.NodeID {
	return m.focused
}

// SetFocus moves focus to id. The previous holder, if any, is pushed
// onto the history stack. Focusing a node outside the ring fails and
// leaves all focus state unchanged.
func (m *Manager) SetFocus(id tree.NodeID) error {
	if m.indexOf(id) < 0 {
		return &Error{NodeID: id, Cause: ErrNotFocusable}
	}
	if m.focused == id {
		return nil
	}
	if m.focused != tree.None {
		m.history = append(m.history, m.focused)
	}
	m.focused = id
	return nil
}

// MoveNext advances focus to the next node in the ring, wrapping past
// the end. With nothing focused it takes the first node. An empty ring
// is a no-op.
func (m *Manager) MoveNext() {
	if len(m.order) == 0 {
		return
	}
	i := m.indexOf(m.focused)
	m.focused = m.order[(i+1)%len(m.order)]
}

// MovePrevious moves focus to the previous node in the ring, wrapping
// past the start. With nothing focused it takes the last node.
func (m *Manager) MovePrevious() {
	if len(m.order) == 0 {
		return
	}
	i := m.indexOf(m.focused)
	if i < 0 {
		i = 0
	}
	m.focused = m.order[(i-1+len(m.order))%len(m.order)]
}

// ClearFocus drops focus without touching history.
func (m *Manager) ClearFocus() {
	m.focused = tree.None
}

// RestorePrevious pops the history stack and refocuses that node if it
// is still in the ring; entries for departed nodes are skipped. With
// an empty or exhausted history, focus is cleared.
func (m *Manager) RestorePrevious() {
	for len(m.history) > 0 {
		id := m.history[len(m.history)-1]
		m.history = m.history[:len(m.history)-1]
		if m.indexOf(id) >= 0 {
			m.focused = id
			return
		}
	}
	m.focused = tree.None
}

// HistoryLen reports the history stack depth.
func (m *Manager) HistoryLen() int {
	return len(m.history)
}

func (m *Manager) indexOf(id tree.NodeID) int {
	if id == tree.None {
		return -1
	}
	for i, o := range m.order {
		if o == id {
			return i
		}
	}
	return -1
}
