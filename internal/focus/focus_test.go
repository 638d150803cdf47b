package focus

import (
	"errors"
	"testing"

	"github.com/dshills/flexterm/internal/tree"
)

func TestSetFocusAndClear(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2, 3})

	if err := m.SetFocus(2); err != nil {
		t.Fatal(err)
	}
	if m.Focused() != 2 {
		t.Errorf("focused = %d, want 2", m.Focused())
	}

	m.ClearFocus()
	if m.Focused() != tree.None {
		t.Errorf("focused after clear = %d, want none", m.Focused())
	}
}

func TestSetFocusRejectsUnknownNode(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2})
	if err := m.SetFocus(1); err != nil {
		t.Fatal(err)
	}

	err := m.SetFocus(9)
	if !errors.Is(err, ErrNotFocusable) {
		t.Fatalf("SetFocus(9) = %v, want ErrNotFocusable", err)
	}
	var fe *Error
	if !errors.As(err, &fe) || fe.NodeID != 9 {
		t.Errorf("error should carry node 9, got %v", err)
	}
	if m.Focused() != 1 {
		t.Error("failed SetFocus must leave focus unchanged")
	}
	if m.HistoryLen() != 0 {
		t.Error("failed SetFocus must leave history unchanged")
	}
}

// Cycling through the full ring returns to the starting node.
func TestMoveNextWrapsAround(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2, 3})
	if err := m.SetFocus(1); err != nil {
		t.Fatal(err)
	}

	want := []tree.NodeID{2, 3, 1}
	for i, w := range want {
		m.MoveNext()
		if m.Focused() != w {
			t.Errorf("step %d: focused = %d, want %d", i, m.Focused(), w)
		}
	}
}

func TestMovePreviousWrapsAround(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2, 3})
	if err := m.SetFocus(1); err != nil {
		t.Fatal(err)
	}

	m.MovePrevious()
	if m.Focused() != 3 {
		t.Errorf("focused = %d, want 3", m.Focused())
	}
}

func TestMoveNextFromNothingTakesFirst(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{4, 5})

	m.MoveNext()
	if m.Focused() != 4 {
		t.Errorf("focused = %d, want 4", m.Focused())
	}
}

func TestMoveOnEmptyRingIsNoop(t *testing.T) {
	m := NewManager()
	m.MoveNext()
	m.MovePrevious()
	if m.Focused() != tree.None {
		t.Errorf("focused = %d, want none", m.Focused())
	}
}

func TestHistoryRestore(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2, 3})

	if err := m.SetFocus(1); err != nil {
		t.Fatal(err)
	}
	if err := m.SetFocus(2); err != nil {
		t.Fatal(err)
	}
	if m.HistoryLen() != 1 {
		t.Fatalf("history depth = %d, want 1", m.HistoryLen())
	}

	m.RestorePrevious()
	if m.Focused() != 1 {
		t.Errorf("restored focus = %d, want 1", m.Focused())
	}
}

func TestRestoreSkipsDepartedNodes(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2, 3})
	if err := m.SetFocus(1); err != nil {
		t.Fatal(err)
	}
	if err := m.SetFocus(2); err != nil {
		t.Fatal(err)
	}

	// Node 1 unmounts; restore must skip it.
	m.SetOrder([]tree.NodeID{2, 3})
	m.RestorePrevious()
	if m.Focused() != tree.None {
		t.Errorf("restore over departed node = %d, want none", m.Focused())
	}
}

func TestSetOrderClearsDepartedFocus(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2})
	if err := m.SetFocus(2); err != nil {
		t.Fatal(err)
	}

	m.SetOrder([]tree.NodeID{1})
	if m.Focused() != tree.None {
		t.Errorf("focused = %d, want none after node departed", m.Focused())
	}
}

func TestClearFocusLeavesHistory(t *testing.T) {
	m := NewManager()
	m.SetOrder([]tree.NodeID{1, 2})
	if err := m.SetFocus(1); err != nil {
		t.Fatal(err)
	}
	if err := m.SetFocus(2); err != nil {
		t.Fatal(err)
	}

	m.ClearFocus()
	if m.HistoryLen() != 1 {
		t.Errorf("history depth = %d, want 1 after ClearFocus", m.HistoryLen())
	}
}
