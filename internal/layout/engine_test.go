package layout

import (
	"errors"
	"testing"

	"github.com/dshills/flexterm/internal/tree"
)

// buildTree mounts a Box containing a Text node and returns the tree,
// engine, and the two nodes.
func buildTree(t *testing.T) (*tree.Tree, *Engine, *tree.Node, *tree.Node) {
	t.Helper()

	tr := tree.New()
	eng := NewEngine()

	box := tr.NewNode(tree.KindBox)
	text := tr.NewNode(tree.KindText)
	text.Text.Content = "Hello"

	if err := tr.Attach(tr.RootID(), box.ID); err != nil {
		t.Fatal(err)
	}
	if err := tr.Attach(box.ID, text.ID); err != nil {
		t.Fatal(err)
	}
	if err := eng.Mount(box); err != nil {
		t.Fatal(err)
	}
	if err := eng.Mount(text); err != nil {
		t.Fatal(err)
	}
	box.Mounted = true
	text.Mounted = true
	return tr, eng, box, text
}

func TestLayoutBasic(t *testing.T) {
	tr, eng, box, text := buildTree(t)
	tr.Commit()

	res, err := eng.Layout(tr, Request{NodeID: tr.RootID(), Width: 10, Height: 3}, nil)
	if err != nil {
		t.Fatalf("Layout error = %v", err)
	}

	if res.Layout.Width != 10 || res.Layout.Height != 3 {
		t.Errorf("root = %dx%d, want 10x3", res.Layout.Width, res.Layout.Height)
	}

	boxInfo, ok := res.ChildLayouts[box.ID]
	if !ok {
		t.Fatal("box missing from ChildLayouts")
	}
	if boxInfo.Width != 10 {
		t.Errorf("box width = %d, want 10", boxInfo.Width)
	}

	textInfo, ok := res.ChildLayouts[text.ID]
	if !ok {
		t.Fatal("text missing from ChildLayouts")
	}
	if textInfo.Height != 1 {
		t.Errorf("text height = %d, want 1", textInfo.Height)
	}
	if text.Layout == nil {
		t.Error("node.Layout should be set after a pass")
	}
}

func TestLayoutCacheHit(t *testing.T) {
	tr, eng, _, _ := buildTree(t)
	tr.Commit()

	req := Request{NodeID: tr.RootID(), Width: 80, Height: 24}
	first, err := eng.Layout(tr, req, nil)
	if err != nil {
		t.Fatal(err)
	}

	second, err := eng.Layout(tr, req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("unchanged request should return the cached result")
	}
}

func TestLayoutDirtyInvalidatesCache(t *testing.T) {
	tr, eng, box, _ := buildTree(t)
	tr.Commit()

	req := Request{NodeID: tr.RootID(), Width: 80, Height: 24}
	first, err := eng.Layout(tr, req, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.MarkDirty(box.ID); err != nil {
		t.Fatal(err)
	}
	dirty := tr.Commit()

	second, err := eng.Layout(tr, req, dirty)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("dirty subtree should force a fresh pass")
	}
	if second.Timestamp <= first.Timestamp {
		t.Errorf("timestamp %d should exceed %d", second.Timestamp, first.Timestamp)
	}
}

// Resizing forces a fresh pass even with an empty dirty set, and the
// new result carries a strictly newer timestamp.
func TestLayoutResizeForcesFreshPass(t *testing.T) {
	tr, eng, _, _ := buildTree(t)
	tr.Commit()

	first, err := eng.Layout(tr, Request{NodeID: tr.RootID(), Width: 80, Height: 24}, nil)
	if err != nil {
		t.Fatal(err)
	}

	second, err := eng.Layout(tr, Request{NodeID: tr.RootID(), Width: 40, Height: 12, Force: true}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if second == first {
		t.Error("forced pass should not return the cached result")
	}
	if second.Timestamp <= first.Timestamp {
		t.Errorf("timestamp %d should exceed %d", second.Timestamp, first.Timestamp)
	}
	if second.Layout.Width != 40 || second.Layout.Height != 12 {
		t.Errorf("root = %dx%d, want 40x12", second.Layout.Width, second.Layout.Height)
	}
}

func TestLayoutErrorKeepsCache(t *testing.T) {
	tr, eng, _, _ := buildTree(t)
	tr.Commit()

	req := Request{NodeID: tr.RootID(), Width: 80, Height: 24}
	first, err := eng.Layout(tr, req, nil)
	if err != nil {
		t.Fatal(err)
	}

	// A negative dimension aborts the whole pass.
	if _, err := eng.Layout(tr, Request{NodeID: tr.RootID(), Width: -5, Height: 24, Force: true}, nil); err == nil {
		t.Fatal("negative width should fail the pass")
	}

	again, err := eng.Layout(tr, req, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Error("failed pass should leave the previous cached result authoritative")
	}
}

func TestFailedPassLeavesNodeGeometry(t *testing.T) {
	tr, eng, box, text := buildTree(t)
	tr.Commit()

	req := Request{NodeID: tr.RootID(), Width: 80, Height: 24}
	if _, err := eng.Layout(tr, req, nil); err != nil {
		t.Fatal(err)
	}
	before := *text.Layout

	// An unmounted child fails the pass partway through.
	orphan := tr.NewNode(tree.KindText)
	if err := tr.Attach(box.ID, orphan.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Layout(tr, Request{NodeID: tr.RootID(), Width: 40, Height: 12, Force: true}, nil); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("error = %v, want ErrNotMounted", err)
	}

	if *text.Layout != before {
		t.Errorf("failed pass rewrote node geometry: %+v, want %+v", *text.Layout, before)
	}
}

func TestMountUnmountLifecycle(t *testing.T) {
	tr := tree.New()
	eng := NewEngine()

	box := tr.NewNode(tree.KindBox)
	if err := eng.Mount(box); err != nil {
		t.Fatalf("Mount error = %v", err)
	}
	if err := eng.Mount(box); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("second Mount error = %v, want ErrAlreadyMounted", err)
	}
	if eng.HandleCount() != 1 {
		t.Errorf("HandleCount = %d, want 1", eng.HandleCount())
	}

	if err := eng.Unmount(box.ID); err != nil {
		t.Fatalf("Unmount error = %v", err)
	}
	if err := eng.Unmount(box.ID); !errors.Is(err, ErrNotMounted) {
		t.Errorf("double Unmount error = %v, want ErrNotMounted", err)
	}
	if eng.HandleCount() != 0 {
		t.Errorf("HandleCount = %d, want 0 (leak)", eng.HandleCount())
	}
}

func TestLayoutErrorTagsNode(t *testing.T) {
	tr := tree.New()
	eng := NewEngine()

	if _, err := eng.Layout(tr, Request{NodeID: tree.NodeID(999), Width: 10, Height: 10}, nil); err != nil {
		var lerr *Error
		if !errors.As(err, &lerr) {
			t.Fatalf("error %v should be a *layout.Error", err)
		}
		if lerr.NodeID != tree.NodeID(999) {
			t.Errorf("NodeID = %d, want 999", lerr.NodeID)
		}
	} else {
		t.Fatal("unknown node should fail")
	}
}
