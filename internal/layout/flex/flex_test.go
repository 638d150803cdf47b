package flex

import (
	"errors"
	"testing"
)

func mustLayout(t *testing.T, p *Pool, h Handle) Layout {
	t.Helper()
	lay, err := p.ComputedLayout(h)
	if err != nil {
		t.Fatalf("ComputedLayout error = %v", err)
	}
	return lay
}

func TestPoolHandleLifecycle(t *testing.T) {
	p := NewPool()

	h := p.NewNode()
	if !h.Valid() {
		t.Fatal("new handle should be valid")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}

	if err := p.Free(h); err != nil {
		t.Fatalf("Free error = %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}

	if err := p.Free(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("double Free error = %v, want ErrStaleHandle", err)
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	p := NewPool()

	old := p.NewNode()
	if err := p.Free(old); err != nil {
		t.Fatal(err)
	}

	// The slot is reused but the generation advances.
	fresh := p.NewNode()
	if _, err := p.ComputedLayout(old); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("stale handle error = %v, want ErrStaleHandle", err)
	}
	if _, err := p.ComputedLayout(fresh); err != nil {
		t.Errorf("fresh handle error = %v", err)
	}
}

func TestZeroHandleInvalid(t *testing.T) {
	p := NewPool()
	if err := p.Free(Handle{}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Free(zero) error = %v, want ErrInvalidHandle", err)
	}
}

func TestCalculateRootFillsAvailable(t *testing.T) {
	p := NewPool()
	root := p.NewNode()

	if err := p.Calculate(root, 80, 24); err != nil {
		t.Fatalf("Calculate error = %v", err)
	}

	lay := mustLayout(t, p, root)
	if lay.Width != 80 || lay.Height != 24 {
		t.Errorf("root = %dx%d, want 80x24", lay.Width, lay.Height)
	}
}

func TestColumnStacksChildren(t *testing.T) {
	p := NewPool()
	root := p.NewNode()

	a := p.NewNode()
	b := p.NewNode()
	cfg := DefaultConfig()
	cfg.Height = 3
	if err := p.SetConfig(a, cfg); err != nil {
		t.Fatal(err)
	}
	cfg.Height = 5
	if err := p.SetConfig(b, cfg); err != nil {
		t.Fatal(err)
	}
	if err := p.SetChildren(root, []Handle{a, b}); err != nil {
		t.Fatal(err)
	}

	if err := p.Calculate(root, 20, 20); err != nil {
		t.Fatalf("Calculate error = %v", err)
	}

	la := mustLayout(t, p, a)
	lb := mustLayout(t, p, b)
	if la.Top != 0 || la.Height != 3 {
		t.Errorf("a = top %d height %d, want 0/3", la.Top, la.Height)
	}
	if lb.Top != 3 || lb.Height != 5 {
		t.Errorf("b = top %d height %d, want 3/5", lb.Top, lb.Height)
	}
	// Stretch is the default cross-axis behavior.
	if la.Width != 20 {
		t.Errorf("a width = %d, want 20 (stretch)", la.Width)
	}
}

func TestRowGrowDistribution(t *testing.T) {
	p := NewPool()
	root := p.NewNode()
	rootCfg := DefaultConfig()
	rootCfg.Direction = Row
	if err := p.SetConfig(root, rootCfg); err != nil {
		t.Fatal(err)
	}

	a := p.NewNode()
	b := p.NewNode()
	cfg := DefaultConfig()
	cfg.Grow = 1
	cfg.Basis = 0
	if err := p.SetConfig(a, cfg); err != nil {
		t.Fatal(err)
	}
	cfg.Grow = 3
	if err := p.SetConfig(b, cfg); err != nil {
		t.Fatal(err)
	}
	if err := p.SetChildren(root, []Handle{a, b}); err != nil {
		t.Fatal(err)
	}

	if err := p.Calculate(root, 40, 10); err != nil {
		t.Fatalf("Calculate error = %v", err)
	}

	la := mustLayout(t, p, a)
	lb := mustLayout(t, p, b)
	if la.Width != 10 {
		t.Errorf("a width = %d, want 10", la.Width)
	}
	if lb.Width != 30 {
		t.Errorf("b width = %d, want 30", lb.Width)
	}
	if lb.Left != 10 {
		t.Errorf("b left = %d, want 10", lb.Left)
	}
	if la.Width+lb.Width != 40 {
		t.Errorf("grow should consume all free space, got %d", la.Width+lb.Width)
	}
}

func TestShrinkWhenOverflowing(t *testing.T) {
	p := NewPool()
	root := p.NewNode()
	rootCfg := DefaultConfig()
	rootCfg.Direction = Row
	if err := p.SetConfig(root, rootCfg); err != nil {
		t.Fatal(err)
	}

	a := p.NewNode()
	cfg := DefaultConfig()
	cfg.Width = 30
	if err := p.SetConfig(a, cfg); err != nil {
		t.Fatal(err)
	}
	if err := p.SetChildren(root, []Handle{a}); err != nil {
		t.Fatal(err)
	}

	if err := p.Calculate(root, 20, 5); err != nil {
		t.Fatalf("Calculate error = %v", err)
	}

	la := mustLayout(t, p, a)
	if la.Width > 20 || la.Width < 0 {
		t.Errorf("shrunk width = %d, want within [0,20]", la.Width)
	}
}

func TestPaddingAndBorderInsets(t *testing.T) {
	p := NewPool()
	root := p.NewNode()
	rootCfg := DefaultConfig()
	rootCfg.Padding = Edges{Top: 1, Right: 2, Bottom: 1, Left: 2}
	rootCfg.Border = 1
	if err := p.SetConfig(root, rootCfg); err != nil {
		t.Fatal(err)
	}

	a := p.NewNode()
	cfg := DefaultConfig()
	cfg.Height = 1
	if err := p.SetConfig(a, cfg); err != nil {
		t.Fatal(err)
	}
	if err := p.SetChildren(root, []Handle{a}); err != nil {
		t.Fatal(err)
	}

	if err := p.Calculate(root, 20, 10); err != nil {
		t.Fatalf("Calculate error = %v", err)
	}

	la := mustLayout(t, p, a)
	if la.Left != 3 || la.Top != 2 {
		t.Errorf("child at (%d,%d), want (3,2)", la.Left, la.Top)
	}
	// 20 - left/right padding (4) - border (2)
	if la.Width != 14 {
		t.Errorf("child width = %d, want 14", la.Width)
	}
}

func TestMeasureFuncDrivesLeafSize(t *testing.T) {
	p := NewPool()
	root := p.NewNode()

	leaf := p.NewNode()
	cfg := DefaultConfig()
	cfg.Measure = func(availWidth int) (int, int) {
		return 5, 2
	}
	if err := p.SetConfig(leaf, cfg); err != nil {
		t.Fatal(err)
	}
	if err := p.SetChildren(root, []Handle{leaf}); err != nil {
		t.Fatal(err)
	}

	if err := p.Calculate(root, 40, 10); err != nil {
		t.Fatalf("Calculate error = %v", err)
	}

	ll := mustLayout(t, p, leaf)
	if ll.Height != 2 {
		t.Errorf("leaf height = %d, want 2 (from measure)", ll.Height)
	}
}

func TestJustifyCenter(t *testing.T) {
	p := NewPool()
	root := p.NewNode()
	rootCfg := DefaultConfig()
	rootCfg.Direction = Row
	rootCfg.Justify = JustifyCenter
	if err := p.SetConfig(root, rootCfg); err != nil {
		t.Fatal(err)
	}

	a := p.NewNode()
	cfg := DefaultConfig()
	cfg.Width = 10
	if err := p.SetConfig(a, cfg); err != nil {
		t.Fatal(err)
	}
	if err := p.SetChildren(root, []Handle{a}); err != nil {
		t.Fatal(err)
	}

	if err := p.Calculate(root, 30, 5); err != nil {
		t.Fatal(err)
	}

	la := mustLayout(t, p, a)
	if la.Left != 10 {
		t.Errorf("centered child left = %d, want 10", la.Left)
	}
}

func TestAbsoluteChildPlacement(t *testing.T) {
	p := NewPool()
	root := p.NewNode()

	a := p.NewNode()
	cfg := DefaultConfig()
	cfg.Absolute = true
	cfg.Left = 4
	cfg.Top = 2
	cfg.Width = 6
	cfg.Height = 3
	if err := p.SetConfig(a, cfg); err != nil {
		t.Fatal(err)
	}
	if err := p.SetChildren(root, []Handle{a}); err != nil {
		t.Fatal(err)
	}

	if err := p.Calculate(root, 40, 20); err != nil {
		t.Fatal(err)
	}

	la := mustLayout(t, p, a)
	if la.Left != 4 || la.Top != 2 || la.Width != 6 || la.Height != 3 {
		t.Errorf("absolute child = %+v, want {4 2 6 3}", la)
	}
}

func TestCalculateRejectsNegativeArea(t *testing.T) {
	p := NewPool()
	root := p.NewNode()

	if err := p.Calculate(root, -1, 10); !errors.Is(err, ErrNegativeDimension) {
		t.Errorf("Calculate(-1, 10) error = %v, want ErrNegativeDimension", err)
	}
}
