// Package pipeline sequences one frame: reconcile pending edits,
// lay out the tree, compose the output buffer, diff against the last
// frame, and flush to the terminal. Each stage either completes or
// aborts the frame; nothing partial ever reaches the writer.
package pipeline

import (
	"errors"

	"github.com/dshills/flexterm/internal/compose"
	"github.com/dshills/flexterm/internal/core"
	"github.com/dshills/flexterm/internal/diff"
	"github.com/dshills/flexterm/internal/focus"
	"github.com/dshills/flexterm/internal/layout"
	"github.com/dshills/flexterm/internal/reconcile"
	"github.com/dshills/flexterm/internal/transform"
	"github.com/dshills/flexterm/internal/tree"
)

// Stage identifies where the pipeline currently is in a frame.
type Stage uint8

const (
	StageIdle Stage = iota
	StageReconciling
	StageLayoutPending
	StageLayoutComputing
	StageComposing
	StageDiffing
	StageFlushing
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageReconciling:
		return "reconciling"
	case StageLayoutPending:
		return "layoutPending"
	case StageLayoutComputing:
		return "layoutComputing"
	case StageComposing:
		return "composing"
	case StageDiffing:
		return "diffing"
	case StageFlushing:
		return "flushing"
	default:
		return "unknown"
	}
}

// ErrNoDimensions is returned when a frame is requested before the
// terminal size is known.
var ErrNoDimensions = errors.New("terminal dimensions not set")

// Writer flushes composed frames to the terminal. The first frame of
// a session goes through WriteFull; later frames arrive as diffs.
type Writer interface {
	WriteFull(buf *core.Buffer) error
	WriteDiff(d *diff.Diff) error
	Clear() error
	Flush() error
	Exit() error
}

// Pipeline owns one render tree and drives it through the frame
// stages. Not safe for concurrent use; callers serialize Submit,
// Resize, and RenderFrame.
type Pipeline struct {
	tree       *tree.Tree
	engine     *layout.Engine
	reconciler *reconcile.Reconciler
	compositor *compose.Compositor
	focus      *focus.Manager
	writer     Writer

	width  int
	height int
	force  bool

	pending    []*reconcile.Element
	hasPending bool

	previous *core.Buffer
	painted  bool

	stage Stage
}

// New wires a pipeline over a fresh tree. reg supplies the named
// transforms available to transform nodes; nil means builtins only.
func New(w Writer, reg *transform.Registry) *Pipeline {
	if reg == nil {
		reg = transform.NewRegistry()
	}
	t := tree.New()
	eng := layout.NewEngine()
	return &Pipeline{
		tree:       t,
		engine:     eng,
		reconciler: reconcile.New(t, eng),
		compositor: compose.New(reg),
		focus:      focus.NewManager(),
		writer:     w,
	}
}

// Tree exposes the render tree for inspection.
func (p *Pipeline) Tree() *tree.Tree {
	return p.tree
}

// Focus exposes the focus manager.
func (p *Pipeline) Focus() *focus.Manager {
	return p.focus
}

// Stage reports the current frame stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Submit stages an edit batch for the next frame. Batches submitted
// between frames coalesce: only the most recent one is applied.
func (p *Pipeline) Submit(els []*reconcile.Element) {
	p.pending = els
	p.hasPending = true
}

// Resize records new terminal dimensions and forces a full relayout
// and repaint on the next frame.
func (p *Pipeline) Resize(width, height int) {
	p.width = width
	p.height = height
	p.force = true
	p.painted = false
}

// Dirty reports whether the next RenderFrame has work to do.
func (p *Pipeline) Dirty() bool {
	return p.hasPending || p.force || p.tree.IsDirty()
}

// RenderFrame runs one complete frame. A stage error aborts the frame
// and returns the pipeline to idle with nothing written; node-local
// compose errors degrade those nodes and are returned after a
// successful flush.
func (p *Pipeline) RenderFrame() ([]error, error) {
	if p.width <= 0 || p.height <= 0 {
		return nil, ErrNoDimensions
	}

	p.stage = StageReconciling
	if p.hasPending {
		if err := p.reconciler.Reconcile(p.pending); err != nil {
			p.stage = StageIdle
			return nil, err
		}
		p.pending = nil
		p.hasPending = false
	}

	p.stage = StageLayoutPending
	dirty := p.reconciler.Commit()

	p.stage = StageLayoutComputing
	req := layout.Request{
		NodeID: p.tree.RootID(),
		Width:  p.width,
		Height: p.height,
		Force:  p.force,
	}
	res, err := p.engine.Layout(p.tree, req, dirty)
	if err != nil {
		p.stage = StageIdle
		return nil, err
	}
	p.force = false

	p.stage = StageComposing
	buf, nodeErrs := p.compositor.Compose(p.tree, res)

	p.syncFocusOrder()

	if p.painted && p.previous != nil {
		p.stage = StageDiffing
		d := diff.Compute(p.previous, buf)

		p.stage = StageFlushing
		if !d.Empty() {
			if err := p.writer.WriteDiff(d); err != nil {
				p.stage = StageIdle
				return nodeErrs, err
			}
		}
	} else {
		p.stage = StageFlushing
		if err := p.writer.WriteFull(buf); err != nil {
			p.stage = StageIdle
			return nodeErrs, err
		}
	}
	if err := p.writer.Flush(); err != nil {
		p.stage = StageIdle
		return nodeErrs, err
	}

	p.previous = buf
	p.painted = true
	p.stage = StageIdle
	return nodeErrs, nil
}

// syncFocusOrder rebuilds the focus ring from the tree in document
// order after each frame.
func (p *Pipeline) syncFocusOrder() {
	var ids []tree.NodeID
	p.tree.Walk(p.tree.RootID(), func(n *tree.Node) bool {
		if n.Focusable {
			ids = append(ids, n.ID)
		}
		return true
	})
	p.focus.SetOrder(ids)
}

// Close releases the terminal.
func (p *Pipeline) Close() error {
	return p.writer.Exit()
}
