package flex

import (
	"errors"
	"fmt"
)

// Pool errors.
var (
	// ErrStaleHandle is returned for a handle whose node has been
	// freed (double-free or use-after-free).
	ErrStaleHandle = errors.New("stale flex node handle")

	// ErrInvalidHandle is returned for the zero handle or one that
	// was never issued by this pool.
	ErrInvalidHandle = errors.New("invalid flex node handle")
)

// Handle addresses a node in a Pool. The zero Handle is invalid.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether the handle was issued by a pool.
func (h Handle) Valid() bool {
	return h.gen != 0
}

// slot is one arena entry. gen advances on every free so stale
// handles are detected rather than aliasing a reused slot.
type slot struct {
	gen      uint32
	live     bool
	config   Config
	children []Handle
	layout   Layout
}

// Pool is an arena of flex nodes addressed by handles.
type Pool struct {
	slots []slot
	free  []uint32
	live  int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Len returns the number of live nodes.
func (p *Pool) Len() int {
	return p.live
}

// NewNode allocates a node with the default config and returns its
// handle.
func (p *Pool) NewNode() Handle {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		p.slots = append(p.slots, slot{})
		idx = uint32(len(p.slots) - 1)
	}
	s := &p.slots[idx]
	s.gen++
	s.live = true
	s.config = DefaultConfig()
	s.children = nil
	s.layout = Layout{}
	p.live++
	return Handle{index: idx, gen: s.gen}
}

// lookup resolves a handle to its slot, rejecting stale and invalid
// handles.
func (p *Pool) lookup(h Handle) (*slot, error) {
	if !h.Valid() || int(h.index) >= len(p.slots) {
		return nil, ErrInvalidHandle
	}
	s := &p.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, fmt.Errorf("%w: index %d", ErrStaleHandle, h.index)
	}
	return s, nil
}

// Free releases a node. Freeing the same handle twice is an error,
// not a silent no-op.
func (p *Pool) Free(h Handle) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	s.live = false
	s.children = nil
	s.config = Config{}
	p.free = append(p.free, h.index)
	p.live--
	return nil
}

// SetConfig replaces the node's style configuration.
func (p *Pool) SetConfig(h Handle, cfg Config) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	s.config = cfg
	return nil
}

// ConfigOf returns the node's current configuration.
func (p *Pool) ConfigOf(h Handle) (Config, error) {
	s, err := p.lookup(h)
	if err != nil {
		return Config{}, err
	}
	return s.config, nil
}

// SetChildren replaces the node's ordered child list. Every child
// handle must be live.
func (p *Pool) SetChildren(h Handle, children []Handle) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	for _, c := range children {
		if _, err := p.lookup(c); err != nil {
			return err
		}
	}
	s.children = append(s.children[:0], children...)
	return nil
}

// ComputedLayout returns the geometry from the last Calculate pass.
func (p *Pool) ComputedLayout(h Handle) (Layout, error) {
	s, err := p.lookup(h)
	if err != nil {
		return Layout{}, err
	}
	return s.layout, nil
}
