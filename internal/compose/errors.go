package compose

import (
	"errors"
	"fmt"

	"github.com/dshills/flexterm/internal/tree"
)

// Sentinel errors for composition.
var (
	// ErrNoWidth is returned when a node with content ends up with a
	// non-positive width after all layout constraints.
	ErrNoWidth = errors.New("no width for content")

	// ErrNoLayout is returned when a node has no geometry from the
	// current layout pass.
	ErrNoLayout = errors.New("node missing layout info")
)

// Error is an output (composition) failure tagged with the offending
// node. A node-level Error degrades only that node; the frame still
// completes.
type Error struct {
	// NodeID is the offending node.
	NodeID tree.NodeID

	// Cause is the underlying error.
	Cause error
}

// NewError creates an output Error for the given node.
func NewError(id tree.NodeID, cause error) *Error {
	return &Error{NodeID: id, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("compose: node %d: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}
