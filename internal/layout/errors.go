package layout

import (
	"errors"
	"fmt"

	"github.com/dshills/flexterm/internal/tree"
)

// Sentinel errors for engine handle management.
var (
	// ErrNotMounted is returned when a node has no layout handle.
	ErrNotMounted = errors.New("node has no layout handle")

	// ErrAlreadyMounted is returned when a node is mounted twice.
	ErrAlreadyMounted = errors.New("node already has a layout handle")
)

// Error is a layout failure, tagged with the offending node where one
// is known.
type Error struct {
	// NodeID is the offending node, or tree.None.
	NodeID tree.NodeID

	// Cause is the underlying error.
	Cause error
}

// NewError creates a layout Error for the given node.
func NewError(id tree.NodeID, cause error) *Error {
	return &Error{NodeID: id, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.NodeID == tree.None {
		return fmt.Sprintf("layout: %v", e.Cause)
	}
	return fmt.Sprintf("layout: node %d: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}
