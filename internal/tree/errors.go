package tree

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree mutation.
var (
	// ErrNodeNotFound is returned when an id has no index entry.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNotAContainer is returned when children are attached to a
	// Text, Newline, or Spacer node.
	ErrNotAContainer = errors.New("node cannot have children")

	// ErrInvalidCount is returned for a Newline count <= 0.
	ErrInvalidCount = errors.New("newline count must be positive")

	// ErrAlreadyAttached is returned when a node is attached to a
	// second parent.
	ErrAlreadyAttached = errors.New("node already has a parent")

	// ErrCycle is returned when an attach would make a node its own
	// ancestor.
	ErrCycle = errors.New("attach would create a cycle")

	// ErrMissingPayload is returned when a node's payload does not
	// match its kind.
	ErrMissingPayload = errors.New("node payload missing for kind")
)

// RenderError is a tree mutation or reconciliation failure, tagged
// with the offending node where one is known.
type RenderError struct {
	// NodeID is the offending node, or None.
	NodeID NodeID

	// Cause is the underlying error.
	Cause error
}

// NewRenderError creates a RenderError for the given node.
func NewRenderError(id NodeID, cause error) *RenderError {
	return &RenderError{NodeID: id, Cause: cause}
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.NodeID == None {
		return fmt.Sprintf("render: %v", e.Cause)
	}
	return fmt.Sprintf("render: node %d: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}
