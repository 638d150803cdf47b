package term

import "fmt"

// Error is a terminal operation failure.
type Error struct {
	// Op is the operation that failed ("create", "init").
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("term: %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}
