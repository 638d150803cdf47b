package input

import (
	"errors"
	"fmt"
)

// Sentinel errors for byte-stream parsing.
var (
	// ErrUnknownSequence is returned for an escape sequence with no
	// known mapping. The sequence is dropped and parsing continues.
	ErrUnknownSequence = errors.New("unknown escape sequence")

	// ErrMalformed is returned for a structurally invalid sequence.
	ErrMalformed = errors.New("malformed input sequence")

	// ErrInvalidResize is returned for non-positive dimensions.
	ErrInvalidResize = errors.New("resize dimensions must be positive")
)

// Error is an input parsing failure carrying the offending bytes.
type Error struct {
	// Seq is the byte sequence that failed to parse.
	Seq []byte

	// Cause is the underlying error.
	Cause error
}

// NewError creates an input Error for the given sequence.
func NewError(seq []byte, cause error) *Error {
	return &Error{Seq: append([]byte(nil), seq...), Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("input: %q: %v", e.Seq, e.Cause)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}
