package datacol

import (
	"errors"
	"fmt"
)

var (
	// ErrLookup is reported when a name cannot be resolved, either against
	// the function registry or against a table's columns.
	ErrLookup = errors.New("datacol: name not found")

	// ErrInvalidArgument is reported when a structural parameter violates a
	// precondition, e.g. a non-positive batch size or indexing a streamed
	// collection.
	ErrInvalidArgument = errors.New("datacol: invalid argument")

	// ErrIndexOutOfRange is reported by At for out-of-bounds indices.
	ErrIndexOutOfRange = errors.New("datacol: index out of range")
)

// ElementError wraps a failure raised by a user-supplied function while
// processing a single element. Without containment it aborts the pipeline and
// is returned by the terminal operation; under Safe it is recorded as the
// cause of the resulting Empty.
type ElementError struct {
	// Index is the position of the failing element within its stage, counting
	// the elements the stage has seen so far.
	Index int

	// Err is the underlying failure.
	Err error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("datacol: element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

func lookupErr(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrLookup, kind, name)
}

func invalidErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
