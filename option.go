package datacol

import "fmt"

// Option is the outcome of one contained unit of work: either a present
// value, or an absence left behind by a caught failure. An Empty never
// carries a value, though it may record the failure that produced it.
//
// Options enter a pipeline through Safe and leave it through DropEmpty or
// FillEmpty.
type Option[T any] struct {
	value   T
	present bool
	cause   error
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

// Empty returns an absent Option.
func Empty[T any]() Option[T] {
	return Option[T]{}
}

// emptyFor records the failure that produced the absence.
func emptyFor[T any](cause error) Option[T] {
	return Option[T]{cause: cause}
}

// Present reports whether the Option holds a value.
func (o Option[T]) Present() bool {
	return o.present
}

// Get returns the held value and whether one is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// GetOrElse returns the held value, or def when the Option is Empty.
func (o Option[T]) GetOrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// Cause returns the failure that produced an Empty, or nil for a present
// Option or an Empty with no recorded cause.
func (o Option[T]) Cause() error {
	return o.cause
}

func (o Option[T]) String() string {
	if o.present {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	return "Empty"
}
