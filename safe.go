package datacol

import (
	"fmt"
	"iter"
)

// Safe enters error containment by lifting every element into a present
// Option. Containment-aware transformations (SafeMap, SafeFilter, SafeCall)
// convert per-element failures into Empty markers at the failing positions
// instead of aborting the pipeline; the result always has one Option per
// input element. Structural failures are never contained.
//
// Downstream, DropEmpty and FillEmpty decide what to do with the absences.
func Safe[T any](c *Collection[T]) *Collection[Option[T]] {
	return Map(c, Some[T])
}

// guard invokes fn with panics converted into errors, so that a contained
// stage treats a panicking element like a failing one.
func guard[In, Out any](fn TryMapFunc[In, Out], in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("panic: %v", r)
			}
		}
	}()
	return fn(in)
}

// SafeMap transforms the present elements of a contained Collection. An
// error returned by fn, or a panic inside it, yields Empty at that position
// with the failure recorded as its cause; every other element still
// processes. Empty inputs short-circuit to Empty without invoking fn.
func SafeMap[In, Out any](c *Collection[Option[In]], fn TryMapFunc[In, Out]) *Collection[Option[Out]] {
	return derive(c, func(src iter.Seq2[Option[In], error]) iter.Seq2[Option[Out], error] {
		return func(yield func(Option[Out], error) bool) {
			i := 0
			for in, err := range src {
				if err != nil {
					yield(Empty[Out](), err)
					return
				}
				if !yield(applySafe(fn, in, i), nil) {
					return
				}
				i++
			}
		}
	})
}

func applySafe[In, Out any](fn TryMapFunc[In, Out], in Option[In], i int) Option[Out] {
	v, ok := in.Get()
	if !ok {
		return emptyFor[Out](in.Cause())
	}
	out, err := guard(fn, v)
	if err != nil {
		return emptyFor[Out](&ElementError{Index: i, Err: err})
	}
	return Some(out)
}

// SafeFilter filters the present elements of a contained Collection by
// predicate. Empty elements are kept in place; a panic in the predicate
// turns the element into Empty rather than aborting.
func SafeFilter[T any](c *Collection[Option[T]], predicate Predicate[T]) *Collection[Option[T]] {
	return derive(c, func(src iter.Seq2[Option[T], error]) iter.Seq2[Option[T], error] {
		return func(yield func(Option[T], error) bool) {
			i := 0
			for in, err := range src {
				if err != nil {
					yield(in, err)
					return
				}
				v, ok := in.Get()
				if !ok {
					if !yield(in, nil) {
						return
					}
					i++
					continue
				}
				keep, perr := guard(func(x T) (bool, error) {
					return predicate(x), nil
				}, v)
				if perr != nil {
					if !yield(emptyFor[T](&ElementError{Index: i, Err: perr}), nil) {
						return
					}
				} else if keep {
					if !yield(in, nil) {
						return
					}
				}
				i++
			}
		}
	})
}

// DropEmpty removes the Empty elements of a contained Collection and unwraps
// the remaining present values, preserving their relative order.
func DropEmpty[T any](c *Collection[Option[T]]) *Collection[T] {
	return derive(c, func(src iter.Seq2[Option[T], error]) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for in, err := range src {
				if err != nil {
					var zero T
					yield(zero, err)
					return
				}
				if v, ok := in.Get(); ok {
					if !yield(v, nil) {
						return
					}
				}
			}
		}
	})
}

// FillEmpty substitutes def at each Empty position and unwraps the present
// values, preserving length, positions and order.
func FillEmpty[T any](c *Collection[Option[T]], def T) *Collection[T] {
	return Map(c, func(o Option[T]) T {
		return o.GetOrElse(def)
	})
}
