package datacol

import (
	"iter"
	"math/rand/v2"
)

type (

	// MapFunc is a pure mapping function used by Map that transforms a value
	// of type In into a value of type Out.
	MapFunc[In, Out any] func(in In) Out

	// TryMapFunc is a mapping function that may return an error.
	//
	// Outside containment (see Safe) the first error aborts the pipeline.
	TryMapFunc[In, Out any] func(in In) (Out, error)

	// Predicate represents a filtering function that returns true when the
	// provided value should be included in the output.
	Predicate[T any] func(item T) bool

	// Pair holds one element from each of two zipped Collections.
	Pair[A, B any] struct {
		First  A
		Second B
	}
)

// Map transforms each element using fn and returns a new Collection of the
// mapped values, in the input's mode: immediately evaluated when unstreamed,
// recorded as a pending stage when streamed.
func Map[In, Out any](c *Collection[In], fn MapFunc[In, Out]) *Collection[Out] {
	return derive(c, func(src iter.Seq2[In, error]) iter.Seq2[Out, error] {
		return func(yield func(Out, error) bool) {
			for in, err := range src {
				if err != nil {
					var zero Out
					yield(zero, err)
					return
				}
				if !yield(fn(in), nil) {
					return
				}
			}
		}
	})
}

// TryMap transforms each element using fn. A non-nil error from fn fails
// fast: processing stops at the failing element and the terminal operation
// reports an ElementError carrying its position. Elements produced before the
// failure are not part of any result.
//
// For per-element failures that should not abort the pipeline, see Safe and
// SafeMap.
func TryMap[In, Out any](c *Collection[In], fn TryMapFunc[In, Out]) *Collection[Out] {
	return derive(c, func(src iter.Seq2[In, error]) iter.Seq2[Out, error] {
		return func(yield func(Out, error) bool) {
			i := 0
			for in, err := range src {
				var zero Out
				if err != nil {
					yield(zero, err)
					return
				}
				out, ferr := fn(in)
				if ferr != nil {
					yield(zero, &ElementError{Index: i, Err: ferr})
					return
				}
				if !yield(out, nil) {
					return
				}
				i++
			}
		}
	})
}

// Filter returns a Collection holding only the elements for which predicate
// returns true, preserving their relative order.
func Filter[T any](c *Collection[T], predicate Predicate[T]) *Collection[T] {
	return derive(c, func(src iter.Seq2[T, error]) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for in, err := range src {
				if err != nil {
					yield(in, err)
					return
				}
				if predicate(in) {
					if !yield(in, nil) {
						return
					}
				}
			}
		}
	})
}

// FlatMap transforms each element into zero or more output elements and
// concatenates the results, preserving per-input and intra-output order.
//
// FlatMap is equivalent to calling Flatten(Map(c, fn)).
func FlatMap[In, Out any](c *Collection[In], fn MapFunc[In, []Out]) *Collection[Out] {
	return Flatten(Map(c, fn))
}

// Flatten converts a Collection of slices into a Collection of their
// elements, emitting the items of each slice in order. Only one level is
// flattened.
func Flatten[T any](c *Collection[[]T]) *Collection[T] {
	return derive(c, func(src iter.Seq2[[]T, error]) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for slice, err := range src {
				if err != nil {
					var zero T
					yield(zero, err)
					return
				}
				for _, item := range slice {
					if !yield(item, nil) {
						return
					}
				}
			}
		}
	})
}

// Batch groups consecutive elements into slices of the given size. The final
// batch is shorter when the element count is not a multiple of size. A size
// below one is an InvalidArgument failure, reported by the terminal
// operation.
func Batch[T any](c *Collection[T], size int) *Collection[[]T] {
	if size < 1 {
		return fail[T, []T](c, invalidErr("batch size %d must be positive", size))
	}
	return derive(c, func(src iter.Seq2[T, error]) iter.Seq2[[]T, error] {
		return func(yield func([]T, error) bool) {

			// Each emitted batch gets its own backing slice. Callers may
			// retain batches; reusing one buffer would let later batches
			// overwrite data already handed out.
			accum := make([]T, 0, size)
			for in, err := range src {
				if err != nil {
					yield(nil, err)
					return
				}
				accum = append(accum, in)
				if len(accum) == size {
					if !yield(accum, nil) {
						return
					}
					accum = make([]T, 0, size)
				}
			}
			if len(accum) > 0 {
				yield(accum, nil)
			}
		}
	})
}

// Rolling produces the overlapping windows of the given size, one per valid
// starting offset, stepping by one. A window size below one is an
// InvalidArgument failure in either mode; a window exceeding the known length
// of an unstreamed Collection is as well. A streamed source that ends before
// filling the first window produces no windows.
func Rolling[T any](c *Collection[T], window int) *Collection[[]T] {
	if window < 1 {
		return fail[T, []T](c, invalidErr("rolling window %d must be positive", window))
	}
	if !c.stream && c.err == nil && window > len(c.items) {
		return fail[T, []T](c, invalidErr("rolling window %d exceeds length %d", window, len(c.items)))
	}
	return derive(c, func(src iter.Seq2[T, error]) iter.Seq2[[]T, error] {
		return func(yield func([]T, error) bool) {
			buff := make([]T, 0, window)
			for in, err := range src {
				if err != nil {
					yield(nil, err)
					return
				}
				buff = append(buff, in)
				if len(buff) == window {
					out := make([]T, window)
					copy(out, buff)
					if !yield(out, nil) {
						return
					}
					buff = buff[1:]
				}
			}
		}
	})
}

// Concat returns a Collection producing the elements of each input in turn,
// in the mode of the first input.
func Concat[T any](cs ...*Collection[T]) *Collection[T] {
	if len(cs) == 0 {
		return Of[T]()
	}
	if len(cs) == 1 {
		return cs[0]
	}
	return derive(cs[0], func(src iter.Seq2[T, error]) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for v, err := range src {
				if !yield(v, err) || err != nil {
					return
				}
			}
			for _, c := range cs[1:] {
				for v, err := range c.source() {
					if !yield(v, err) || err != nil {
						return
					}
				}
			}
		}
	})
}

// Zip pairs elements of a and b positionally, stopping at the shorter input.
// The result takes a's mode.
func Zip[A, B any](a *Collection[A], b *Collection[B]) *Collection[Pair[A, B]] {
	return derive(a, func(src iter.Seq2[A, error]) iter.Seq2[Pair[A, B], error] {
		return func(yield func(Pair[A, B], error) bool) {
			next, stop := iter.Pull2(b.source())
			defer stop()
			var zero Pair[A, B]
			for v, err := range src {
				if err != nil {
					yield(zero, err)
					return
				}
				w, werr, ok := next()
				if !ok {
					return
				}
				if werr != nil {
					yield(zero, werr)
					return
				}
				if !yield(Pair[A, B]{First: v, Second: w}, nil) {
					return
				}
			}
		}
	})
}

// Sample keeps each element independently with probability ratio.
func Sample[T any](c *Collection[T], ratio float64) *Collection[T] {
	return Filter(c, func(T) bool { return rand.Float64() < ratio })
}

// Shuffle returns an unstreamed Collection with the elements in random
// order. Shuffling a streamed Collection is an InvalidArgument failure.
func Shuffle[T any](c *Collection[T]) *Collection[T] {
	if c.stream {
		return fail[T, T](c, invalidErr("shuffle requires an unstreamed collection"))
	}
	if c.err != nil {
		return c
	}
	items := make([]T, len(c.items))
	copy(items, c.items)
	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	return &Collection[T]{items: items}
}

// Head returns a Collection holding at most the first n elements. On a
// streamed Collection nothing past the nth element is consumed, which makes
// Head the bounding tool for unbounded sources.
func (c *Collection[T]) Head(n int) *Collection[T] {
	return c.Slice(0, n)
}
