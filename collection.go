package datacol

import (
	"fmt"
	"iter"
	"strings"

	"datacol/internal/iterx"
)

// Collection is a generalized container for slices and lazy sequences.
//
// A Collection is in one of two modes. An unstreamed (eager) Collection holds
// fully materialized storage and every transformation applied to it executes
// immediately. A streamed (lazy) Collection holds a pending sequence; each
// transformation appends a per-element stage without consuming anything, and
// evaluation happens only when a terminal operation (Collect, Run, Subscribe)
// drains it.
//
// Transformations never mutate their input; they return a new Collection in
// the same mode. Relative element order is always preserved.
//
// A streamed Collection is single-use: draining it consumes the underlying
// source, like any iterator. Collections are not safe for concurrent use.
type Collection[T any] struct {
	stream bool
	items  []T                 // materialized storage, valid when !stream
	seq    iter.Seq2[T, error] // pending source and stages, valid when stream
	err    error               // deferred structural failure
}

// Of returns an unstreamed Collection holding the given elements.
func Of[T any](items ...T) *Collection[T] {
	return FromSlice(items)
}

// FromSlice returns an unstreamed Collection holding a copy of items.
func FromSlice[T any](items []T) *Collection[T] {
	owned := make([]T, len(items))
	copy(owned, items)
	return &Collection[T]{items: owned}
}

// FromSeq returns a streamed Collection over seq. Nothing is consumed until a
// terminal operation runs. The sequence may be unbounded; bounding it (via
// Head, or by stopping a Subscribe consumer) is the caller's responsibility.
func FromSeq[T any](seq iter.Seq[T]) *Collection[T] {
	return &Collection[T]{stream: true, seq: iterx.FromSeq(seq)}
}

// Range returns an unstreamed Collection of the ints 0 through n-1.
func Range(n int) *Collection[int] {
	items := make([]int, max(n, 0))
	for i := range items {
		items[i] = i
	}
	return &Collection[int]{items: items}
}

// source adapts either representation to a fallible sequence.
func (c *Collection[T]) source() iter.Seq2[T, error] {
	if c.err != nil {
		err := c.err
		return func(yield func(T, error) bool) {
			var zero T
			yield(zero, err)
		}
	}
	if c.stream {
		return c.seq
	}
	return iterx.FromSlice(c.items)
}

// derive applies a stage to c's source, keeping c's mode: a streamed input
// yields a streamed result with the stage pending, an unstreamed input is
// evaluated on the spot.
func derive[In, Out any](c *Collection[In], stage func(iter.Seq2[In, error]) iter.Seq2[Out, error]) *Collection[Out] {
	if c.err != nil {
		return &Collection[Out]{stream: c.stream, err: c.err}
	}
	out := stage(c.source())
	if c.stream {
		return &Collection[Out]{stream: true, seq: out}
	}
	items, err := iterx.Drain(out)
	return &Collection[Out]{items: items, err: err}
}

// fail returns a poisoned Collection in c's mode. The error is reported by
// whichever terminal operation eventually runs.
func fail[In, Out any](c *Collection[In], err error) *Collection[Out] {
	if c.err != nil {
		err = c.err
	}
	return &Collection[Out]{stream: c.stream, err: err}
}

// IsStream reports whether the Collection is in streamed mode.
func (c *Collection[T]) IsStream() bool {
	return c.stream
}

// Stream converts the Collection to streamed mode. Calling Stream on an
// already streamed Collection is a no-op.
func (c *Collection[T]) Stream() *Collection[T] {
	if c.stream {
		return c
	}
	if c.err != nil {
		return &Collection[T]{stream: true, err: c.err}
	}
	return &Collection[T]{stream: true, seq: iterx.FromSlice(c.items)}
}

// Unstream converts the Collection to unstreamed mode, fully draining a
// streamed source. Calling Unstream on an already unstreamed Collection is a
// no-op.
func (c *Collection[T]) Unstream() *Collection[T] {
	if !c.stream {
		return c
	}
	if c.err != nil {
		return &Collection[T]{err: c.err}
	}
	items, err := iterx.Drain(c.seq)
	return &Collection[T]{items: items, err: err}
}

// Collect evaluates the Collection and returns its elements in order. On an
// unstreamed Collection it returns a copy of the materialized storage; on a
// streamed Collection it drains the source through all pending stages.
//
// The first pending failure, structural or element-wise, is returned instead
// of a partial result.
func (c *Collection[T]) Collect() ([]T, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.stream {
		return iterx.Drain(c.seq)
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, nil
}

// Run evaluates the Collection and discards the elements. It is used to force
// side effects recorded in a streamed Collection's pending stages.
func (c *Collection[T]) Run() error {
	for _, err := range c.source() {
		if err != nil {
			return err
		}
	}
	return nil
}

// Subscribe evaluates the Collection, invoking fn once per element in order.
// Each element is fully produced through the pending stages and delivered
// before production of the next one begins. A nil fn behaves like Run.
func (c *Collection[T]) Subscribe(fn func(T)) error {
	for v, err := range c.source() {
		if err != nil {
			return err
		}
		if fn != nil {
			fn(v)
		}
	}
	return nil
}

// All returns the Collection's elements as a fallible sequence for use with
// range-over-func. Iterating a streamed Collection consumes it.
func (c *Collection[T]) All() iter.Seq2[T, error] {
	return c.source()
}

// Len returns the number of elements. It is only available on unstreamed
// Collections.
func (c *Collection[T]) Len() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.stream {
		return 0, invalidErr("Len requires an unstreamed collection")
	}
	return len(c.items), nil
}

// At returns the element at index i. It is only available on unstreamed
// Collections; out-of-bounds indices report ErrIndexOutOfRange.
func (c *Collection[T]) At(i int) (T, error) {
	var zero T
	if c.err != nil {
		return zero, c.err
	}
	if c.stream {
		return zero, invalidErr("indexing requires an unstreamed collection")
	}
	if i < 0 || i >= len(c.items) {
		return zero, fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, len(c.items))
	}
	return c.items[i], nil
}

// Slice returns a new Collection in the same mode holding the elements in
// [lo, hi). On an unstreamed Collection the bounds are clamped to the length,
// as with native slicing; on a streamed Collection the sub-range is selected
// lazily. Negative or inverted bounds are an InvalidArgument failure.
func (c *Collection[T]) Slice(lo, hi int) *Collection[T] {
	if lo < 0 || hi < 0 || lo > hi {
		return fail[T, T](c, invalidErr("bad slice bounds [%d:%d]", lo, hi))
	}
	if c.err != nil {
		return c
	}
	if !c.stream {
		lo = min(lo, len(c.items))
		hi = min(hi, len(c.items))
		return FromSlice(c.items[lo:hi])
	}
	return derive(c, func(src iter.Seq2[T, error]) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			i := 0
			for v, err := range src {
				if err != nil {
					yield(v, err)
					return
				}
				if i >= hi {
					return
				}
				if i >= lo && !yield(v, nil) {
					return
				}
				i++
			}
		}
	})
}

// Append returns a new Collection with v added at the end, materializing a
// streamed Collection first.
func (c *Collection[T]) Append(v T) *Collection[T] {
	u := c.Unstream()
	if u.err != nil {
		return u
	}
	items := make([]T, 0, len(u.items)+1)
	items = append(items, u.items...)
	items = append(items, v)
	return &Collection[T]{items: items}
}

// String renders an unstreamed Collection as a truncated element listing. A
// streamed Collection renders as a marker instead: printing must not consume
// the source as a side effect.
func (c *Collection[T]) String() string {
	if c.err != nil {
		return fmt.Sprintf("<collection error: %v>", c.err)
	}
	if c.stream {
		return "<streamed collection>"
	}
	const limit = 10
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range c.items {
		if i == limit {
			b.WriteString(" ...")
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", v)
	}
	b.WriteByte(']')
	return b.String()
}
