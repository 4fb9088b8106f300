package iterx

import (
	"iter"
)

func FromSlice[T any](in []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range in {
			if !yield(item, nil) {
				break
			}
		}
	}
}

func FromSeq[T any](in iter.Seq[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for item := range in {
			if !yield(item, nil) {
				break
			}
		}
	}
}

// Drain consumes the sequence fully, stopping at the first error.
func Drain[T any](in iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range in {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
