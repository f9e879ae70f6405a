package iterutil

import (
	"iter"
)

// Union returns an iterator over the distinct values of all input iterators.
// Values are yielded in order of first appearance.
func Union[V comparable](iters ...iter.Seq[V]) iter.Seq[V] {
	return Uniq(func(yield func(V) bool) {
		for _, seq := range iters {
			for v := range seq {
				if !yield(v) {
					return
				}
			}
		}
	})
}

// Uniq returns an iterator that drops repeated values from seq.
// The first occurrence of each value is kept, in input order.
func Uniq[V comparable](seq iter.Seq[V]) iter.Seq[V] {
	return func(yield func(V) bool) {
		seen := map[V]struct{}{}
		for v := range seq {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			if !yield(v) {
				return
			}
		}
	}
}

// Map returns an iterator that yields f applied to each value of seq.
func Map[V, R any](seq iter.Seq[V], f func(V) R) iter.Seq[R] {
	return func(yield func(R) bool) {
		for v := range seq {
			if !yield(f(v)) {
				return
			}
		}
	}
}
