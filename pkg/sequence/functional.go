package sequence

import "iter"

// Iterator is a chainable, lazily evaluated sequence of T.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From creates an Iterator over a slice.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, v := range data {
				if !yield(v) {
					return
				}
			}
		},
	}
}

// Seq exposes the underlying sequence for range-over-func loops.
func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Collect exhausts the iterator into a slice.
func (i *Iterator[T]) Collect() []T {
	var out []T
	for v := range i.seq {
		out = append(out, v)
	}
	return out
}

// Filter keeps elements for which every predicate holds.
func (i *Iterator[T]) Filter(preds ...func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
		next:
			for v := range i.seq {
				for _, p := range preds {
					if !p(v) {
						continue next
					}
				}
				if !yield(v) {
					return
				}
			}
		},
	}
}

// Find returns the first element matching pred.
func (i *Iterator[T]) Find(pred func(T) bool) (T, bool) {
	for v := range i.seq {
		if pred(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Count exhausts the iterator and counts its elements.
func (i *Iterator[T]) Count() int {
	n := 0
	for range i.seq {
		n++
	}
	return n
}
