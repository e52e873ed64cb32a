// unsafering implements a fixed size ring buffer with no concurrency support.
// It is owned by a single goroutine; the game engine uses it for the shader
// history and the upcoming figure queue.
package unsafering

import "iter"

type Buffer[T any] struct {
	data []T
	head int // index of the oldest element
	n    int
}

func New[T any](size int) *Buffer[T] {
	if size < 1 {
		size = 1
	}
	return &Buffer[T]{data: make([]T, size)}
}

func (r *Buffer[T]) Cap() int   { return len(r.data) }
func (r *Buffer[T]) Len() int   { return r.n }
func (r *Buffer[T]) Full() bool { return r.n == len(r.data) }

func (r *Buffer[T]) at(i int) int { return (r.head + i) % len(r.data) }

// Push appends v as the newest element, overwriting the oldest when full.
func (r *Buffer[T]) Push(v T) {
	if r.Full() {
		r.data[r.head] = v
		r.head = r.at(1)
		return
	}
	r.data[r.at(r.n)] = v
	r.n++
}

// Pop removes and returns the oldest element.
func (r *Buffer[T]) Pop() (v T, ok bool) {
	if r.n == 0 {
		return v, false
	}
	v = r.data[r.head]
	var zero T
	r.data[r.head] = zero
	r.head = r.at(1)
	r.n--
	return v, true
}

func (r *Buffer[T]) Oldest() (T, bool) { return r.AtInWindow(0, r.n) }

func (r *Buffer[T]) Clear() {
	clear(r.data)
	r.head, r.n = 0, 0
}

// ReadRecent returns the n most recent elements (oldest→newest).
func (r *Buffer[T]) ReadRecent(n int) []T {
	n = min(n, r.n)
	res := make([]T, 0, n)
	for v := range r.IterRecent(n) {
		res = append(res, v)
	}
	return res
}

// AtInWindow returns the element at index `i` within a window of
// the most recent `window` elements, in chronological order.
//
//	With buffer [..., 8, 9, 10, 11, 12]
//	AtInWindow(0, 5) == 8
//	AtInWindow(4, 5) == 12
func (r *Buffer[T]) AtInWindow(i, window int) (val T, ok bool) {
	window = min(window, r.n)
	if i < 0 || i >= window {
		return val, false
	}
	return r.data[r.at(r.n-window+i)], true
}

// Iter yields the buffer contents, oldest to newest.
func (r *Buffer[T]) Iter() iter.Seq[T] {
	return r.IterRecent(r.n)
}

// IterRecent yields the most recent n items, oldest to newest.
func (r *Buffer[T]) IterRecent(n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		n := min(n, r.n)
		for i := r.n - n; i < r.n; i++ {
			if !yield(r.data[r.at(i)]) {
				return
			}
		}
	}
}
