// Package scratch provides the per-frame bump allocator used by the resolver
// for its temporary per-child arrays.
package scratch

import "errors"

// ErrExhausted is returned when a request does not fit in the remaining space.
var ErrExhausted = errors.New("scratch: arena exhausted")

// Arena hands out float32 slices from one preallocated slab.
// Slices returned by Floats are valid until the next Reset.
type Arena struct {
	buf []float32
	off int
}

// New creates an arena holding capacity float32 values.
func New(capacity int) *Arena {
	return &Arena{buf: make([]float32, capacity)}
}

// Floats returns a zeroed slice of n values.
func (a *Arena) Floats(n int) ([]float32, error) {
	if n < 0 || a.off+n > len(a.buf) {
		return nil, ErrExhausted
	}
	s := a.buf[a.off : a.off+n : a.off+n]
	a.off += n
	clear(s)
	return s, nil
}

// Reset releases every slice handed out since the last Reset.
func (a *Arena) Reset() {
	a.off = 0
}

// Used returns the number of values handed out since the last Reset.
func (a *Arena) Used() int {
	return a.off
}

// Cap returns the total number of values the arena can hand out per frame.
func (a *Arena) Cap() int {
	return len(a.buf)
}
