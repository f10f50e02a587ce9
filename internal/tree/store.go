// Package tree stores the element hierarchy as parallel arrays indexed by
// element id. Links are ids, not pointers; None marks an absent link.
package tree

import (
	"errors"
	"iter"
	"math"

	"github.com/dgellow/zig-gui-sub000/internal/layout"
)

// None is the absent-element sentinel.
const None = math.MaxUint32

// ErrFull is returned by Add when every slot is live.
var ErrFull = errors.New("tree: store full")

// Store is a structure-of-arrays element tree with a free list.
// Roots form their own sibling chain.
type Store struct {
	max int

	parent     []uint32
	firstChild []uint32
	lastChild  []uint32
	next       []uint32
	prev       []uint32
	childCount []int32
	styles     []layout.Style
	versions   []uint64
	live       []bool

	free      []uint32
	firstRoot uint32
	lastRoot  uint32
	count     int
	version   uint64
}

// New creates a store holding at most maxElements live elements.
func New(maxElements int) *Store {
	return &Store{
		max:       maxElements,
		firstRoot: None,
		lastRoot:  None,
	}
}

// Len returns the number of live elements.
func (s *Store) Len() int { return s.count }

// Cap returns the maximum number of live elements.
func (s *Store) Cap() int { return s.max }

// Slots returns the number of slots ever allocated; ids are below it.
func (s *Store) Slots() int { return len(s.live) }

// IsLive reports whether id names a live element.
func (s *Store) IsLive(id uint32) bool {
	return int(id) < len(s.live) && s.live[id]
}

// Add allocates an element with style and appends it as the last child of
// parent, or as the last root when parent is None.
func (s *Store) Add(parent uint32, style layout.Style) (uint32, error) {
	id, err := s.alloc()
	if err != nil {
		return None, err
	}
	s.styles[id] = style
	s.version++
	s.versions[id] = s.version
	s.Link(id, parent)
	return id, nil
}

func (s *Store) alloc() (uint32, error) {
	var id uint32
	switch {
	case len(s.free) > 0:
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	case len(s.live) < s.max:
		id = uint32(len(s.live))
		s.parent = append(s.parent, None)
		s.firstChild = append(s.firstChild, None)
		s.lastChild = append(s.lastChild, None)
		s.next = append(s.next, None)
		s.prev = append(s.prev, None)
		s.childCount = append(s.childCount, 0)
		s.styles = append(s.styles, layout.Style{})
		s.versions = append(s.versions, 0)
		s.live = append(s.live, false)
	default:
		return None, ErrFull
	}

	s.parent[id] = None
	s.firstChild[id] = None
	s.lastChild[id] = None
	s.next[id] = None
	s.prev[id] = None
	s.childCount[id] = 0
	s.live[id] = true
	s.count++
	return id, nil
}

// Link appends an unlinked element as the last child of parent (or root).
func (s *Store) Link(id, parent uint32) {
	s.parent[id] = parent
	s.next[id] = None
	if parent == None {
		s.prev[id] = s.lastRoot
		if s.lastRoot != None {
			s.next[s.lastRoot] = id
		} else {
			s.firstRoot = id
		}
		s.lastRoot = id
		return
	}

	s.prev[id] = s.lastChild[parent]
	if last := s.lastChild[parent]; last != None {
		s.next[last] = id
	} else {
		s.firstChild[parent] = id
	}
	s.lastChild[parent] = id
	s.childCount[parent]++
}

// Unlink detaches id from its parent (or the root chain). Its own children
// stay attached.
func (s *Store) Unlink(id uint32) {
	parent, prev, next := s.parent[id], s.prev[id], s.next[id]

	if prev != None {
		s.next[prev] = next
	} else if parent != None {
		s.firstChild[parent] = next
	} else {
		s.firstRoot = next
	}
	if next != None {
		s.prev[next] = prev
	} else if parent != None {
		s.lastChild[parent] = prev
	} else {
		s.lastRoot = prev
	}
	if parent != None {
		s.childCount[parent]--
	}

	s.parent[id] = None
	s.prev[id] = None
	s.next[id] = None
}

// Free returns an unlinked, childless element's slot to the free list.
func (s *Store) Free(id uint32) {
	if s.firstChild[id] != None {
		panic("tree: freeing an element with children")
	}
	s.live[id] = false
	s.styles[id] = layout.Style{}
	s.versions[id] = 0
	s.free = append(s.free, id)
	s.count--
}

// SetStyle replaces the style of id and bumps its version.
func (s *Store) SetStyle(id uint32, style layout.Style) {
	s.styles[id] = style
	s.version++
	s.versions[id] = s.version
}

// Style returns the style of id.
func (s *Store) Style(id uint32) layout.Style { return s.styles[id] }

// Version returns the style version of id.
func (s *Store) Version(id uint32) uint64 { return s.versions[id] }

// GlobalVersion counts every style change in the store.
func (s *Store) GlobalVersion() uint64 { return s.version }

// Parent returns the parent of id; ok is false for roots.
func (s *Store) Parent(id uint32) (uint32, bool) {
	p := s.parent[id]
	return p, p != None
}

// FirstChild returns the first child of id or None.
func (s *Store) FirstChild(id uint32) uint32 { return s.firstChild[id] }

// LastChild returns the last child of id or None.
func (s *Store) LastChild(id uint32) uint32 { return s.lastChild[id] }

// NextSibling returns the next sibling of id or None.
func (s *Store) NextSibling(id uint32) uint32 { return s.next[id] }

// PrevSibling returns the previous sibling of id or None.
func (s *Store) PrevSibling(id uint32) uint32 { return s.prev[id] }

// ChildCount returns the number of children of id.
func (s *Store) ChildCount(id uint32) int { return int(s.childCount[id]) }

// FirstRoot returns the first root or None.
func (s *Store) FirstRoot() uint32 { return s.firstRoot }

// LastRoot returns the last root or None.
func (s *Store) LastRoot() uint32 { return s.lastRoot }

// Children iterates the children of id in order.
func (s *Store) Children(id uint32) iter.Seq[uint32] {
	return s.chain(s.firstChild[id])
}

// Roots iterates the roots in order.
func (s *Store) Roots() iter.Seq[uint32] {
	return s.chain(s.firstRoot)
}

func (s *Store) chain(first uint32) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for c := first; c != None; c = s.next[c] {
			if !yield(c) {
				return
			}
		}
	}
}

// PreOrder appends the subtree rooted at id to buf in pre-order.
func (s *Store) PreOrder(id uint32, buf []uint32) []uint32 {
	stack := []uint32{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		buf = append(buf, n)
		for c := s.lastChild[n]; c != None; c = s.prev[c] {
			stack = append(stack, c)
		}
	}
	return buf
}

// PostOrder appends the subtree rooted at id to buf in post-order, children
// before their parent.
func (s *Store) PostOrder(id uint32, buf []uint32) []uint32 {
	start := len(buf)
	stack := []uint32{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		buf = append(buf, n)
		for c := s.firstChild[n]; c != None; c = s.next[c] {
			stack = append(stack, c)
		}
	}
	out := buf[start:]
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return buf
}

// LastDescendant returns the last element of id's subtree in pre-order.
func (s *Store) LastDescendant(id uint32) uint32 {
	for s.lastChild[id] != None {
		id = s.lastChild[id]
	}
	return id
}

// IsAncestor reports whether a is a proper ancestor of b.
func (s *Store) IsAncestor(a, b uint32) bool {
	for p := s.parent[b]; p != None; p = s.parent[p] {
		if p == a {
			return true
		}
	}
	return false
}
