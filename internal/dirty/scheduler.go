// Package dirty schedules elements whose layout must be recomputed.
//
// The scheduler is a deduplicating binary min-heap ordered by the elements'
// tree-order labels, so popping yields parents before their descendants. A
// membership bitset answers "already queued?" in O(1); a position table lets
// an arbitrary entry be dropped in O(log d).
package dirty

import "errors"

// ErrQueueFull is returned when marking would exceed the queue capacity.
var ErrQueueFull = errors.New("dirty: queue full")

// Kind describes what about an element needs recomputing.
type Kind uint8

const (
	// Position means only the absolute offset changed.
	Position Kind = 1 << iota
	// Size means the element's size or its children's geometry may change.
	Size
	// Full is both.
	Full = Position | Size
)

// Has reports whether k includes every bit of other.
func (k Kind) Has(other Kind) bool {
	return k&other == other
}

func (k Kind) String() string {
	switch k {
	case Position:
		return "position"
	case Size:
		return "size"
	case Full:
		return "full"
	default:
		return "none"
	}
}

// Entry is one popped element.
type Entry struct {
	Elem  uint32
	Kind  Kind
	Label uint64 // tree-order label when popped
}

// Orderer supplies tree-order labels. Relabeling is allowed between calls as
// long as it preserves the relative order of queued elements.
type Orderer interface {
	Label(e uint32) uint64
}

// Parents supplies parent links for upward propagation.
type Parents interface {
	Parent(e uint32) (uint32, bool)
}

// Scheduler is the dirty queue. It is not safe for concurrent use.
type Scheduler struct {
	order    Orderer
	parents  Parents
	capacity int

	heap    []uint32
	heapPos []int32
	kinds   []Kind
	member  []uint64
}

// New creates a scheduler holding at most capacity entries.
func New(order Orderer, parents Parents, capacity int) *Scheduler {
	return &Scheduler{
		order:    order,
		parents:  parents,
		capacity: capacity,
		heap:     make([]uint32, 0, min(capacity, 1024)),
	}
}

// Len returns the number of queued elements.
func (s *Scheduler) Len() int {
	return len(s.heap)
}

// Contains reports whether e is queued.
func (s *Scheduler) Contains(e uint32) bool {
	w := int(e / 64)
	return w < len(s.member) && s.member[w]&(1<<(e%64)) != 0
}

// Pending returns the kind e is queued with, or 0.
func (s *Scheduler) Pending(e uint32) Kind {
	if !s.Contains(e) {
		return 0
	}
	return s.kinds[e]
}

// MarkDirty queues e with kind and every ancestor of e with Size, since a
// child's geometry can change its container's auto size.
func (s *Scheduler) MarkDirty(e uint32, kind Kind) error {
	if err := s.MarkDirtyLocal(e, kind); err != nil {
		return err
	}
	for p, ok := s.parents.Parent(e); ok; p, ok = s.parents.Parent(p) {
		if err := s.MarkDirtyLocal(p, Size); err != nil {
			return err
		}
	}
	return nil
}

// MarkDirtyLocal queues e with kind without touching its ancestors.
// Marking a queued element only merges the kinds.
func (s *Scheduler) MarkDirtyLocal(e uint32, kind Kind) error {
	s.grow(e)
	if s.Contains(e) {
		s.kinds[e] |= kind
		return nil
	}
	if len(s.heap) >= s.capacity {
		return ErrQueueFull
	}

	s.member[e/64] |= 1 << (e % 64)
	s.kinds[e] = kind
	s.heapPos[e] = int32(len(s.heap))
	s.heap = append(s.heap, e)
	s.up(len(s.heap) - 1)
	return nil
}

// PopNextDirty removes and returns the queued element that comes first in
// tree order.
func (s *Scheduler) PopNextDirty() (Entry, bool) {
	if len(s.heap) == 0 {
		return Entry{}, false
	}
	e := s.heap[0]
	entry := Entry{Elem: e, Kind: s.kinds[e], Label: s.order.Label(e)}
	s.removeAt(0)
	return entry, true
}

// Peek returns the tree-order label of the entry PopNextDirty would return.
func (s *Scheduler) Peek() (uint64, bool) {
	if len(s.heap) == 0 {
		return 0, false
	}
	return s.order.Label(s.heap[0]), true
}

// NodeRemoved drops any pending entry for e and returns the kind it had.
func (s *Scheduler) NodeRemoved(e uint32) (Kind, bool) {
	if !s.Contains(e) {
		return 0, false
	}
	kind := s.kinds[e]
	s.removeAt(int(s.heapPos[e]))
	return kind, true
}

// Room returns how many more elements can be queued.
func (s *Scheduler) Room() int {
	return max(0, s.capacity-len(s.heap))
}

func (s *Scheduler) grow(e uint32) {
	if int(e) < len(s.kinds) {
		return
	}
	n := int(e) + 1
	s.kinds = append(s.kinds, make([]Kind, n-len(s.kinds))...)
	s.heapPos = append(s.heapPos, make([]int32, n-len(s.heapPos))...)
	if words := (n + 63) / 64; words > len(s.member) {
		s.member = append(s.member, make([]uint64, words-len(s.member))...)
	}
}

func (s *Scheduler) removeAt(i int) {
	e := s.heap[i]
	last := len(s.heap) - 1
	if i != last {
		s.swap(i, last)
	}
	s.heap = s.heap[:last]
	s.member[e/64] &^= 1 << (e % 64)
	s.kinds[e] = 0

	if i < len(s.heap) {
		s.down(i)
		s.up(i)
	}
}

func (s *Scheduler) less(i, j int) bool {
	return s.order.Label(s.heap[i]) < s.order.Label(s.heap[j])
}

func (s *Scheduler) swap(i, j int) {
	s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
	s.heapPos[s.heap[i]] = int32(i)
	s.heapPos[s.heap[j]] = int32(j)
}

func (s *Scheduler) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !s.less(i, parent) {
			return
		}
		s.swap(i, parent)
		i = parent
	}
}

func (s *Scheduler) down(i int) {
	n := len(s.heap)
	for {
		smallest := i
		if l := 2*i + 1; l < n && s.less(l, smallest) {
			smallest = l
		}
		if r := 2*i + 2; r < n && s.less(r, smallest) {
			smallest = r
		}
		if smallest == i {
			return
		}
		s.swap(i, smallest)
		i = smallest
	}
}
