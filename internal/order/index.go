// Package order maintains a total order over elements that answers
// "does A precede B?" in O(1) while supporting O(1) insert-after and remove.
//
// Elements live in fixed-capacity buckets linked in order. An element's label
// is its bucket's base plus its position in the bucket, so insertion only
// renumbers one bucket. A full bucket splits in two and the new bucket's base
// is interpolated between its neighbors; when no room is left between them
// every bucket is relabeled with fresh, evenly spaced bases.
package order

import (
	"iter"
	"math"
	"slices"
)

const nilBucket int32 = -1

// DefaultBucketCapacity is the number of elements held by one bucket.
const DefaultBucketCapacity = 64

// DefaultSpacing is the gap between consecutive bucket bases after a relabel.
const DefaultSpacing uint64 = 1 << 32

type bucket struct {
	base       uint64
	elems      []uint32
	prev, next int32
}

type slot struct {
	bucket int32
	pos    int32
	live   bool
}

// Index is a two-level order-maintenance structure keyed by element index.
// The zero value is not usable; create one with New.
type Index struct {
	capacity int
	spacing  uint64

	buckets     []bucket
	freeBuckets []int32
	head, tail  int32

	slots    []slot
	n        int
	relabels int
}

// New creates an Index. spacing must be at least twice bucketCapacity so a
// split always finds room between two freshly relabeled buckets.
func New(bucketCapacity int, spacing uint64) *Index {
	if bucketCapacity < 2 {
		panic("order: bucket capacity must be at least 2")
	}
	if spacing < 2*uint64(bucketCapacity) {
		panic("order: label spacing must be at least twice the bucket capacity")
	}
	return &Index{
		capacity: bucketCapacity,
		spacing:  spacing,
		head:     nilBucket,
		tail:     nilBucket,
	}
}

// Len returns the number of indexed elements.
func (x *Index) Len() int {
	return x.n
}

// Relabels returns how many global relabels have run.
func (x *Index) Relabels() int {
	return x.relabels
}

// Contains reports whether e is indexed.
func (x *Index) Contains(e uint32) bool {
	return int(e) < len(x.slots) && x.slots[e].live
}

// Label returns e's current label. Labels are only comparable with other
// labels read before the next mutation.
func (x *Index) Label(e uint32) uint64 {
	s := x.mustSlot(e)
	return x.buckets[s.bucket].base + uint64(s.pos)
}

// ComesBefore reports whether a precedes b.
func (x *Index) ComesBefore(a, b uint32) bool {
	return x.Label(a) < x.Label(b)
}

// InsertFirst places e before every other element.
func (x *Index) InsertFirst(e uint32) {
	x.claim(e)
	if x.head == nilBucket {
		b := x.allocBucket()
		x.buckets[b].base = x.spacing
		x.head, x.tail = b, b
	}
	x.insertAt(x.head, 0, e)
}

// InsertAfter places e immediately after the indexed element after.
func (x *Index) InsertAfter(e, after uint32) {
	s := x.mustSlot(after)
	x.claim(e)
	x.insertAt(s.bucket, s.pos+1, e)
}

// Remove drops e from the order.
func (x *Index) Remove(e uint32) {
	s := x.mustSlot(e)
	b := &x.buckets[s.bucket]
	b.elems = slices.Delete(b.elems, int(s.pos), int(s.pos)+1)
	x.renumber(s.bucket, int(s.pos))
	x.slots[e] = slot{bucket: nilBucket}
	x.n--

	if len(b.elems) == 0 {
		x.unlinkBucket(s.bucket)
	}
}

// Last returns the final element in the order.
func (x *Index) Last() (uint32, bool) {
	if x.tail == nilBucket {
		return 0, false
	}
	elems := x.buckets[x.tail].elems
	return elems[len(elems)-1], true
}

// All yields the indexed elements in order.
func (x *Index) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for b := x.head; b != nilBucket; b = x.buckets[b].next {
			for _, e := range x.buckets[b].elems {
				if !yield(e) {
					return
				}
			}
		}
	}
}

func (x *Index) mustSlot(e uint32) slot {
	if !x.Contains(e) {
		panic("order: element is not indexed")
	}
	return x.slots[e]
}

// claim grows the slot table to cover e and checks e is not indexed yet.
func (x *Index) claim(e uint32) {
	if int(e) >= len(x.slots) {
		x.slots = append(x.slots, make([]slot, int(e)+1-len(x.slots))...)
	}
	if x.slots[e].live {
		panic("order: element already indexed")
	}
}

func (x *Index) insertAt(bi, pos int32, e uint32) {
	if len(x.buckets[bi].elems) == x.capacity {
		nb := x.split(bi)
		if kept := int32(len(x.buckets[bi].elems)); pos > kept {
			bi, pos = nb, pos-kept
		}
	}

	b := &x.buckets[bi]
	b.elems = slices.Insert(b.elems, int(pos), e)
	x.slots[e] = slot{bucket: bi, live: true}
	x.renumber(bi, int(pos))
	x.n++
}

// renumber refreshes the position of every element of bucket bi from pos on.
func (x *Index) renumber(bi int32, pos int) {
	elems := x.buckets[bi].elems
	for k := pos; k < len(elems); k++ {
		x.slots[elems[k]].bucket = bi
		x.slots[elems[k]].pos = int32(k)
	}
}

// split moves the upper half of bucket bi into a new bucket linked right
// after it and returns the new bucket.
func (x *Index) split(bi int32) int32 {
	nb := x.allocBucket()
	b, n := &x.buckets[bi], &x.buckets[nb]

	half := len(b.elems) / 2
	n.elems = append(n.elems, b.elems[half:]...)
	b.elems = b.elems[:half]

	n.prev, n.next = bi, b.next
	if b.next != nilBucket {
		x.buckets[b.next].prev = nb
	} else {
		x.tail = nb
	}
	b.next = nb
	x.renumber(nb, 0)

	if base, ok := x.interpolate(bi); ok {
		x.buckets[nb].base = base
	} else {
		x.relabel()
	}
	return nb
}

// interpolate picks a base for the bucket following bi, keeping room for a
// full bucket on both sides.
func (x *Index) interpolate(bi int32) (uint64, bool) {
	cap64 := uint64(x.capacity)
	lo := x.buckets[bi].base
	after := x.buckets[x.buckets[bi].next].next
	if after == nilBucket {
		if lo > math.MaxUint64-x.spacing-cap64 {
			return 0, false
		}
		return lo + x.spacing, true
	}

	gap := x.buckets[after].base - lo
	if gap < 2*cap64 {
		return 0, false
	}
	return lo + gap/2, true
}

// relabel assigns evenly spaced bases to every bucket. It is the only
// operation that touches the whole structure.
func (x *Index) relabel() {
	count := uint64(0)
	for b := x.head; b != nilBucket; b = x.buckets[b].next {
		count++
	}

	spacing := x.spacing
	if limit := (math.MaxUint64 - uint64(x.capacity)) / (count + 1); spacing > limit {
		spacing = limit
	}

	base := spacing
	for b := x.head; b != nilBucket; b = x.buckets[b].next {
		x.buckets[b].base = base
		base += spacing
	}
	x.relabels++
}

func (x *Index) allocBucket() int32 {
	if n := len(x.freeBuckets); n > 0 {
		b := x.freeBuckets[n-1]
		x.freeBuckets = x.freeBuckets[:n-1]
		x.buckets[b] = bucket{elems: x.buckets[b].elems[:0], prev: nilBucket, next: nilBucket}
		return b
	}
	x.buckets = append(x.buckets, bucket{
		elems: make([]uint32, 0, x.capacity),
		prev:  nilBucket,
		next:  nilBucket,
	})
	return int32(len(x.buckets) - 1)
}

func (x *Index) unlinkBucket(bi int32) {
	b := x.buckets[bi]
	if b.prev != nilBucket {
		x.buckets[b.prev].next = b.next
	} else {
		x.head = b.next
	}
	if b.next != nilBucket {
		x.buckets[b.next].prev = b.prev
	} else {
		x.tail = b.prev
	}
	x.freeBuckets = append(x.freeBuckets, bi)
}
