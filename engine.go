package gui

import (
	"encoding/binary"
	"iter"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dgellow/zig-gui-sub000/internal/cache"
	"github.com/dgellow/zig-gui-sub000/internal/dirty"
	"github.com/dgellow/zig-gui-sub000/internal/layout"
	"github.com/dgellow/zig-gui-sub000/internal/order"
	"github.com/dgellow/zig-gui-sub000/internal/scratch"
	"github.com/dgellow/zig-gui-sub000/internal/simd"
	"github.com/dgellow/zig-gui-sub000/internal/tree"
)

// ElementID identifies an element within one Engine. IDs of removed
// elements are reused.
type ElementID uint32

// None is the absent-element id; as a parent it means "add a root".
const None ElementID = tree.None

// CacheStats counts result-cache lookups since the engine was created.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// Engine owns an element tree and computes its layout incrementally.
// It is not safe for concurrent use.
type Engine struct {
	cfg    Config
	log    *zap.Logger
	tracer Tracer

	tree  *tree.Store
	order *order.Index
	dirty *dirty.Scheduler
	spill *dirty.Scheduler // marks made during a pass that did not fit dirty
	cache *cache.Cache
	arena *scratch.Arena

	rel     []Rect // relative to the parent's top-left corner
	abs     []Rect
	content []Size

	relabels int
	lastPass PassStats

	styleBuf []Style
	rectBuf  []Rect
	nodeBuf  []uint32
	kindBuf  []dirty.Kind
	seen     map[uint32]struct{}
}

// New creates an engine. The configuration is validated and fixed for the
// engine's lifetime.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		log:    zap.NewNop(),
		tracer: NopTracer{},
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "option: %v", err)
		}
	}

	e.tree = tree.New(cfg.MaxElements)
	e.order = order.New(cfg.BucketCapacity, cfg.LabelSpacing)
	e.dirty = dirty.New(e.order, e.tree, cfg.dirtyCapacity())
	e.spill = dirty.New(e.order, e.tree, cfg.MaxElements)
	e.cache = cache.New(min(cfg.MaxElements, 1024))
	e.arena = scratch.New(cfg.scratchFloats())
	return e, nil
}

// AddElement creates an element with style as the last child of parent, or
// as the last root when parent is None.
func (e *Engine) AddElement(parent ElementID, style Style) (ElementID, error) {
	p := uint32(parent)
	if parent != None {
		if err := e.check(parent); err != nil {
			return None, err
		}
	}

	if err := e.reserve(1, p); err != nil {
		return None, translate(err, "add element under %d", parent)
	}

	// The new element goes right after the current end of its parent's
	// subtree in tree order.
	after, hasAfter := e.order.Last()
	if parent != None {
		after, hasAfter = e.tree.LastDescendant(p), true
	}

	id, err := e.tree.Add(p, style)
	if err != nil {
		e.log.Warn("element store full", zap.Int("max_elements", e.cfg.MaxElements))
		return None, translate(err, "add element under %d", parent)
	}
	e.grow(id)
	if hasAfter {
		e.order.InsertAfter(id, after)
	} else {
		e.order.InsertFirst(id)
	}
	e.noteRelabels()

	if parent != None {
		e.cache.Invalidate(p)
	}
	e.markUp(id, dirty.Full)
	return ElementID(id), nil
}

// RemoveElement removes id and its whole subtree.
func (e *Engine) RemoveElement(id ElementID) error {
	if err := e.check(id); err != nil {
		return err
	}
	parent, hasParent := e.tree.Parent(uint32(id))

	nodes := e.tree.PostOrder(uint32(id), e.nodeBuf[:0])
	defer func() { e.nodeBuf = nodes[:0] }()

	freed := 0
	for _, n := range nodes {
		if e.dirty.Contains(n) {
			freed++
		}
	}
	if err := e.reserve(-freed, parent); err != nil {
		return translate(err, "mark parent %d of removed element %d", parent, id)
	}

	for _, n := range nodes {
		e.discard(n)
	}
	if hasParent {
		e.cache.Invalidate(parent)
		e.markUp(parent, dirty.Size)
	}
	return nil
}

// discard drops a childless element from every structure.
func (e *Engine) discard(n uint32) {
	e.order.Remove(n)
	e.unqueue(n)
	e.cache.Invalidate(n)
	e.tree.Unlink(n)
	e.tree.Free(n)
	e.rel[n] = Rect{}
	e.abs[n] = Rect{}
	e.content[n] = Size{}
}

// SetStyle replaces the style of id.
func (e *Engine) SetStyle(id ElementID, style Style) error {
	if err := e.check(id); err != nil {
		return err
	}
	n := uint32(id)
	if err := e.reserve(0, n); err != nil {
		return translate(err, "mark restyled element %d", id)
	}
	e.tree.SetStyle(n, style)
	e.cache.Invalidate(n)
	if p, ok := e.tree.Parent(n); ok {
		e.cache.Invalidate(p)
	}
	e.markUp(n, dirty.Full)
	return nil
}

// Reparent moves id and its subtree to the end of newParent's children, or
// to the end of the root chain when newParent is None.
func (e *Engine) Reparent(id, newParent ElementID) error {
	if err := e.check(id); err != nil {
		return err
	}
	x, np := uint32(id), uint32(newParent)
	if newParent != None {
		if err := e.check(newParent); err != nil {
			return err
		}
		if np == x || e.tree.IsAncestor(x, np) {
			return errors.Wrapf(ErrInvalidElement, "reparent %d under %d would create a cycle", id, newParent)
		}
	}
	oldParent, hadParent := e.tree.Parent(x)
	// x's current chain covers the old parent's, np's chain the new one.
	if err := e.reserve(0, x, np); err != nil {
		return translate(err, "mark reparented element %d", id)
	}

	// Labels change with the move, so pending entries are taken out and
	// queued again afterwards.
	nodes := e.tree.PreOrder(x, e.nodeBuf[:0])
	kinds := e.kindBuf[:0]
	for _, n := range nodes {
		kinds = append(kinds, e.pending(n))
		e.unqueue(n)
		e.order.Remove(n)
	}

	e.tree.Unlink(x)
	after, hasAfter := e.order.Last()
	if newParent != None {
		after, hasAfter = e.tree.LastDescendant(np), true
	}
	e.tree.Link(x, np)

	for _, n := range nodes {
		if hasAfter {
			e.order.InsertAfter(n, after)
		} else {
			e.order.InsertFirst(n)
		}
		after, hasAfter = n, true
	}
	e.noteRelabels()

	for i, n := range nodes {
		if kinds[i] != 0 {
			e.mark(n, kinds[i])
		}
	}
	e.nodeBuf, e.kindBuf = nodes[:0], kinds[:0]

	if hadParent {
		e.cache.Invalidate(oldParent)
		e.markUp(oldParent, dirty.Size)
	}
	if newParent != None {
		e.cache.Invalidate(np)
	}
	e.markUp(x, dirty.Full)
	return nil
}

// MarkDirty forces id to be resolved again on the next pass.
func (e *Engine) MarkDirty(id ElementID) error {
	if err := e.check(id); err != nil {
		return err
	}
	if err := e.reserve(0, uint32(id)); err != nil {
		return translate(err, "mark element %d", id)
	}
	e.cache.Invalidate(uint32(id))
	e.markUp(uint32(id), dirty.Full)
	return nil
}

// ComputeLayout brings every dirty element up to date for a viewport of
// width x height. Roots are laid out at the origin against the viewport.
func (e *Engine) ComputeLayout(width, height float32, opts ...PassOption) error {
	pc := passConfig{tracer: e.tracer}
	for _, opt := range opts {
		opt(&pc)
	}

	start := time.Now()
	e.arena.Reset()
	for r := range e.tree.Roots() {
		e.mark(r, dirty.Size)
	}

	pc.tracer.PassStart(width, height, e.queued())
	var stats PassStats
	for pc.budget <= 0 || stats.Processed < pc.budget {
		entry, ok := e.next()
		if !ok {
			break
		}
		stats.Processed++

		hit, err := e.process(entry, width, height)
		if err != nil {
			// Keep the element queued so a later pass can retry it.
			e.mark(entry.Elem, entry.Kind)
			return err
		}
		switch {
		case hit:
			stats.CacheHits++
		case entry.Kind.Has(dirty.Size):
			stats.Resolved++
		}
		pc.tracer.Element(ElementID(entry.Elem), entry.Kind.String(), hit)
	}

	stats.Remaining = e.queued()
	stats.Relabels = e.order.Relabels()
	stats.Duration = time.Since(start)
	e.lastPass = stats
	pc.tracer.PassEnd(stats)
	return nil
}

// process publishes the absolute rect of one popped element and, for size
// entries, resolves its children unless the cache already holds the result.
func (e *Engine) process(entry dirty.Entry, vw, vh float32) (bool, error) {
	id := entry.Elem
	style := e.tree.Style(id)

	var origin Rect
	if p, ok := e.tree.Parent(id); ok {
		origin = e.abs[p]
	} else {
		e.rel[id] = Rect{
			Width:  simd.Clamp1(style.Width.Resolve(vw), style.MinWidth, style.MaxWidth),
			Height: simd.Clamp1(style.Height.Resolve(vh), style.MinHeight, style.MaxHeight),
		}
	}
	slot := e.rel[id]
	next := slot.Translate(origin.X, origin.Y)
	moved := next.X != e.abs[id].X || next.Y != e.abs[id].Y
	e.abs[id] = next
	if moved {
		for c := range e.tree.Children(id) {
			e.mark(c, dirty.Position)
		}
	}

	if !entry.Kind.Has(dirty.Size) {
		return false, nil
	}
	version := e.tree.Version(id)
	if w, h, ok := e.cache.Lookup(id, slot.Width, slot.Height, version); ok {
		e.content[id] = Size{Width: w, Height: h}
		return true, nil
	}
	return false, e.resolve(id, slot.Width, slot.Height, style, version)
}

func (e *Engine) resolve(id uint32, width, height float32, style Style, version uint64) error {
	styles := e.styleBuf[:0]
	for c := range e.tree.Children(id) {
		styles = append(styles, e.tree.Style(c))
	}
	e.styleBuf = styles
	if cap(e.rectBuf) < len(styles) {
		e.rectBuf = make([]Rect, len(styles))
	}
	rects := e.rectBuf[:len(styles)]

	size, err := layout.Resolve(e.arena, width, height, style, styles, rects)
	if err != nil {
		e.log.Warn("scratch arena exhausted",
			zap.Uint32("element", id),
			zap.Int("children", len(styles)),
			zap.Int("scratch_floats", e.arena.Cap()))
		return translate(err, "resolve element %d", id)
	}

	i := 0
	for c := range e.tree.Children(id) {
		r, old := rects[i], e.rel[c]
		i++
		e.rel[c] = r

		var kind dirty.Kind
		switch {
		case r.Width != old.Width || r.Height != old.Height:
			kind = dirty.Full
		case r.X != old.X || r.Y != old.Y:
			kind = dirty.Position
		default:
			continue
		}
		e.mark(c, kind)
	}

	e.content[id] = size
	e.cache.Update(id, width, height, version, size.Width, size.Height)
	return nil
}

// GetRect returns the absolute rect of id as of the last pass that
// processed it. The rect is the slot id's parent gave it, so an auto-sized
// container does not grow to fit its children; ContentSize reports their
// extent.
func (e *Engine) GetRect(id ElementID) (Rect, error) {
	if err := e.check(id); err != nil {
		return Rect{}, err
	}
	return e.abs[id], nil
}

// ContentSize returns the extent of id's children plus its padding, as of
// the last time id was resolved. It may exceed the rect when children
// overflow.
func (e *Engine) ContentSize(id ElementID) (Size, error) {
	if err := e.check(id); err != nil {
		return Size{}, err
	}
	return e.content[id], nil
}

// Style returns the style of id.
func (e *Engine) Style(id ElementID) (Style, error) {
	if err := e.check(id); err != nil {
		return Style{}, err
	}
	return e.tree.Style(uint32(id)), nil
}

// Parent returns the parent of id, or None for a root.
func (e *Engine) Parent(id ElementID) (ElementID, error) {
	if err := e.check(id); err != nil {
		return None, err
	}
	p, _ := e.tree.Parent(uint32(id))
	return ElementID(p), nil
}

// Children iterates the children of id in order. It yields nothing for an
// invalid id.
func (e *Engine) Children(id ElementID) iter.Seq[ElementID] {
	return func(yield func(ElementID) bool) {
		if e.check(id) != nil {
			return
		}
		for c := range e.tree.Children(uint32(id)) {
			if !yield(ElementID(c)) {
				return
			}
		}
	}
}

// Roots iterates the root elements in order.
func (e *Engine) Roots() iter.Seq[ElementID] {
	return func(yield func(ElementID) bool) {
		for r := range e.tree.Roots() {
			if !yield(ElementID(r)) {
				return
			}
		}
	}
}

// GetCacheStats returns the result-cache counters.
func (e *Engine) GetCacheStats() CacheStats {
	s := e.cache.Stats()
	return CacheStats{Hits: s.Hits, Misses: s.Misses}
}

// GetDirtyCount returns the number of queued elements.
func (e *Engine) GetDirtyCount() int { return e.queued() }

// GetElementCount returns the number of live elements.
func (e *Engine) GetElementCount() int { return e.tree.Len() }

// MaxElements returns the configured element capacity.
func (e *Engine) MaxElements() int { return e.cfg.MaxElements }

// Relabels returns how many global order-index relabels have happened.
func (e *Engine) Relabels() int { return e.order.Relabels() }

// LastPass returns the statistics of the most recent ComputeLayout call.
func (e *Engine) LastPass() PassStats { return e.lastPass }

// Digest hashes every live element's id and absolute rect in tree order.
// Equal digests mean equal published layouts.
func (e *Engine) Digest() uint64 {
	h := xxhash.New()
	var buf [20]byte
	for n := range e.order.All() {
		r := e.abs[n]
		b := binary.LittleEndian.AppendUint32(buf[:0], n)
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.X))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.Y))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.Width))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.Height))
		_, _ = h.Write(b)
	}
	return h.Sum64()
}

// mark queues n with kind. Marks that do not fit the dirty queue go to the
// spill queue, which has room for every element, so a pass never loses work.
func (e *Engine) mark(n uint32, kind dirty.Kind) {
	if e.spill.Contains(n) {
		_ = e.spill.MarkDirtyLocal(n, kind)
		return
	}
	if err := e.dirty.MarkDirtyLocal(n, kind); errors.Is(err, dirty.ErrQueueFull) {
		e.log.Debug("dirty queue full, spilling",
			zap.Uint32("element", n),
			zap.Int("dirty_capacity", e.cfg.dirtyCapacity()))
		_ = e.spill.MarkDirtyLocal(n, kind)
	}
}

// markUp marks n with kind and every ancestor of n with Size.
func (e *Engine) markUp(n uint32, kind dirty.Kind) {
	if e.spill.Len() == 0 && e.dirty.MarkDirty(n, kind) == nil {
		return
	}
	e.mark(n, kind)
	for p, ok := e.tree.Parent(n); ok; p, ok = e.tree.Parent(p) {
		e.mark(p, dirty.Size)
	}
}

// reserve fails with dirty.ErrQueueFull unless the dirty queue can take
// extra more entries plus every element of the chains starting at ids that
// is not queued yet.
func (e *Engine) reserve(extra int, ids ...uint32) error {
	if e.seen == nil {
		e.seen = make(map[uint32]struct{})
	}
	clear(e.seen)

	need := extra
	for _, n := range ids {
		for ok := n != tree.None; ok; n, ok = e.tree.Parent(n) {
			if _, dup := e.seen[n]; dup {
				break
			}
			e.seen[n] = struct{}{}
			if e.pending(n) == 0 {
				need++
			}
		}
	}
	if need > e.dirty.Room() {
		e.log.Warn("dirty queue full",
			zap.Int("needed", need),
			zap.Int("dirty_capacity", e.cfg.dirtyCapacity()))
		return dirty.ErrQueueFull
	}
	return nil
}

// next pops whichever of the two queues holds the entry first in tree order.
func (e *Engine) next() (dirty.Entry, bool) {
	d, queued := e.dirty.Peek()
	if s, spilled := e.spill.Peek(); spilled && (!queued || s < d) {
		return e.spill.PopNextDirty()
	}
	return e.dirty.PopNextDirty()
}

func (e *Engine) pending(n uint32) dirty.Kind {
	return e.dirty.Pending(n) | e.spill.Pending(n)
}

func (e *Engine) unqueue(n uint32) {
	e.dirty.NodeRemoved(n)
	e.spill.NodeRemoved(n)
}

func (e *Engine) queued() int {
	return e.dirty.Len() + e.spill.Len()
}

func (e *Engine) check(id ElementID) error {
	if id == None || !e.tree.IsLive(uint32(id)) {
		return errors.Wrapf(ErrInvalidElement, "element %d", id)
	}
	return nil
}

func (e *Engine) grow(id uint32) {
	if int(id) < len(e.abs) {
		return
	}
	n := int(id) + 1 - len(e.abs)
	e.rel = append(e.rel, make([]Rect, n)...)
	e.abs = append(e.abs, make([]Rect, n)...)
	e.content = append(e.content, make([]Size, n)...)
}

func (e *Engine) noteRelabels() {
	if n := e.order.Relabels(); n != e.relabels {
		e.relabels = n
		e.log.Debug("order index relabeled",
			zap.Int("relabels", n),
			zap.Int("elements", e.order.Len()))
	}
}
