package gui

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, maxElements int, opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MaxElements = maxElements
	e, err := New(cfg, opts...)
	require.NoError(t, err)
	return e
}

func add(t *testing.T, e *Engine, parent ElementID, style Style) ElementID {
	t.Helper()
	id, err := e.AddElement(parent, style)
	require.NoError(t, err)
	return id
}

func rect(t *testing.T, e *Engine, id ElementID) Rect {
	t.Helper()
	r, err := e.GetRect(id)
	require.NoError(t, err)
	return r
}

func column(mod func(*Style)) Style {
	s := DefaultStyle()
	s.Direction = Column
	if mod != nil {
		mod(&s)
	}
	return s
}

func height(h float32) Style {
	s := DefaultStyle()
	s.Height = Fixed(h)
	return s
}

// preOrder walks the tree through the public API.
func preOrder(e *Engine) []ElementID {
	var out []ElementID
	var walk func(ElementID)
	walk = func(id ElementID) {
		out = append(out, id)
		for c := range e.Children(id) {
			walk(c)
		}
	}
	for r := range e.Roots() {
		walk(r)
	}
	return out
}

// checkIntegrity verifies the order index matches the tree's pre-order and
// that nothing queued is dead.
func checkIntegrity(t *testing.T, e *Engine) {
	t.Helper()
	want := preOrder(e)
	var got []ElementID
	for n := range e.order.All() {
		got = append(got, ElementID(n))
	}
	require.Equal(t, want, got, "order index follows tree pre-order")
	require.Equal(t, len(want), e.GetElementCount())

	for i := 1; i < len(want); i++ {
		require.True(t, e.order.ComesBefore(uint32(want[i-1]), uint32(want[i])))
	}
	for n := uint32(0); int(n) < e.tree.Slots(); n++ {
		if !e.tree.IsLive(n) {
			require.False(t, e.dirty.Contains(n), "dead element %d is queued", n)
			require.False(t, e.spill.Contains(n), "dead element %d is spilled", n)
			require.False(t, e.order.Contains(n), "dead element %d is indexed", n)
		}
		require.False(t, e.dirty.Contains(n) && e.spill.Contains(n), "element %d is queued twice", n)
	}
}

func TestEngine_ColumnGap(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, column(func(s *Style) { s.Gap = 10 }))
	a := add(t, e, root, height(50))
	b := add(t, e, root, height(30))
	c := add(t, e, root, height(40))

	require.NoError(t, e.ComputeLayout(100, 200))

	assert.Equal(t, Rect{X: 0, Y: 0, Width: 100, Height: 200}, rect(t, e, root))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 100, Height: 50}, rect(t, e, a))
	assert.Equal(t, Rect{X: 0, Y: 60, Width: 100, Height: 30}, rect(t, e, b))
	assert.Equal(t, Rect{X: 0, Y: 100, Width: 100, Height: 40}, rect(t, e, c))

	content, err := e.ContentSize(root)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 100, Height: 140}, content)
	assert.Zero(t, e.GetDirtyCount())
}

func TestEngine_FlexGrow(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, DefaultStyle())
	grow := func(g float32) Style {
		s := DefaultStyle()
		s.FlexGrow = g
		return s
	}
	a := add(t, e, root, grow(1))
	b := add(t, e, root, grow(2))

	require.NoError(t, e.ComputeLayout(300, 40))

	assert.InDelta(t, 100, rect(t, e, a).Width, 0.01)
	assert.InDelta(t, 200, rect(t, e, b).Width, 0.01)
	assert.InDelta(t, 100, rect(t, e, b).X, 0.01)
}

func TestEngine_JustifyCenter(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, column(func(s *Style) { s.JustifyContent = JustifyCenter }))
	child := add(t, e, root, height(50))

	require.NoError(t, e.ComputeLayout(100, 200))
	assert.Equal(t, float32(75), rect(t, e, child).Y)
}

func TestEngine_NestedAbsolutePositions(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, column(func(s *Style) { s.Padding = EdgeAll(5) }))
	top := add(t, e, root, height(20))
	box := add(t, e, root, func() Style {
		s := height(50)
		s.Padding = EdgeTRBL(2, 0, 0, 4)
		return s
	}())
	inner := add(t, e, box, func() Style {
		s := DefaultStyle()
		s.Width = Fixed(10)
		return s
	}())

	require.NoError(t, e.ComputeLayout(100, 100))

	assert.Equal(t, Rect{X: 5, Y: 5, Width: 90, Height: 20}, rect(t, e, top))
	assert.Equal(t, Rect{X: 5, Y: 25, Width: 90, Height: 50}, rect(t, e, box))
	assert.Equal(t, Rect{X: 9, Y: 27, Width: 10, Height: 48}, rect(t, e, inner))
}

func TestEngine_SecondPassIsAllCacheHits(t *testing.T) {
	e := newTestEngine(t, 64)
	root := add(t, e, None, column(nil))
	for i := 0; i < 5; i++ {
		row := add(t, e, root, height(20))
		for j := 0; j < 3; j++ {
			add(t, e, row, DefaultStyle())
		}
	}

	require.NoError(t, e.ComputeLayout(300, 200))
	first := e.LastPass()
	assert.Equal(t, e.GetElementCount(), first.Processed)
	before := e.GetCacheStats()
	digest := e.Digest()
	rects := make(map[ElementID]Rect)
	for _, id := range preOrder(e) {
		rects[id] = rect(t, e, id)
	}

	require.NoError(t, e.ComputeLayout(300, 200))
	second := e.LastPass()
	after := e.GetCacheStats()

	assert.Zero(t, second.Resolved)
	assert.Equal(t, 1, second.Processed, "only the root is visited")
	assert.Equal(t, before.Misses, after.Misses)
	assert.Equal(t, before.Hits+1, after.Hits)
	assert.Equal(t, digest, e.Digest())
	for id, r := range rects {
		assert.Equal(t, r, rect(t, e, id))
	}
}

func TestEngine_IncrementalRestyle(t *testing.T) {
	e := newTestEngine(t, 64)
	root := add(t, e, None, column(nil))
	var rows []ElementID
	for i := 0; i < 4; i++ {
		row := add(t, e, root, height(20))
		rows = append(rows, row)
		for j := 0; j < 4; j++ {
			add(t, e, row, height(10))
		}
	}
	require.NoError(t, e.ComputeLayout(200, 200))

	// Growing the first row pushes the other rows down without changing
	// their size, so their children are only repositioned.
	require.NoError(t, e.SetStyle(rows[0], height(30)))
	require.NoError(t, e.ComputeLayout(200, 200))

	pass := e.LastPass()
	assert.Equal(t, 2, pass.Resolved, "root and the restyled row")
	assert.Equal(t, float32(30), rect(t, e, rows[1]).Y)
	for c := range e.Children(rows[3]) {
		assert.Equal(t, float32(70), rect(t, e, c).Y)
	}
}

func TestEngine_ViewportResize(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, DefaultStyle())
	a := add(t, e, root, func() Style { s := DefaultStyle(); s.FlexGrow = 1; return s }())

	require.NoError(t, e.ComputeLayout(100, 50))
	assert.Equal(t, float32(100), rect(t, e, a).Width)

	require.NoError(t, e.ComputeLayout(160, 50))
	assert.Equal(t, Rect{Width: 160, Height: 50}, rect(t, e, root))
	assert.Equal(t, float32(160), rect(t, e, a).Width)
}

func TestEngine_RootClampedToMinMax(t *testing.T) {
	e := newTestEngine(t, 4)
	style := DefaultStyle()
	style.MaxWidth = 80
	style.MinHeight = 300
	root := add(t, e, None, style)

	require.NoError(t, e.ComputeLayout(100, 200))
	assert.Equal(t, Rect{Width: 80, Height: 300}, rect(t, e, root))
}

func TestEngine_MultipleRoots(t *testing.T) {
	e := newTestEngine(t, 8)
	r1 := add(t, e, None, DefaultStyle())
	r2 := add(t, e, None, func() Style { s := DefaultStyle(); s.Width = Fixed(40); return s }())
	child := add(t, e, r1, DefaultStyle())

	require.NoError(t, e.ComputeLayout(100, 60))

	assert.Equal(t, []ElementID{r1, r2}, slices.Collect(e.Roots()))
	assert.Equal(t, Rect{Width: 100, Height: 60}, rect(t, e, r1))
	assert.Equal(t, Rect{Width: 40, Height: 60}, rect(t, e, r2))
	assert.Equal(t, Rect{Width: 0, Height: 60}, rect(t, e, child))
	checkIntegrity(t, e)
}

func TestEngine_RemoveMiddleSibling(t *testing.T) {
	e := newTestEngine(t, 32)
	root := add(t, e, None, column(nil))
	a := add(t, e, root, height(10))
	b := add(t, e, root, height(20))
	c := add(t, e, root, height(30))
	b1 := add(t, e, b, DefaultStyle())
	b2 := add(t, e, b, DefaultStyle())
	b11 := add(t, e, b1, DefaultStyle())
	require.NoError(t, e.ComputeLayout(100, 100))

	// Leave part of the doomed subtree queued.
	require.NoError(t, e.SetStyle(b11, height(5)))
	require.NoError(t, e.SetStyle(b2, height(5)))

	require.NoError(t, e.RemoveElement(b))

	assert.Equal(t, []ElementID{a, c}, slices.Collect(e.Children(root)))
	assert.Equal(t, 3, e.GetElementCount())
	for _, id := range []ElementID{b, b1, b2, b11} {
		_, err := e.GetRect(id)
		assert.ErrorIs(t, err, ErrInvalidElement)
		assert.False(t, e.dirty.Contains(uint32(id)))
		assert.False(t, e.order.Contains(uint32(id)))
	}
	checkIntegrity(t, e)

	require.NoError(t, e.ComputeLayout(100, 100))
	assert.Equal(t, float32(10), rect(t, e, c).Y)
	assert.Zero(t, e.GetDirtyCount())
}

func TestEngine_RemoveRoot(t *testing.T) {
	e := newTestEngine(t, 8)
	r1 := add(t, e, None, DefaultStyle())
	add(t, e, r1, DefaultStyle())
	r2 := add(t, e, None, DefaultStyle())

	require.NoError(t, e.RemoveElement(r1))
	assert.Equal(t, []ElementID{r2}, slices.Collect(e.Roots()))
	checkIntegrity(t, e)

	assert.ErrorIs(t, e.RemoveElement(r1), ErrInvalidElement)
}

func TestEngine_IDsAreReused(t *testing.T) {
	e := newTestEngine(t, 2)
	root := add(t, e, None, DefaultStyle())
	a := add(t, e, root, DefaultStyle())
	require.NoError(t, e.RemoveElement(a))

	b := add(t, e, root, height(7))
	assert.Equal(t, a, b)
	require.NoError(t, e.ComputeLayout(10, 10))
	assert.Equal(t, float32(7), rect(t, e, b).Height)
}

func TestEngine_Reparent(t *testing.T) {
	e := newTestEngine(t, 32)
	root := add(t, e, None, column(nil))
	left := add(t, e, root, height(40))
	right := add(t, e, root, height(60))
	x := add(t, e, left, DefaultStyle())
	x1 := add(t, e, x, DefaultStyle())
	add(t, e, right, DefaultStyle())
	require.NoError(t, e.ComputeLayout(100, 100))

	require.NoError(t, e.Reparent(x, right))
	checkIntegrity(t, e)

	p, err := e.Parent(x)
	require.NoError(t, err)
	assert.Equal(t, right, p)
	assert.Empty(t, slices.Collect(e.Children(left)))

	require.NoError(t, e.ComputeLayout(100, 100))
	assert.Equal(t, float32(40), rect(t, e, x).Y)
	assert.Equal(t, float32(40), rect(t, e, x1).Y)
	assert.Zero(t, e.GetDirtyCount())
}

func TestEngine_ReparentKeepsPendingMarks(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, DefaultStyle())
	a := add(t, e, root, DefaultStyle())
	b := add(t, e, root, DefaultStyle())
	leaf := add(t, e, a, DefaultStyle())
	require.NoError(t, e.ComputeLayout(100, 100))

	require.NoError(t, e.SetStyle(leaf, height(3)))
	require.NoError(t, e.Reparent(a, b))

	assert.True(t, e.dirty.Contains(uint32(leaf)))
	checkIntegrity(t, e)
	require.NoError(t, e.ComputeLayout(100, 100))
	assert.Equal(t, float32(3), rect(t, e, leaf).Height)
}

func TestEngine_ReparentToRoot(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, func() Style { s := DefaultStyle(); s.Padding = EdgeAll(10); return s }())
	x := add(t, e, root, DefaultStyle())
	require.NoError(t, e.ComputeLayout(100, 100))
	assert.Equal(t, float32(10), rect(t, e, x).X)

	require.NoError(t, e.Reparent(x, None))
	checkIntegrity(t, e)
	require.NoError(t, e.ComputeLayout(100, 100))

	assert.Equal(t, Rect{Width: 100, Height: 100}, rect(t, e, x))
	assert.Equal(t, []ElementID{root, x}, slices.Collect(e.Roots()))
}

func TestEngine_ReparentRejectsCycles(t *testing.T) {
	e := newTestEngine(t, 8)
	root := add(t, e, None, DefaultStyle())
	a := add(t, e, root, DefaultStyle())
	b := add(t, e, a, DefaultStyle())

	assert.ErrorIs(t, e.Reparent(a, b), ErrInvalidElement)
	assert.ErrorIs(t, e.Reparent(a, a), ErrInvalidElement)
	assert.ErrorIs(t, e.Reparent(a, 99), ErrInvalidElement)
	checkIntegrity(t, e)
}

func TestEngine_CapacityExceeded(t *testing.T) {
	e := newTestEngine(t, 2)
	root := add(t, e, None, DefaultStyle())
	add(t, e, root, DefaultStyle())

	_, err := e.AddElement(root, DefaultStyle())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 2, e.GetElementCount())
	assert.Equal(t, 2, e.MaxElements())
}

func TestEngine_DirtyQueueFullLeavesTreeUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElements = 8
	cfg.DirtyCapacity = 1
	e, err := New(cfg)
	require.NoError(t, err)

	root := add(t, e, None, DefaultStyle())
	_, err = e.AddElement(root, DefaultStyle())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, e.GetElementCount())
	checkIntegrity(t, e)
}

func TestEngine_DirtyQueueFullRejectsMutations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElements = 8
	cfg.DirtyCapacity = 2
	e, err := New(cfg)
	require.NoError(t, err)

	root := add(t, e, None, DefaultStyle())
	require.NoError(t, e.ComputeLayout(100, 100))
	a := add(t, e, root, height(10))
	require.NoError(t, e.ComputeLayout(100, 100))
	b := add(t, e, None, DefaultStyle())
	require.NoError(t, e.ComputeLayout(100, 100))
	c := add(t, e, None, DefaultStyle())
	require.NoError(t, e.ComputeLayout(100, 100))
	before := rect(t, e, a)

	require.NoError(t, e.MarkDirty(b))
	require.NoError(t, e.MarkDirty(c))
	assert.ErrorIs(t, e.SetStyle(a, height(20)), ErrCapacityExceeded)
	assert.ErrorIs(t, e.MarkDirty(a), ErrCapacityExceeded)
	assert.ErrorIs(t, e.Reparent(a, b), ErrCapacityExceeded)
	assert.ErrorIs(t, e.RemoveElement(a), ErrCapacityExceeded)
	_, err = e.AddElement(root, DefaultStyle())
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	style, err := e.Style(a)
	require.NoError(t, err)
	assert.Equal(t, height(10), style)
	parent, err := e.Parent(a)
	require.NoError(t, err)
	assert.Equal(t, root, parent)
	assert.Equal(t, 4, e.GetElementCount())
	assert.Equal(t, 2, e.GetDirtyCount())
	checkIntegrity(t, e)

	// Removing b frees its own slot.
	require.NoError(t, e.RemoveElement(b))
	assert.Equal(t, 1, e.GetDirtyCount())
	require.NoError(t, e.ComputeLayout(100, 100))
	require.NoError(t, e.SetStyle(a, height(20)))
	require.NoError(t, e.ComputeLayout(100, 100))
	assert.Zero(t, e.GetDirtyCount())
	assert.Equal(t, before.Y, rect(t, e, a).Y)
	assert.Equal(t, float32(20), rect(t, e, a).Height)
	checkIntegrity(t, e)
}

// gapColumn builds a column root with kids of the given heights, laying out
// after every add so a small dirty queue never fills during setup.
func gapColumn(t *testing.T, e *Engine, heights ...float32) (ElementID, []ElementID) {
	t.Helper()
	root := add(t, e, None, column(nil))
	require.NoError(t, e.ComputeLayout(100, 100))
	kids := make([]ElementID, 0, len(heights))
	for _, h := range heights {
		kids = append(kids, add(t, e, root, height(h)))
		require.NoError(t, e.ComputeLayout(100, 100))
	}
	return root, kids
}

func kidYs(t *testing.T, e *Engine, kids []ElementID) []float32 {
	t.Helper()
	ys := make([]float32, 0, len(kids))
	for _, k := range kids {
		ys = append(ys, rect(t, e, k).Y)
	}
	return ys
}

func TestEngine_DirtyQueueFullDuringPass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElements = 8
	cfg.DirtyCapacity = 2
	e, err := New(cfg)
	require.NoError(t, err)

	root, kids := gapColumn(t, e, 10, 10, 10, 10)
	assert.Equal(t, []float32{0, 10, 20, 30}, kidYs(t, e, kids))

	// Three kids move, more than the queue holds.
	require.NoError(t, e.SetStyle(root, column(func(s *Style) { s.Gap = 5 })))
	require.NoError(t, e.ComputeLayout(100, 100))

	assert.Equal(t, []float32{0, 15, 30, 45}, kidYs(t, e, kids))
	assert.Zero(t, e.GetDirtyCount())
	assert.Equal(t, 4, e.LastPass().Processed)
	assert.Zero(t, e.LastPass().Remaining)
	checkIntegrity(t, e)

	for range 3 {
		require.NoError(t, e.ComputeLayout(100, 100))
		assert.Equal(t, []float32{0, 15, 30, 45}, kidYs(t, e, kids))
		assert.Equal(t, 1, e.LastPass().Processed)
	}
}

func TestEngine_BudgetThenFullQueue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElements = 8
	cfg.DirtyCapacity = 2
	e, err := New(cfg)
	require.NoError(t, err)

	root, kids := gapColumn(t, e, 10, 10, 10, 10)
	require.NoError(t, e.SetStyle(root, column(func(s *Style) { s.Gap = 5 })))

	require.NoError(t, e.ComputeLayout(100, 100, Budget(2)))
	assert.Equal(t, 2, e.LastPass().Processed)
	assert.Equal(t, 2, e.LastPass().Remaining)
	assert.Equal(t, 2, e.GetDirtyCount())
	assert.Equal(t, float32(15), rect(t, e, kids[1]).Y)
	assert.Equal(t, float32(20), rect(t, e, kids[2]).Y, "not processed yet")

	// kids[0] and root would need two slots; one is free.
	assert.ErrorIs(t, e.MarkDirty(kids[0]), ErrCapacityExceeded)
	assert.Equal(t, 2, e.GetDirtyCount())

	require.NoError(t, e.SetStyle(kids[2], height(20)))
	assert.Equal(t, 3, e.GetDirtyCount())
	checkIntegrity(t, e)

	require.NoError(t, e.ComputeLayout(100, 100))
	assert.Zero(t, e.GetDirtyCount())
	assert.Equal(t, []float32{0, 15, 30, 55}, kidYs(t, e, kids))
	assert.Equal(t, float32(20), rect(t, e, kids[2]).Height)
	checkIntegrity(t, e)

	fresh := newTestEngine(t, 8)
	r := add(t, fresh, None, column(func(s *Style) { s.Gap = 5 }))
	for _, h := range []float32{10, 10, 20, 10} {
		add(t, fresh, r, height(h))
	}
	require.NoError(t, fresh.ComputeLayout(100, 100))
	assert.Equal(t, fresh.Digest(), e.Digest())
}

func TestEngine_ScratchExhausted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxElements = 8
	cfg.ScratchFloats = 9 // room for one child
	e, err := New(cfg)
	require.NoError(t, err)

	root := add(t, e, None, DefaultStyle())
	add(t, e, root, DefaultStyle())
	add(t, e, root, DefaultStyle())

	err = e.ComputeLayout(100, 100)
	assert.ErrorIs(t, err, ErrAllocationFailure)
	assert.True(t, e.dirty.Contains(uint32(root)), "failed element stays queued")
}

func TestEngine_InvalidElement(t *testing.T) {
	e := newTestEngine(t, 4)

	_, err := e.AddElement(3, DefaultStyle())
	assert.ErrorIs(t, err, ErrInvalidElement)
	_, err = e.GetRect(None)
	assert.ErrorIs(t, err, ErrInvalidElement)
	_, err = e.ContentSize(1)
	assert.ErrorIs(t, err, ErrInvalidElement)
	_, err = e.Style(1)
	assert.ErrorIs(t, err, ErrInvalidElement)
	_, err = e.Parent(1)
	assert.ErrorIs(t, err, ErrInvalidElement)
	assert.ErrorIs(t, e.SetStyle(1, DefaultStyle()), ErrInvalidElement)
	assert.ErrorIs(t, e.MarkDirty(1), ErrInvalidElement)
	assert.Empty(t, slices.Collect(e.Children(1)))
}

func TestEngine_MarkDirtyForcesResolve(t *testing.T) {
	e := newTestEngine(t, 4)
	root := add(t, e, None, DefaultStyle())
	child := add(t, e, root, DefaultStyle())
	require.NoError(t, e.ComputeLayout(50, 50))

	require.NoError(t, e.MarkDirty(child))
	assert.Equal(t, 2, e.GetDirtyCount())
	require.NoError(t, e.ComputeLayout(50, 50))
	assert.Equal(t, 1, e.LastPass().Resolved)
	assert.Equal(t, 1, e.LastPass().CacheHits)
}

func TestEngine_Budget(t *testing.T) {
	e := newTestEngine(t, 16)
	root := add(t, e, None, column(nil))
	var kids []ElementID
	for i := 0; i < 4; i++ {
		kids = append(kids, add(t, e, root, height(10)))
	}

	require.NoError(t, e.ComputeLayout(100, 100, Budget(2)))
	assert.Equal(t, 2, e.LastPass().Processed)
	assert.Equal(t, 3, e.LastPass().Remaining)
	assert.Equal(t, 3, e.GetDirtyCount())

	require.NoError(t, e.ComputeLayout(100, 100))
	assert.Zero(t, e.GetDirtyCount())
	for i, k := range kids {
		assert.Equal(t, float32(10*i), rect(t, e, k).Y)
	}
}

type recordingTracer struct {
	starts   int
	elements []ElementID
	hits     int
	ends     []PassStats
}

func (r *recordingTracer) PassStart(float32, float32, int) { r.starts++ }

func (r *recordingTracer) Element(id ElementID, _ string, hit bool) {
	r.elements = append(r.elements, id)
	if hit {
		r.hits++
	}
}

func (r *recordingTracer) PassEnd(s PassStats) { r.ends = append(r.ends, s) }

func TestEngine_Tracer(t *testing.T) {
	engineTracer := &recordingTracer{}
	e := newTestEngine(t, 8, WithTracer(engineTracer))
	root := add(t, e, None, DefaultStyle())
	a := add(t, e, root, DefaultStyle())
	b := add(t, e, root, DefaultStyle())

	require.NoError(t, e.ComputeLayout(10, 10))
	assert.Equal(t, 1, engineTracer.starts)
	assert.Equal(t, []ElementID{root, a, b}, engineTracer.elements)
	require.Len(t, engineTracer.ends, 1)
	assert.Equal(t, 3, engineTracer.ends[0].Processed)

	passTracer := &recordingTracer{}
	require.NoError(t, e.ComputeLayout(10, 10, TraceWith(passTracer)))
	assert.Equal(t, 1, engineTracer.starts, "pass tracer replaces the engine tracer")
	assert.Equal(t, []ElementID{root}, passTracer.elements)
	assert.Equal(t, 1, passTracer.hits)
}

func TestEngine_Options(t *testing.T) {
	_, err := New(DefaultConfig(), WithLogger(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = New(DefaultConfig(), WithTracer(nil))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg := DefaultConfig()
	cfg.MaxElements = 0
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEngine_Digest(t *testing.T) {
	build := func() (*Engine, ElementID) {
		e := newTestEngine(t, 8)
		root := add(t, e, None, column(nil))
		child := add(t, e, root, height(10))
		require.NoError(t, e.ComputeLayout(50, 50))
		return e, child
	}
	e1, child := build()
	e2, _ := build()
	assert.Equal(t, e1.Digest(), e2.Digest())

	require.NoError(t, e1.SetStyle(child, height(11)))
	require.NoError(t, e1.ComputeLayout(50, 50))
	assert.NotEqual(t, e1.Digest(), e2.Digest())
}

// TestEngine_IncrementalMatchesFromScratch applies random edits, laying out
// after each batch, and compares the result with a fresh engine built from
// the final tree.
func TestEngine_IncrementalMatchesFromScratch(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 29))
	randomStyle := func() Style {
		s := DefaultStyle()
		if rng.IntN(2) == 0 {
			s.Direction = Column
		}
		s.JustifyContent = Justify(rng.IntN(6))
		s.AlignItems = Align(rng.IntN(4))
		s.Gap = float32(rng.IntN(3))
		s.Padding = EdgeAll(float32(rng.IntN(3)))
		s.FlexGrow = float32(rng.IntN(3))
		if rng.IntN(3) == 0 {
			s.Width = Fixed(float32(5 + rng.IntN(40)))
		}
		if rng.IntN(3) == 0 {
			s.Height = Fixed(float32(5 + rng.IntN(40)))
		}
		if rng.IntN(4) == 0 {
			s.MinWidth = float32(rng.IntN(10))
		}
		return s
	}

	e := newTestEngine(t, 256)
	live := []ElementID{add(t, e, None, randomStyle())}
	pick := func() ElementID { return live[rng.IntN(len(live))] }

	for round := 0; round < 40; round++ {
		for op := 0; op < 8; op++ {
			if len(live) == 0 {
				live = append(live, add(t, e, None, randomStyle()))
			}
			switch r := rng.IntN(10); {
			case r < 4 && len(live) < 200:
				live = append(live, add(t, e, pick(), randomStyle()))
			case r < 6:
				require.NoError(t, e.SetStyle(pick(), randomStyle()))
			case r < 8 && len(live) > 2:
				x, np := pick(), pick()
				if rng.IntN(5) == 0 {
					np = None
				}
				err := e.Reparent(x, np)
				if err != nil {
					require.ErrorIs(t, err, ErrInvalidElement)
				}
			case len(live) > 2:
				x := pick()
				require.NoError(t, e.RemoveElement(x))
				live = preOrder(e)
			}
		}
		checkIntegrity(t, e)
		require.NoError(t, e.ComputeLayout(200, 150))
		require.Zero(t, e.GetDirtyCount())
	}

	fresh := newTestEngine(t, 256)
	mapping := map[ElementID]ElementID{None: None}
	for _, id := range preOrder(e) {
		p, err := e.Parent(id)
		require.NoError(t, err)
		style, err := e.Style(id)
		require.NoError(t, err)
		mapping[id] = add(t, fresh, mapping[p], style)
	}
	require.NoError(t, fresh.ComputeLayout(200, 150))

	for id, fid := range mapping {
		if id == None {
			continue
		}
		assert.Equal(t, rect(t, fresh, fid), rect(t, e, id), "element %d", id)
	}
}
