package layout

import (
	"github.com/dgellow/zig-gui-sub000/internal/scratch"
	"github.com/dgellow/zig-gui-sub000/internal/simd"
)

// flexLine holds intermediate calculation state for the children of one
// container. Every slice is carved from the frame arena and must not be
// retained past the Resolve call that created it.
type flexLine struct {
	base     []float32
	main     []float32
	cross    []float32
	minMain  []float32
	maxMain  []float32
	minCross []float32
	maxCross []float32
	mainPos  []float32
	crossPos []float32
}

// lineArrays is the number of per-child slices in a flexLine.
const lineArrays = 9

// ScratchFloats returns the arena space Resolve needs for n children.
func ScratchFloats(n int) int {
	return lineArrays * n
}

func newFlexLine(buf []float32, n int) flexLine {
	next := func() []float32 {
		s := buf[:n:n]
		buf = buf[n:]
		return s
	}
	return flexLine{
		base:     next(),
		main:     next(),
		cross:    next(),
		minMain:  next(),
		maxMain:  next(),
		minCross: next(),
		maxCross: next(),
		mainPos:  next(),
		crossPos: next(),
	}
}

// Resolve arranges children inside a container of the given border-box size.
// Child rects are written to out relative to the container's top-left corner
// (container padding included). The returned Size is the container's auto
// size: the furthest child extent on each axis plus padding.
//
// Resolve is a pure function of its arguments; scratch memory comes from arena.
func Resolve(arena *scratch.Arena, width, height float32, container Style, children []Style, out []Rect) (Size, error) {
	pad := container.Padding
	n := len(children)
	if n == 0 {
		return Size{Width: pad.Horizontal(), Height: pad.Vertical()}, nil
	}
	if len(out) < n {
		panic("layout: Resolve output shorter than children")
	}

	dir := container.Direction
	isRow := dir == Row

	// Phase 1: content box
	content := Rect{Width: width, Height: height}.Inset(pad).Size()
	mainSize := max(0, content.Width)
	crossSize := max(0, content.Height)
	if !isRow {
		mainSize, crossSize = crossSize, mainSize
	}

	buf, err := arena.Floats(lineArrays * n)
	if err != nil {
		return Size{}, err
	}
	line := newFlexLine(buf, n)

	// Phase 2: base sizes and flex factors.
	// An auto main size starts from the min size (the hypothetical main size).
	var totalBase, totalGrow, totalShrink float32
	for i := range children {
		child := &children[i]
		line.minMain[i], line.maxMain[i] = child.mainBounds(dir)
		line.minCross[i], line.maxCross[i] = child.crossBounds(dir)
		line.base[i] = child.mainSize(dir).Resolve(line.minMain[i])

		totalBase += line.base[i]
		totalGrow += child.FlexGrow
		totalShrink += child.FlexShrink * line.base[i]
	}

	totalGap := container.Gap * float32(n-1)
	freeSpace := mainSize - totalBase - totalGap

	// Phase 3: distribute free space.
	// Shrinking is weighted by flex-shrink times base size. Weights are not
	// renormalized after clamping; an item pinned at its min keeps the deficit
	// it was assigned.
	switch {
	case freeSpace > 0 && totalGrow > 0:
		for i := range children {
			line.main[i] = line.base[i] + freeSpace*children[i].FlexGrow/totalGrow
		}
	case freeSpace < 0 && totalShrink > 0:
		for i := range children {
			weight := children[i].FlexShrink * line.base[i]
			line.main[i] = line.base[i] + freeSpace*weight/totalShrink
		}
	default:
		copy(line.main, line.base)
	}

	// Phase 4: apply min/max constraints
	simd.Clamp(line.main, line.main, line.minMain, line.maxMain)

	// Phase 5: cross-axis sizing
	for i := range children {
		crossValue := children[i].crossSize(dir)
		switch {
		case !crossValue.IsAuto():
			line.cross[i] = crossValue.Amount
		case container.AlignItems == AlignStretch:
			line.cross[i] = crossSize
		default:
			line.cross[i] = line.minCross[i]
		}
	}
	simd.Clamp(line.cross, line.cross, line.minCross, line.maxCross)

	// Phase 6: position along both axes
	var used float32
	for i := range children {
		used += line.main[i]
	}
	offset, spacing := justifyOffsets(container.JustifyContent, mainSize-used-totalGap, n)
	for i := range children {
		line.mainPos[i] = offset
		offset += line.main[i] + container.Gap + spacing
		line.crossPos[i] = alignOffset(container.AlignItems, crossSize, line.cross[i])
	}

	// Phase 7: convert to rects and measure the content extent.
	// The extent starts at the padding so it never reports less than it.
	right, bottom := pad.Left, pad.Top
	for i := range children {
		if isRow {
			out[i] = Rect{
				X:      pad.Left + line.mainPos[i],
				Y:      pad.Top + line.crossPos[i],
				Width:  line.main[i],
				Height: line.cross[i],
			}
		} else {
			out[i] = Rect{
				X:      pad.Left + line.crossPos[i],
				Y:      pad.Top + line.mainPos[i],
				Width:  line.cross[i],
				Height: line.main[i],
			}
		}
		right = max(right, out[i].Right())
		bottom = max(bottom, out[i].Bottom())
	}

	return Size{Width: right + pad.Right, Height: bottom + pad.Bottom}, nil
}

// justifyOffsets returns the leading offset and the extra spacing added after
// each child (on top of the style gap) for the given remaining space.
// Overflowing lines are packed at the start.
func justifyOffsets(justify Justify, remaining float32, n int) (lead, extra float32) {
	if remaining <= 0 || n == 0 {
		return 0, 0
	}

	switch justify {
	case JustifyEnd:
		return remaining, 0
	case JustifyCenter:
		return remaining / 2, 0
	case JustifySpaceBetween:
		if n > 1 {
			return 0, remaining / float32(n-1)
		}
		return 0, 0
	case JustifySpaceAround:
		extra = remaining / float32(n)
		return extra / 2, extra
	case JustifySpaceEvenly:
		extra = remaining / float32(n+1)
		return extra, extra
	default: // JustifyStart
		return 0, 0
	}
}

// alignOffset returns the offset for positioning a child on the cross axis.
func alignOffset(align Align, crossSize, itemSize float32) float32 {
	switch align {
	case AlignEnd:
		return crossSize - itemSize
	case AlignCenter:
		return (crossSize - itemSize) / 2
	default: // AlignStart, AlignStretch
		return 0
	}
}
