package gui

import "github.com/dgellow/zig-gui-sub000/internal/layout"

// Style and geometry types are defined in internal/layout, where the
// resolver works on them; the aliases below are the public names.
type (
	// Style is the set of flex properties of one element. Start from
	// DefaultStyle; the zero value caps both axes at zero.
	Style = layout.Style
	// Value is a width or height: Fixed(n) or Auto().
	Value = layout.Value
	Unit  = layout.Unit

	Direction = layout.Direction
	Justify   = layout.Justify
	Align     = layout.Align

	// Rect is published in absolute coordinates by GetRect.
	Rect  = layout.Rect
	Size  = layout.Size
	Edges = layout.Edges
)

// Main axis.
const (
	Row    = layout.Row
	Column = layout.Column
)

// Main-axis distribution of free space.
const (
	JustifyStart        = layout.JustifyStart
	JustifyEnd          = layout.JustifyEnd
	JustifyCenter       = layout.JustifyCenter
	JustifySpaceBetween = layout.JustifySpaceBetween
	JustifySpaceAround  = layout.JustifySpaceAround
	JustifySpaceEvenly  = layout.JustifySpaceEvenly
)

// Cross-axis placement.
const (
	AlignStart   = layout.AlignStart
	AlignEnd     = layout.AlignEnd
	AlignCenter  = layout.AlignCenter
	AlignStretch = layout.AlignStretch
)

const (
	UnitAuto  = layout.UnitAuto
	UnitFixed = layout.UnitFixed
)

// Unbounded is the MaxWidth/MaxHeight value meaning no maximum.
var Unbounded = layout.Unbounded

var (
	// Fixed returns a Value of n layout units.
	Fixed = layout.Fixed
	// Auto returns a Value the parent's flex distribution decides.
	Auto = layout.Auto
	// DefaultStyle returns auto sizes, unbounded maximums, row direction,
	// stretch alignment and a shrink factor of 1.
	DefaultStyle = layout.DefaultStyle

	EdgeAll       = layout.EdgeAll
	EdgeSymmetric = layout.EdgeSymmetric
	EdgeTRBL      = layout.EdgeTRBL
)
