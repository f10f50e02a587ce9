package layout

import "math"

// Direction specifies the main axis for laying out children.
type Direction uint8

const (
	Row    Direction = iota // Children laid out left-to-right
	Column                  // Children laid out top-to-bottom
)

// Justify specifies how children are distributed along the main axis.
type Justify uint8

const (
	JustifyStart        Justify = iota // Pack at start
	JustifyEnd                         // Pack at end
	JustifyCenter                      // Center children
	JustifySpaceBetween                // Even space between, none at edges
	JustifySpaceAround                 // Half space at edges, full space between
	JustifySpaceEvenly                 // Equal space between and at edges
)

// Align specifies how children are positioned on the cross axis.
type Align uint8

const (
	AlignStart   Align = iota // Align to start of cross axis
	AlignEnd                  // Align to end of cross axis
	AlignCenter               // Center on cross axis
	AlignStretch              // Stretch auto-sized children to fill cross axis
)

// Unbounded is the max-size value meaning "no maximum".
var Unbounded = float32(math.Inf(1))

// Style contains all layout properties for an element.
// A Style is a value: replacing it is the only way to change it. Start from
// DefaultStyle; the zero value has zero maximum sizes.
type Style struct {
	// Sizing
	Width     Value
	Height    Value
	MinWidth  float32
	MinHeight float32
	MaxWidth  float32 // Unbounded when unset
	MaxHeight float32 // Unbounded when unset

	// Flex container properties
	Direction      Direction
	JustifyContent Justify
	AlignItems     Align
	Gap            float32 // Space between children (main axis only)

	// Flex item properties
	FlexGrow   float32 // How much to grow relative to siblings
	FlexShrink float32 // How much to shrink relative to siblings (default 1)

	// Spacing
	Padding Edges
}

// DefaultStyle returns a Style with sensible defaults.
func DefaultStyle() Style {
	return Style{
		Width:      Auto(),
		Height:     Auto(),
		MaxWidth:   Unbounded,
		MaxHeight:  Unbounded,
		Direction:  Row,
		AlignItems: AlignStretch,
		FlexShrink: 1.0,
	}
}

// mainSize returns the main-axis size value for a container of direction dir.
func (s *Style) mainSize(dir Direction) Value {
	if dir == Row {
		return s.Width
	}
	return s.Height
}

// crossSize returns the cross-axis size value for a container of direction dir.
func (s *Style) crossSize(dir Direction) Value {
	if dir == Row {
		return s.Height
	}
	return s.Width
}

// mainBounds returns the main-axis min and max for a container of direction dir.
func (s *Style) mainBounds(dir Direction) (lo, hi float32) {
	if dir == Row {
		return s.MinWidth, s.MaxWidth
	}
	return s.MinHeight, s.MaxHeight
}

// crossBounds returns the cross-axis min and max for a container of direction dir.
func (s *Style) crossBounds(dir Direction) (lo, hi float32) {
	if dir == Row {
		return s.MinHeight, s.MaxHeight
	}
	return s.MinWidth, s.MaxWidth
}
