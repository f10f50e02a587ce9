package layout

// Unit specifies how a Value is interpreted.
type Unit uint8

const (
	UnitAuto  Unit = iota // Size determined by the parent's flex distribution
	UnitFixed             // Absolute size in layout units
)

// Value represents a dimension that is either fixed or auto.
type Value struct {
	Amount float32
	Unit   Unit
}

// Auto returns a Value that is sized by the parent container.
func Auto() Value {
	return Value{Unit: UnitAuto}
}

// Fixed returns a Value representing an absolute size.
func Fixed(n float32) Value {
	return Value{Amount: n, Unit: UnitFixed}
}

// Resolve returns the fixed amount, or fallback for auto values.
func (v Value) Resolve(fallback float32) float32 {
	if v.Unit == UnitFixed {
		return v.Amount
	}
	return fallback
}

// IsAuto returns true if this value is sized by the parent container.
func (v Value) IsAuto() bool {
	return v.Unit == UnitAuto
}
