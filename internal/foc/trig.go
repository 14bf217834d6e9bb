package foc

import (
	"fmt"
	"math"
)

// DefaultTableSize is the number of intervals in DefaultTrigTable.
const DefaultTableSize = 512

// TrigTable provides sin/cos from one precomputed sine period with linear
// interpolation. The table holds n+1 samples; the last repeats the first so
// that interpolation never needs to wrap the upper index.
type TrigTable struct {
	sin []float64
	n   int
	// n / 2π
	scale float64
}

// DefaultTrigTable is used by the package level transforms.
var DefaultTrigTable = MustTrigTable(DefaultTableSize)

// NewTrigTable builds a table of n intervals over [0, 2π). n must be a power
// of two no smaller than 4.
func NewTrigTable(n int) (*TrigTable, error) {
	if n < 4 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrTableSize, n)
	}

	t := &TrigTable{
		sin:   make([]float64, n+1),
		n:     n,
		scale: float64(n) / TwoPi,
	}
	for i := 0; i < n; i++ {
		t.sin[i] = math.Sin(float64(i) * TwoPi / float64(n))
	}
	t.sin[n] = t.sin[0]

	return t, nil
}

// MustTrigTable is like NewTrigTable but panics on an invalid size.
func MustTrigTable(n int) *TrigTable {
	t, err := NewTrigTable(n)
	if err != nil {
		panic(err)
	}
	return t
}

// Size returns the number of table intervals.
func (t *TrigTable) Size() int {
	return t.n
}

// Step returns the angular spacing between samples.
func (t *TrigTable) Step() float64 {
	return TwoPi / float64(t.n)
}

// ErrorBound returns the worst-case interpolation error, Δθ²/8.
func (t *TrigTable) ErrorBound() float64 {
	d := t.Step()
	return d * d / 8
}

// Sin returns an approximation of sin(x). x may be any finite angle.
func (t *TrigTable) Sin(x float64) float64 {
	assertFinite("Sin", x)
	return t.lookup(t.index(x))
}

// Cos returns an approximation of cos(x), read from the sine table a
// quarter period ahead.
func (t *TrigTable) Cos(x float64) float64 {
	assertFinite("Cos", x)
	return t.lookup(t.index(x) + float64(t.n)/4)
}

// SinCos returns both values for the same angle.
func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	assertFinite("SinCos", x)
	idx := t.index(x)
	return t.lookup(idx), t.lookup(idx + float64(t.n)/4)
}

// index reduces x to one period before scaling so large angles keep their
// phase and the quarter-period cos shift is not lost to rounding.
func (t *TrigTable) index(x float64) float64 {
	return math.Mod(x, TwoPi) * t.scale
}

// lookup interpolates at a position given in table index units.
func (t *TrigTable) lookup(idx float64) float64 {
	// Floor, not truncation, so negative positions land in [0, n).
	periods := math.Floor(idx / float64(t.n))
	pos := idx - periods*float64(t.n)

	i := int(pos)
	if i >= t.n {
		// pos rounded up to exactly n
		i = 0
		pos -= float64(t.n)
	}
	if i < 0 {
		i = 0
		pos = 0
	}
	frac := pos - float64(i)

	return (1-frac)*t.sin[i] + frac*t.sin[i+1]
}

// FastSin uses the default table.
func FastSin(x float64) float64 {
	return DefaultTrigTable.Sin(x)
}

// FastCos uses the default table.
func FastCos(x float64) float64 {
	return DefaultTrigTable.Cos(x)
}

// FastSinCos uses the default table.
func FastSinCos(x float64) (float64, float64) {
	return DefaultTrigTable.SinCos(x)
}
