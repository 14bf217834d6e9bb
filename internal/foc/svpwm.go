package foc

import (
	"fmt"
	"math"
)

// SectorOf classifies a stationary voltage vector into a hexagon sector
// from the signs of three discriminants:
//
//	d1 = β                 -> +1
//	d2 = (√3·α - β) / 2    -> +2
//	d3 = (-√3·α - β) / 2   -> +4
//
// Codes 1..6 are the sector. Codes 0 and 7 (the zero vector, or sign
// patterns that cannot occur for a real vector) map to DefaultSector.
func SectorOf(s Stationary) Sector {
	assertFinite("SectorOf", s.Alpha, s.Beta)

	var code Sector
	if s.Beta > 0 {
		code = 1
	}
	if (Sqrt3*s.Alpha-s.Beta)/2 > 0 {
		code += 2
	}
	if (-Sqrt3*s.Alpha-s.Beta)/2 > 0 {
		code += 4
	}

	if !code.Valid() {
		return DefaultSector
	}
	return code
}

// ModulatorParams are the fixed per-drive constants.
type ModulatorParams struct {
	// Ts is the switching period in the unit VectorTime is expressed in.
	Ts float64
	// Udc is the DC bus voltage.
	Udc float64
	// MaxCounter is the timer reload value representing one full period.
	MaxCounter float64
}

// DefaultModulatorParams returns Ts=1, Udc=12 V and a 5000 tick reload.
func DefaultModulatorParams() ModulatorParams {
	return ModulatorParams{
		Ts:         1.0,
		Udc:        12.0,
		MaxCounter: 5000.0,
	}
}

// Validate checks that every parameter is finite and strictly positive.
func (p ModulatorParams) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s=%v", ErrParameterBounds, name, v)
		}
		return nil
	}
	if err := check("ts", p.Ts); err != nil {
		return err
	}
	if err := check("udc", p.Udc); err != nil {
		return err
	}
	return check("max_counter", p.MaxCounter)
}

// Modulator computes space-vector timings and compare values.
type Modulator struct {
	params   ModulatorParams
	tsDivUdc float64
	// ticks per unit of Ts
	tickScale float64
}

// NewModulator validates p and returns a Modulator.
func NewModulator(p ModulatorParams) (*Modulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Modulator{
		params:    p,
		tsDivUdc:  p.Ts / p.Udc,
		tickScale: p.MaxCounter / p.Ts,
	}, nil
}

// Params returns the parameters the modulator was built with.
func (m *Modulator) Params() ModulatorParams {
	return m.params
}

// MaxLinearMagnitude is the radius of the circle inscribed in the voltage
// hexagon, Udc/√3. Larger vectors saturate in some sectors.
func (m *Modulator) MaxLinearMagnitude() float64 {
	return m.params.Udc * InvSqrt3
}

// activeTimes returns the on-times of the two adjacent active vectors.
// Sectors outside 1..6 take the sector 6 formulas.
func (m *Modulator) activeTimes(sector Sector, s Stationary) (tx, ty float64) {
	a, b := s.Alpha, s.Beta
	k := m.tsDivUdc

	switch sector {
	case 1:
		tx = (-1.5*a + Sqrt3Div2*b) * k
		ty = (1.5*a + Sqrt3Div2*b) * k
	case 2:
		tx = (1.5*a + Sqrt3Div2*b) * k
		ty = (-Sqrt3 * b) * k
	case 3:
		tx = (1.5*a - Sqrt3Div2*b) * k
		ty = (Sqrt3 * b) * k
	case 4:
		tx = (-Sqrt3 * b) * k
		ty = (-1.5*a + Sqrt3Div2*b) * k
	case 5:
		tx = (Sqrt3 * b) * k
		ty = (-1.5*a - Sqrt3Div2*b) * k
	default:
		tx = (-1.5*a - Sqrt3Div2*b) * k
		ty = (1.5*a - Sqrt3Div2*b) * k
	}
	return tx, ty
}

// VectorTime returns the switching instants for s in the given sector. When
// the active vectors need longer than Ts in total both are scaled down by the
// same factor, keeping the vector direction and clamping its length to the
// hexagon edge. The remaining zero-vector time is split evenly:
//
//	t0 = (Ts - Tx - Ty) / 4
//	t1 = t0 + Tx/2
//	t2 = t1 + Ty/2
func (m *Modulator) VectorTime(sector Sector, s Stationary) VectorTime {
	vt, _ := m.vectorTime(sector, s)
	return vt
}

func (m *Modulator) vectorTime(sector Sector, s Stationary) (VectorTime, bool) {
	assertFinite("VectorTime", s.Alpha, s.Beta)

	ts := m.params.Ts
	tx, ty := m.activeTimes(sector, s)

	// both are non-negative in the sector's own formulas; drop rounding noise
	tx, ty = math.Max(tx, 0), math.Max(ty, 0)

	saturated := false
	if sum := tx + ty; sum > ts {
		tx = math.Min(tx*ts/sum, ts)
		// ty takes the remainder so the zero-vector time is exactly 0
		ty = ts - tx
		saturated = true
	}

	var vt VectorTime
	vt.T0 = (ts - tx - ty) / 4
	vt.T1 = vt.T0 + tx/2
	vt.T2 = vt.T1 + ty/2
	return vt, saturated
}

// Counter assigns the switching instants to the three phases for the given
// sector and scales them to timer ticks. sector must be in 1..6.
func (m *Modulator) Counter(sector Sector, vt VectorTime) PWMCounter {
	assertSector("Counter", sector)

	var c PWMCounter
	switch sector {
	case 1:
		c = PWMCounter{U: vt.T1, V: vt.T0, W: vt.T2}
	case 2:
		c = PWMCounter{U: vt.T0, V: vt.T2, W: vt.T1}
	case 3:
		c = PWMCounter{U: vt.T0, V: vt.T1, W: vt.T2}
	case 4:
		c = PWMCounter{U: vt.T2, V: vt.T1, W: vt.T0}
	case 5:
		c = PWMCounter{U: vt.T2, V: vt.T0, W: vt.T1}
	default:
		c = PWMCounter{U: vt.T1, V: vt.T2, W: vt.T0}
	}

	c.U *= m.tickScale
	c.V *= m.tickScale
	c.W *= m.tickScale
	return c
}

// Output is the result of one modulation step.
type Output struct {
	Sector    Sector
	Times     VectorTime
	Counter   PWMCounter
	Saturated bool
}

// Modulate runs sector classification, vector timing and counter mapping
// for one period.
func (m *Modulator) Modulate(s Stationary) Output {
	sector := SectorOf(s)
	vt, saturated := m.vectorTime(sector, s)
	return Output{
		Sector:    sector,
		Times:     vt,
		Counter:   m.Counter(sector, vt),
		Saturated: saturated,
	}
}
