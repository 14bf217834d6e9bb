package foc

// Transformer performs Park transforms with a specific trig table.
type Transformer struct {
	trig *TrigTable
}

// NewTransformer returns a Transformer backed by t, or by DefaultTrigTable
// when t is nil.
func NewTransformer(t *TrigTable) *Transformer {
	if t == nil {
		t = DefaultTrigTable
	}
	return &Transformer{trig: t}
}

// Table returns the trig table in use.
func (tr *Transformer) Table() *TrigTable {
	return tr.trig
}

// Park rotates a stationary vector into the d/q frame at electrical angle
// theta, which must already be normalized.
//
//	d =  cosθ·α + sinθ·β
//	q = -sinθ·α + cosθ·β
func (tr *Transformer) Park(s Stationary, theta float64) Rotating {
	assertNormalized("Park", theta)
	sin, cos := tr.trig.SinCos(theta)
	return Rotating{
		D: cos*s.Alpha + sin*s.Beta,
		Q: -sin*s.Alpha + cos*s.Beta,
	}
}

// InversePark rotates a d/q vector back into the stationary frame.
//
//	α = cosθ·d - sinθ·q
//	β = sinθ·d + cosθ·q
func (tr *Transformer) InversePark(r Rotating, theta float64) Stationary {
	assertNormalized("InversePark", theta)
	sin, cos := tr.trig.SinCos(theta)
	return Stationary{
		Alpha: cos*r.D - sin*r.Q,
		Beta:  sin*r.D + cos*r.Q,
	}
}

var defaultTransformer = NewTransformer(nil)

// Park uses DefaultTrigTable.
func Park(s Stationary, theta float64) Rotating {
	return defaultTransformer.Park(s, theta)
}

// InversePark uses DefaultTrigTable.
func InversePark(r Rotating, theta float64) Stationary {
	return defaultTransformer.InversePark(r, theta)
}
