package foc

// Clarke projects three-phase quantities onto the stationary frame using the
// equal-amplitude convention:
//
//	α = u
//	β = (u + 2v) / √3
func Clarke(p ThreePhase) Stationary {
	assertFinite("Clarke", p.U, p.V)
	return Stationary{
		Alpha: p.U,
		Beta:  (p.U + 2*p.V) * InvSqrt3,
	}
}

// ClarkePowerScaled is the non-equal-amplitude variant:
//
//	α = 3/2 u
//	β = √3/2 u + √3 v
//
// Its output is 3/2 times that of Clarke.
func ClarkePowerScaled(p ThreePhase) Stationary {
	assertFinite("ClarkePowerScaled", p.U, p.V)
	return Stationary{
		Alpha: 1.5 * p.U,
		Beta:  Sqrt3Div2*p.U + Sqrt3*p.V,
	}
}

// InverseClarke maps a stationary vector back to a balanced three-phase set.
func InverseClarke(s Stationary) ThreePhase {
	assertFinite("InverseClarke", s.Alpha, s.Beta)
	return ThreePhase{
		U: s.Alpha,
		V: (-s.Alpha + Sqrt3*s.Beta) / 2,
		W: (-s.Alpha - Sqrt3*s.Beta) / 2,
	}
}
