package foc

import "math"

const (
	TwoPi     = 2 * math.Pi
	HalfPi    = math.Pi / 2
	ThirdPi   = math.Pi / 3
	Sqrt3     = 1.7320508075688772
	Sqrt3Div2 = Sqrt3 / 2
	InvSqrt3  = 1 / Sqrt3
)

// Normalize wraps theta into [0, 2π) in constant time, whatever its
// magnitude. theta must be finite.
func Normalize(theta float64) float64 {
	assertFinite("Normalize", theta)

	theta = math.Mod(theta, TwoPi)
	if theta < 0 {
		theta += TwoPi
	}
	// tiny negative inputs round up to exactly 2π after the add
	if theta >= TwoPi {
		theta = 0
	}
	return theta
}
