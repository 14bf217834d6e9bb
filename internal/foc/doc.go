// Package foc provides the numerical core of a field-oriented motor drive.
//
// The package covers the coordinate transforms and space-vector modulation
// executed once per PWM period:
//
//   - [TrigTable]: table-driven sin/cos with linear interpolation
//   - [Normalize]: bounded-time wrap of an electrical angle into [0, 2π)
//   - [Clarke], [InverseClarke]: three-phase <-> stationary α/β frame
//   - [Park], [InversePark]: stationary α/β <-> rotating d/q frame
//   - [SectorOf]: hexagon sector classification of a voltage vector
//   - [Modulator]: active-vector timing and timer-compare mapping
//
// # Example
//
//	ab := foc.InversePark(foc.Rotating{D: 0, Q: 2.5}, theta)
//	mod, _ := foc.NewModulator(foc.DefaultModulatorParams())
//	out := mod.Modulate(ab)
//	// out.Counter.U, out.Counter.V, out.Counter.W go to the timer compare registers
//
// # Preconditions
//
// Every per-period function is total over finite inputs and never allocates.
// Passing NaN or ±Inf, an angle outside [0, 2π) to Park/InversePark, or a
// sector outside 1..6 to [Modulator.Counter] is a caller bug. Those checks
// only run in binaries built with the focdebug tag, where they panic with a
// [PreconditionError].
//
// # Thread Safety
//
// A [TrigTable] and a [Modulator] are immutable after construction and may
// be shared between goroutines.
package foc
