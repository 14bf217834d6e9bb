package foc

import (
	"fmt"
	"math"
)

// ThreePhase is an instantaneous per-phase current or voltage. Balance
// (U+V+W = 0) is the caller's assumption, not enforced here.
type ThreePhase struct {
	U, V, W float64
}

// Sum returns U+V+W; close to zero for a balanced system.
func (p ThreePhase) Sum() float64 {
	return p.U + p.V + p.W
}

// Stationary is the α/β projection of a three-phase quantity.
type Stationary struct {
	Alpha, Beta float64
}

// Magnitude returns the length of the vector.
func (s Stationary) Magnitude() float64 {
	return math.Hypot(s.Alpha, s.Beta)
}

// Rotating is the d/q projection. It only has meaning together with the
// electrical angle that produced it.
type Rotating struct {
	D, Q float64
}

// VectorTime holds the cumulative switching instants of one half period.
// T0 <= T1 <= T2 <= Ts/2 after saturation.
type VectorTime struct {
	T0, T1, T2 float64
}

// PWMCounter holds per-phase timer compare values in ticks, each within
// [0, MaxCounter].
type PWMCounter struct {
	U, V, W float64
}

// Ticks rounds the counters to integer compare register values.
func (c PWMCounter) Ticks() (u, v, w uint32) {
	return toTicks(c.U), toTicks(c.V), toTicks(c.W)
}

func toTicks(x float64) uint32 {
	if x <= 0 {
		return 0
	}
	return uint32(math.Round(x))
}

// Sector is one of the six 60° regions of the voltage hexagon, numbered by
// the discriminant code produced by SectorOf.
type Sector uint8

// DefaultSector is returned by SectorOf for the degenerate codes 0 and 7.
// It is a fixed policy, not a physical result: the zero vector has no sector.
const DefaultSector Sector = 6

// Valid reports whether s is in 1..6.
func (s Sector) Valid() bool {
	return s >= 1 && s <= 6
}

func (s Sector) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sector(%d)", uint8(s))
	}
	return fmt.Sprintf("S%d", uint8(s))
}
