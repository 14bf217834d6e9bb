//go:build focdebug

package foc

import (
	"fmt"
	"math"
)

const debugChecks = true

func assertFinite(op string, vals ...float64) {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(&PreconditionError{Op: op, Detail: fmt.Sprintf("non-finite input %v", v)})
		}
	}
}

func assertNormalized(op string, theta float64) {
	if !(theta >= 0 && theta < TwoPi) {
		panic(&PreconditionError{Op: op, Detail: fmt.Sprintf("angle %v outside [0, 2π)", theta)})
	}
}

func assertSector(op string, s Sector) {
	if !s.Valid() {
		panic(&PreconditionError{Op: op, Detail: fmt.Sprintf("sector %d outside 1..6", s)})
	}
}
