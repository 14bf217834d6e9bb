package foc

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"in range", 1.0, 1.0},
		{"exactly two pi", TwoPi, 0},
		{"just over", TwoPi + 0.1, 0.1},
		{"negative", -0.1, TwoPi - 0.1},
		{"negative turn", -TwoPi, 0},
		{"three turns", 3*TwoPi + 0.5, 0.5},
		{"tiny negative", -1e-20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got < 0 || got >= TwoPi {
				t.Errorf("Normalize(%v) = %v outside [0, 2π)", tt.in, got)
			}
		})
	}
}

func TestNormalize_LargeMagnitude(t *testing.T) {
	for _, x := range []float64{1e15, -1e15, math.MaxFloat64, -math.MaxFloat64} {
		if got := Normalize(x); got < 0 || got >= TwoPi {
			t.Errorf("Normalize(%v) = %v outside [0, 2π)", x, got)
		}
	}

	// TwoPi is itself rounded, so agreement with math.Sin is only checked
	// where the accumulated period error stays small.
	for _, x := range []float64{1e9, -1e9, 123456.789, -98765.4321} {
		got := Normalize(x)
		if got < 0 || got >= TwoPi {
			t.Errorf("Normalize(%v) = %v outside [0, 2π)", x, got)
		}
		if d := math.Abs(math.Sin(got) - math.Sin(x)); d > 1e-6 {
			t.Errorf("Normalize(%v) = %v changes sine by %v", x, got, d)
		}
	}
}
