package foc

import (
	"math"
	"math/rand"
	"testing"
)

func TestClarke(t *testing.T) {
	tests := []struct {
		name string
		in   ThreePhase
		want Stationary
	}{
		{"zero", ThreePhase{}, Stationary{}},
		{"u only", ThreePhase{U: 1, V: -0.5, W: -0.5}, Stationary{Alpha: 1, Beta: 0}},
		{"v peak", ThreePhase{U: -0.5, V: 1, W: -0.5}, Stationary{Alpha: -0.5, Beta: Sqrt3Div2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clarke(tt.in)
			if math.Abs(got.Alpha-tt.want.Alpha) > 1e-12 || math.Abs(got.Beta-tt.want.Beta) > 1e-12 {
				t.Errorf("Clarke(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClarkePowerScaled(t *testing.T) {
	p := ThreePhase{U: 0.3, V: 0.5, W: -0.8}
	eq := Clarke(p)
	ps := ClarkePowerScaled(p)
	if math.Abs(ps.Alpha-1.5*eq.Alpha) > 1e-12 || math.Abs(ps.Beta-1.5*eq.Beta) > 1e-12 {
		t.Errorf("power scaled %v is not 1.5x equal amplitude %v", ps, eq)
	}
}

func TestInverseClarke_Balanced(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 1000; i++ {
		s := Stationary{Alpha: rng.NormFloat64() * 10, Beta: rng.NormFloat64() * 10}
		if sum := InverseClarke(s).Sum(); math.Abs(sum) > 1e-9 {
			t.Fatalf("InverseClarke(%v) sums to %v", s, sum)
		}
	}
}

func TestClarke_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		u := rng.NormFloat64()
		v := rng.NormFloat64()
		p := ThreePhase{U: u, V: v, W: -u - v}

		got := InverseClarke(Clarke(p))
		if math.Abs(got.U-p.U) > 1e-9 || math.Abs(got.V-p.V) > 1e-9 || math.Abs(got.W-p.W) > 1e-9 {
			t.Fatalf("round trip %v -> %v", p, got)
		}
	}
}

func TestPark_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 1000; i++ {
		s := Stationary{Alpha: rng.NormFloat64() * 5, Beta: rng.NormFloat64() * 5}
		theta := rng.Float64() * TwoPi

		got := InversePark(Park(s, theta), theta)
		// the approximated rotation is orthogonal to within the table error
		tol := 1e-4 * (1 + s.Magnitude())
		if math.Abs(got.Alpha-s.Alpha) > tol || math.Abs(got.Beta-s.Beta) > tol {
			t.Fatalf("round trip at θ=%v: %v -> %v", theta, s, got)
		}
	}
}

func TestPark_AlignedVector(t *testing.T) {
	// a unit vector at θ lands entirely on the d axis
	for _, theta := range []float64{0, 0.5, 1.7, math.Pi, 4.2, 6.0} {
		s := Stationary{Alpha: math.Cos(theta), Beta: math.Sin(theta)}
		r := Park(s, theta)
		if math.Abs(r.D-1) > 1e-4 || math.Abs(r.Q) > 1e-4 {
			t.Errorf("Park at θ=%v = %v, want {1 0}", theta, r)
		}
	}
}

func TestTransformer_CustomTable(t *testing.T) {
	coarse := NewTransformer(MustTrigTable(16))
	fine := NewTransformer(nil)
	if fine.Table() != DefaultTrigTable {
		t.Fatal("nil table should select DefaultTrigTable")
	}

	s := Stationary{Alpha: 1, Beta: 0}
	theta := 0.3
	ec := math.Abs(coarse.Park(s, theta).D - math.Cos(theta))
	ef := math.Abs(fine.Park(s, theta).D - math.Cos(theta))
	if ec <= ef {
		t.Errorf("coarse table error %v should exceed fine table error %v", ec, ef)
	}
	if ec > coarse.Table().ErrorBound()+1e-12 {
		t.Errorf("coarse error %v above bound %v", ec, coarse.Table().ErrorBound())
	}
}

func TestInverseParkClarke_EndToEnd(t *testing.T) {
	ab := InversePark(Rotating{D: 0, Q: 0.5}, 0)
	uvw := InverseClarke(ab)

	want := ThreePhase{U: 0, V: 0.5 * Sqrt3Div2, W: -0.5 * Sqrt3Div2}
	if math.Abs(uvw.U-want.U) > 1e-3 || math.Abs(uvw.V-want.V) > 1e-3 || math.Abs(uvw.W-want.W) > 1e-3 {
		t.Errorf("got %v, want %v", uvw, want)
	}
	if math.Abs(ab.Alpha) > 1e-3 || math.Abs(ab.Beta-0.5) > 1e-3 {
		t.Errorf("α/β = %v, want {0 0.5}", ab)
	}
}
