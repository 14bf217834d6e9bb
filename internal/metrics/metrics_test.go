package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/focpwm/internal/foc"
	"github.com/san-kum/focpwm/internal/loop"
)

func TestSaturation(t *testing.T) {
	s := NewSaturation()
	if s.Value() != 0 {
		t.Error("empty metric should be 0")
	}

	s.Observe(loop.Record{Saturated: true})
	s.Observe(loop.Record{})
	s.Observe(loop.Record{})
	s.Observe(loop.Record{Saturated: true})
	if s.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", s.Value())
	}

	s.Reset()
	if s.Value() != 0 {
		t.Error("reset failed")
	}
}

func TestSectorCoverage(t *testing.T) {
	s := NewSectorCoverage()
	for _, sec := range []foc.Sector{3, 3, 1, 5, 0} {
		s.Observe(loop.Record{Sector: sec})
	}
	if s.Value() != 3 {
		t.Errorf("expected 3 sectors, got %f", s.Value())
	}
	if h := s.Histogram(); h[2] != 2 || h[0] != 1 || h[5] != 0 {
		t.Errorf("histogram = %v", h)
	}

	s.Reset()
	if s.Value() != 0 {
		t.Error("reset failed")
	}
}

func TestPeakCounter(t *testing.T) {
	p := NewPeakCounter()
	p.Observe(loop.Record{Counter: foc.PWMCounter{U: 10, V: 2500, W: 40}})
	p.Observe(loop.Record{Counter: foc.PWMCounter{U: 1200, V: 30, W: 4}})
	if p.Value() != 2500 {
		t.Errorf("expected 2500, got %f", p.Value())
	}
}

func TestDQRipple(t *testing.T) {
	d := NewDQRipple()
	for i := 0; i < 100; i++ {
		d.Observe(loop.Record{Rotating: foc.Rotating{D: 0.6, Q: 0.8}})
	}
	if d.Value() > 1e-9 {
		t.Errorf("constant magnitude ripple = %v", d.Value())
	}

	d.Reset()
	d.Observe(loop.Record{Rotating: foc.Rotating{D: 1}})
	d.Observe(loop.Record{Rotating: foc.Rotating{D: 3}})
	if math.Abs(d.Value()-1) > 1e-12 {
		t.Errorf("expected ripple 1, got %v", d.Value())
	}
}

func TestPhaseBalance(t *testing.T) {
	p := NewPhaseBalance()
	p.Observe(loop.Record{Phase: foc.ThreePhase{U: 1, V: -0.5, W: -0.5}})
	p.Observe(loop.Record{Phase: foc.ThreePhase{U: 1, V: -0.4, W: -0.5}})
	if math.Abs(p.Value()-0.1) > 1e-12 {
		t.Errorf("expected 0.1, got %v", p.Value())
	}
}
