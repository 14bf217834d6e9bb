package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/focpwm/internal/foc"
	"github.com/san-kum/focpwm/internal/loop"
)

func tone(n int, comps map[int]float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		for k, a := range comps {
			out[i] += a * math.Sin(2*math.Pi*float64(k)*float64(i)/float64(n))
		}
	}
	return out
}

func TestSpectrum_PureTone(t *testing.T) {
	s, err := NewSpectrum(tone(256, map[int]float64{8: 1}))
	if err != nil {
		t.Fatal(err)
	}

	bin, amp := s.Fundamental()
	if bin != 8 {
		t.Errorf("fundamental bin = %d, want 8", bin)
	}
	if math.Abs(amp-1) > 1e-9 {
		t.Errorf("fundamental amplitude = %v, want 1", amp)
	}
	if thd := s.THD(); thd > 1e-9 {
		t.Errorf("THD of a pure tone = %v", thd)
	}
	if math.Abs(s.DC()) > 1e-9 {
		t.Errorf("DC = %v", s.DC())
	}
}

func TestSpectrum_ThirdHarmonic(t *testing.T) {
	s, err := NewSpectrum(tone(256, map[int]float64{8: 1, 24: 0.1}))
	if err != nil {
		t.Fatal(err)
	}
	if thd := s.THD(); math.Abs(thd-0.1) > 1e-9 {
		t.Errorf("THD = %v, want 0.1", thd)
	}
}

func TestSpectrum_Degenerate(t *testing.T) {
	if _, err := NewSpectrum([]float64{1, 2}); err != ErrShortSeries {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}

	s, err := NewSpectrum([]float64{3, 3, 3, 3, 3, 3, 3, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(s.THD()) {
		t.Error("THD of a constant should be NaN")
	}
	if math.Abs(s.DC()-3) > 1e-12 {
		t.Errorf("DC = %v, want 3", s.DC())
	}
}

func TestSeries(t *testing.T) {
	records := []loop.Record{
		{Counter: foc.PWMCounter{U: 1, V: 2, W: 3}, Rotating: foc.Rotating{Q: 4}},
		{Counter: foc.PWMCounter{U: 5, V: 6, W: 7}, Rotating: foc.Rotating{Q: 8}},
	}

	cw, err := Series(records, "cw")
	if err != nil {
		t.Fatal(err)
	}
	if cw[0] != 3 || cw[1] != 7 {
		t.Errorf("cw = %v", cw)
	}

	if _, err := Series(records, "torque"); err == nil {
		t.Error("expected error for unknown series")
	}

	for _, name := range SeriesNames() {
		if _, err := Series(records, name); err != nil {
			t.Errorf("SeriesNames lists %s but Series rejects it", name)
		}
	}
}

func TestLocus(t *testing.T) {
	records := make([]loop.Record, 64)
	for i := range records {
		th := 2 * math.Pi * float64(i) / 64
		records[i].Stationary = foc.Stationary{Alpha: 2 * math.Cos(th), Beta: 2 * math.Sin(th)}
	}

	l := NewLocus(records)
	lo, hi := l.Radius()
	if math.Abs(lo-2) > 1e-12 || math.Abs(hi-2) > 1e-12 {
		t.Errorf("radius = [%v, %v], want 2", lo, hi)
	}

	art := l.ToASCII(41, 21)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) != 21 {
		t.Fatalf("expected 21 rows, got %d", len(lines))
	}
	if !strings.Contains(art, "•") || !strings.Contains(art, "┼") {
		t.Error("locus drawing missing points or origin")
	}

	if (&Locus{}).ToASCII(10, 10) != "" {
		t.Error("empty locus should draw nothing")
	}
}
