package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series needs at least 4 samples")

// Spectrum holds single-sided amplitudes. Amplitudes[k] is the peak
// amplitude of the component completing k cycles over the series.
type Spectrum struct {
	Amplitudes []float64
	Samples    int
}

func NewSpectrum(samples []float64) (*Spectrum, error) {
	n := len(samples)
	if n < 4 {
		return nil, ErrShortSeries
	}

	bins := fft.FFTReal(samples)
	amps := make([]float64, n/2)
	for k := range amps {
		a := cmplx.Abs(bins[k]) / float64(n)
		if k > 0 {
			a *= 2
		}
		amps[k] = a
	}

	return &Spectrum{Amplitudes: amps, Samples: n}, nil
}

// Fundamental returns the strongest non-DC bin and its amplitude.
func (s *Spectrum) Fundamental() (int, float64) {
	bin, amp := 0, 0.0
	for k := 1; k < len(s.Amplitudes); k++ {
		if s.Amplitudes[k] > amp {
			bin, amp = k, s.Amplitudes[k]
		}
	}
	return bin, amp
}

// THD is the RMS sum of the harmonics of the fundamental divided by the
// fundamental. It is NaN when the series has no AC content.
func (s *Spectrum) THD() float64 {
	f, a1 := s.Fundamental()
	if f == 0 || a1 == 0 {
		return math.NaN()
	}

	sum := 0.0
	for k := 2 * f; k < len(s.Amplitudes); k += f {
		sum += s.Amplitudes[k] * s.Amplitudes[k]
	}
	return math.Sqrt(sum) / a1
}

// DC is the mean of the series.
func (s *Spectrum) DC() float64 {
	return s.Amplitudes[0]
}
