package foc

import "testing"

func BenchmarkSin(b *testing.B) {
	x := 0.0
	for i := 0; i < b.N; i++ {
		_ = FastSin(x)
		x += 0.001
	}
}

func BenchmarkNormalize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Normalize(float64(i) * 0.1)
	}
}

func BenchmarkModulate(b *testing.B) {
	m := newTestModulator(b)
	theta := 0.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		theta = Normalize(theta + 0.1)
		m.Modulate(InversePark(Rotating{D: 0, Q: 2.5}, theta))
	}
}
