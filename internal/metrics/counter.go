package metrics

import (
	"math"

	"github.com/san-kum/focpwm/internal/loop"
)

// PeakCounter tracks the largest compare value committed on any phase.
type PeakCounter struct {
	name string
	peak float64
}

func NewPeakCounter() *PeakCounter {
	return &PeakCounter{
		name: "peak_counter",
	}
}

func (p *PeakCounter) Name() string {
	return p.name
}

func (p *PeakCounter) Observe(r loop.Record) {
	p.peak = math.Max(p.peak, math.Max(r.Counter.U, math.Max(r.Counter.V, r.Counter.W)))
}

func (p *PeakCounter) Value() float64 {
	return p.peak
}

func (p *PeakCounter) Reset() {
	p.peak = 0
}
