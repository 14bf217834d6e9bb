package metrics

import (
	"math"

	"github.com/san-kum/focpwm/internal/loop"
)

// PhaseBalance is the largest |u+v+w| seen.
type PhaseBalance struct {
	name  string
	worst float64
}

func NewPhaseBalance() *PhaseBalance {
	return &PhaseBalance{
		name: "phase_imbalance",
	}
}

func (p *PhaseBalance) Name() string {
	return p.name
}

func (p *PhaseBalance) Observe(r loop.Record) {
	p.worst = math.Max(p.worst, math.Abs(r.Phase.Sum()))
}

func (p *PhaseBalance) Value() float64 {
	return p.worst
}

func (p *PhaseBalance) Reset() {
	p.worst = 0
}
