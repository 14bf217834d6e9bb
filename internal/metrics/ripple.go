package metrics

import (
	"math"

	"github.com/san-kum/focpwm/internal/loop"
)

// DQRipple is the RMS deviation of the d/q magnitude from its mean. A
// balanced sinusoidal input should leave the rotating frame almost constant.
type DQRipple struct {
	name    string
	sum     float64
	sumSq   float64
	samples int
}

func NewDQRipple() *DQRipple {
	return &DQRipple{
		name: "dq_ripple",
	}
}

func (d *DQRipple) Name() string {
	return d.name
}

func (d *DQRipple) Observe(r loop.Record) {
	m := math.Hypot(r.Rotating.D, r.Rotating.Q)
	d.sum += m
	d.sumSq += m * m
	d.samples++
}

func (d *DQRipple) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	n := float64(d.samples)
	mean := d.sum / n
	v := d.sumSq/n - mean*mean
	if v < 0 {
		// rounding on a constant signal
		return 0
	}
	return math.Sqrt(v)
}

func (d *DQRipple) Reset() {
	d.sum = 0
	d.sumSq = 0
	d.samples = 0
}
