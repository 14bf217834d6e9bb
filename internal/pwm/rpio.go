package pwm

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/san-kum/focpwm/internal/foc"
)

// The PWM clock must stay within 4688 Hz - 19.2 MHz.
const (
	minPWMClock = 4688
	maxPWMClock = 19200000
)

// RPIO drives Raspberry Pi hardware PWM pins from compare values. Pins map
// to phases U, V, W in order. The BCM283x has two PWM channels, so a third
// pin on a channel already in use mirrors that channel.
type RPIO struct {
	pins  []rpio.Pin
	cycle uint32
}

// OpenRPIO maps GPIO memory and configures pins for a PWM period of
// frequency Hz split into maxCounter ticks.
func OpenRPIO(pins []uint8, frequency int, maxCounter uint32) (*RPIO, error) {
	if len(pins) == 0 || len(pins) > 3 {
		return nil, fmt.Errorf("rpio: need 1 to 3 pins, got %d", len(pins))
	}
	clock := frequency * int(maxCounter)
	if clock < minPWMClock || clock > maxPWMClock {
		return nil, fmt.Errorf("rpio: pwm clock %d Hz outside %d-%d Hz", clock, minPWMClock, maxPWMClock)
	}

	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "rpio: open gpio memory")
	}

	out := &RPIO{
		pins:  make([]rpio.Pin, len(pins)),
		cycle: maxCounter,
	}
	for i, p := range pins {
		pin := rpio.Pin(p)
		pin.Pwm()
		pin.Freq(clock)
		pin.DutyCycle(0, maxCounter)
		out.pins[i] = pin
	}
	return out, nil
}

// Commit writes the counters as duty lengths. The Pi has a single PWM block,
// so channel is ignored.
func (r *RPIO) Commit(channel int, c foc.PWMCounter) error {
	u, v, w := c.Ticks()
	duty := [3]uint32{u, v, w}
	for i, pin := range r.pins {
		d := duty[i]
		if d > r.cycle {
			d = r.cycle
		}
		pin.DutyCycle(d, r.cycle)
	}
	return nil
}

// Close drives all pins low and unmaps GPIO memory.
func (r *RPIO) Close() error {
	for _, pin := range r.pins {
		pin.DutyCycle(0, r.cycle)
	}
	return rpio.Close()
}
