package loop

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/san-kum/focpwm/internal/foc"
	"github.com/san-kum/focpwm/internal/logger"
)

// phase offsets of v and w
const (
	offsetV = 2 * foc.ThirdPi
	offsetW = 4 * foc.ThirdPi
)

// Driver runs one routine period by period and hands each record to the
// PWM output, telemetry, metrics and observers.
type Driver struct {
	tr        *foc.Transformer
	mod       *foc.Modulator
	output    PWMOutput
	telemetry Telemetry
	metrics   []Metric
	observers []Observer
}

// New returns a Driver. A nil transformer selects the default trig table.
func New(tr *foc.Transformer, mod *foc.Modulator) *Driver {
	if tr == nil {
		tr = foc.NewTransformer(nil)
	}
	return &Driver{
		tr:        tr,
		mod:       mod,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

// SetOutput sets where svpwm compare values are committed. nil disables it.
func (d *Driver) SetOutput(o PWMOutput) { d.output = o }

// SetTelemetry sets the per-record sink. nil disables it.
func (d *Driver) SetTelemetry(t Telemetry) { d.telemetry = t }

// AddMetric registers m. Run resets it before the first period.
func (d *Driver) AddMetric(m Metric) { d.metrics = append(d.metrics, m) }

// AddObserver registers o to receive every record after the metrics.
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Modulator returns the space-vector modulator, nil for transform-only drivers.
func (d *Driver) Modulator() *foc.Modulator { return d.mod }

// Transformer returns the transformer and its trig table.
func (d *Driver) Transformer() *foc.Transformer { return d.tr }

// Compute evaluates one routine at angle theta without side effects.
func (d *Driver) Compute(routine Routine, command foc.Rotating, theta float64) Record {
	r := Record{Routine: routine, Angle: theta}

	switch routine {
	case ClarkePark:
		trig := d.tr.Table()
		r.Phase = foc.ThreePhase{
			U: trig.Sin(theta),
			V: trig.Sin(theta + offsetV),
			W: trig.Sin(theta + offsetW),
		}
		r.Stationary = foc.Clarke(r.Phase)
		// rotate by the vector's own angle: d carries the magnitude, q stays near zero
		r.Rotating = d.tr.Park(r.Stationary, foc.Normalize(math.Atan2(r.Stationary.Beta, r.Stationary.Alpha)))

	case InverseParkClarke:
		r.Rotating = command
		r.Stationary = d.tr.InversePark(command, theta)
		r.Phase = foc.InverseClarke(r.Stationary)

	case SVPWM:
		r.Rotating = command
		r.Stationary = d.tr.InversePark(command, theta)
		r.Phase = foc.InverseClarke(r.Stationary)
		out := d.mod.Modulate(r.Stationary)
		r.Sector = out.Sector
		r.Times = out.Times
		r.Counter = out.Counter
		r.Saturated = out.Saturated
	}

	return r
}

// Step advances st by one period, computes the routine and hands the result
// to the collaborators. The returned error is always a *RunError.
func (d *Driver) Step(st *State, cfg Config) (Record, error) {
	st.Advance(cfg.AngleStep)

	r := d.Compute(cfg.Routine, cfg.Command, st.Angle)
	r.Period = st.Period

	if cfg.Routine == SVPWM && d.output != nil {
		if err := d.output.Commit(cfg.Channel, r.Counter); err != nil {
			return r, &RunError{Period: r.Period, Angle: r.Angle, Wrapped: errors.Wrap(err, "pwm commit")}
		}
	}
	if d.telemetry != nil {
		if err := d.telemetry.Publish(r); err != nil {
			return r, &RunError{Period: r.Period, Angle: r.Angle, Wrapped: errors.Wrap(err, "telemetry")}
		}
	}

	for _, m := range d.metrics {
		m.Observe(r)
	}
	for _, obs := range d.observers {
		obs.OnRecord(r)
	}

	return r, nil
}

// Run steps cfg.Periods periods from st and collects the metrics. On a
// collaborator failure or cancellation it returns the partial result with
// the error.
func (d *Driver) Run(ctx context.Context, st *State, cfg Config) (*Result, error) {
	if err := d.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Routine: cfg.Routine,
		Metrics: make(map[string]float64),
	}
	if cfg.KeepRecords {
		result.Records = make([]Record, 0, cfg.Periods)
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	logger.L().Debugf("run %s: %d periods, step %.4f rad, command %+v", cfg.Routine, cfg.Periods, cfg.AngleStep, cfg.Command)

	for i := 0; i < cfg.Periods; i++ {
		select {
		case <-ctx.Done():
			d.collectMetrics(result)
			return result, ctx.Err()
		default:
		}

		r, err := d.Step(st, cfg)
		if err != nil {
			logger.L().Errorf("run %s aborted: %v", cfg.Routine, err)
			d.collectMetrics(result)
			return result, err
		}

		result.Periods++
		if r.Saturated {
			result.Saturated++
		}
		if cfg.KeepRecords {
			result.Records = append(result.Records, r)
		}
	}

	d.collectMetrics(result)
	logger.L().Debugf("run %s finished: %d periods, %d saturated", cfg.Routine, result.Periods, result.Saturated)

	return result, nil
}

// RunWithCallback steps until the callback returns false, the period budget
// is spent or ctx is done.
func (d *Driver) RunWithCallback(ctx context.Context, st *State, cfg Config, callback func(Record) bool) error {
	if err := d.validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Periods; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r, err := d.Step(st, cfg)
		if err != nil {
			return err
		}
		if !callback(r) {
			return nil
		}
	}

	return nil
}

func (d *Driver) collectMetrics(result *Result) {
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (d *Driver) validateConfig(cfg Config) error {
	if _, err := ParseRoutine(string(cfg.Routine)); err != nil {
		return err
	}
	if cfg.Periods <= 0 {
		return fmt.Errorf("periods must be positive, got %d", cfg.Periods)
	}
	if math.IsNaN(cfg.AngleStep) || math.IsInf(cfg.AngleStep, 0) {
		return fmt.Errorf("angle step must be finite, got %f", cfg.AngleStep)
	}
	if cfg.Routine == SVPWM && d.mod == nil {
		return fmt.Errorf("routine %s needs a modulator", cfg.Routine)
	}
	return nil
}
