package experiment

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/foc"
	"github.com/san-kum/focpwm/internal/loop"
)

// Experiment turns a config into a ready driver and runs it.
type Experiment struct {
	cfg    *config.Config
	driver *loop.Driver
	state  loop.State
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:   cfg,
		state: loop.State{Angle: cfg.Command.StartAngle},
	}
}

// Setup validates the config and builds the driver. output and telemetry
// may be nil.
func (e *Experiment) Setup(output loop.PWMOutput, telemetry loop.Telemetry, extra ...loop.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return errors.WithMessage(err, "invalid config")
	}
	routine, err := loop.ParseRoutine(e.cfg.Routine)
	if err != nil {
		return err
	}

	table, err := foc.NewTrigTable(e.cfg.TableSize)
	if err != nil {
		return err
	}
	mod, err := foc.NewModulator(e.cfg.ModulatorParams())
	if err != nil {
		return err
	}

	e.driver = loop.New(foc.NewTransformer(table), mod)
	e.driver.SetOutput(output)
	e.driver.SetTelemetry(telemetry)
	for _, m := range NewRegistry().DefaultMetrics(routine) {
		e.driver.AddMetric(m)
	}
	for _, m := range extra {
		e.driver.AddMetric(m)
	}
	return nil
}

func (e *Experiment) LoopConfig() loop.Config {
	return loop.Config{
		Routine:     loop.Routine(e.cfg.Routine),
		Command:     foc.Rotating{D: e.cfg.Command.Id, Q: e.cfg.Command.Iq},
		AngleStep:   e.cfg.Command.AngleStep,
		Periods:     e.cfg.Command.Periods,
		Channel:     e.cfg.Output.Channel,
		KeepRecords: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*loop.Result, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.driver.Run(ctx, &e.state, e.LoopConfig())
}

// Driver returns the underlying driver for adding observers.
func (e *Experiment) Driver() *loop.Driver {
	return e.driver
}

// State returns the angle accumulator carried between runs.
func (e *Experiment) State() loop.State {
	return e.state
}
