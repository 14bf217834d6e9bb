// Package loop drives the foc core once per PWM period.
//
// A [Driver] executes one of three routines per period:
//
//   - [ClarkePark]: synthesize a balanced three-phase set at the current
//     angle and project it to α/β and d/q
//   - [InverseParkClarke]: turn a d/q command into α/β and phase values
//   - [SVPWM]: turn a d/q command into timer compare values and commit them
//     through a [PWMOutput]
//
// Cross-period state lives in a caller-owned [State] passed by pointer, so
// two drivers never share hidden state. Each period produces a [Record]
// that is offered to the [Telemetry] sink, metrics and observers.
//
// # Example
//
//	d := loop.New(foc.NewTransformer(nil), mod)
//	d.SetOutput(pwm.NewRecorder())
//	var st loop.State
//	res, err := d.Run(ctx, &st, loop.Config{Routine: loop.SVPWM, Command: foc.Rotating{Q: 2.5}, AngleStep: 0.1, Periods: 100})
package loop
