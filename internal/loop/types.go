package loop

import (
	"fmt"

	"github.com/san-kum/focpwm/internal/foc"
)

type Routine string

const (
	ClarkePark        Routine = "clarke-park"
	InverseParkClarke Routine = "inverse-park-clarke"
	SVPWM             Routine = "svpwm"
)

// Routines lists every routine in display order.
func Routines() []Routine {
	return []Routine{ClarkePark, InverseParkClarke, SVPWM}
}

func ParseRoutine(name string) (Routine, error) {
	for _, r := range Routines() {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown routine: %s", name)
}

// State is the only data carried from one period to the next. The caller
// owns it and must not mutate it while a period is being computed.
type State struct {
	Angle  float64
	Period int
}

// Advance moves the angle by step, wrapped into [0, 2π).
func (s *State) Advance(step float64) {
	s.Angle = foc.Normalize(s.Angle + step)
	s.Period++
}

// Record is the full set of intermediate values of one period.
type Record struct {
	Routine    Routine
	Period     int
	Angle      float64
	Phase      foc.ThreePhase
	Stationary foc.Stationary
	Rotating   foc.Rotating
	Sector     foc.Sector
	Times      foc.VectorTime
	Counter    foc.PWMCounter
	Saturated  bool
}

// Columns returns the eight debug columns of the record. Transform routines
// report angle,u,v,w,alpha,beta,id,iq; svpwm reports the three compare
// values in place of the phase values.
func (r Record) Columns() [8]float64 {
	a, b, c := r.Phase.U, r.Phase.V, r.Phase.W
	if r.Routine == SVPWM {
		a, b, c = r.Counter.U, r.Counter.V, r.Counter.W
	}
	return [8]float64{r.Angle, a, b, c, r.Stationary.Alpha, r.Stationary.Beta, r.Rotating.D, r.Rotating.Q}
}

// ColumnNames matches Columns for the given routine.
func ColumnNames(routine Routine) [8]string {
	if routine == SVPWM {
		return [8]string{"angle", "cu", "cv", "cw", "alpha", "beta", "id", "iq"}
	}
	return [8]string{"angle", "u", "v", "w", "alpha", "beta", "id", "iq"}
}

// PWMOutput commits compare values to the timer identified by channel. It is
// expected to latch all three atomically before the next period.
type PWMOutput interface {
	Commit(channel int, c foc.PWMCounter) error
}

// Telemetry receives one record per period. It is advisory only.
type Telemetry interface {
	Publish(r Record) error
}

// Metric accumulates a scalar over the records of a run.
type Metric interface {
	Name() string
	Observe(r Record)
	Value() float64
	Reset()
}

// Observer is notified of every record a driver produces.
type Observer interface {
	OnRecord(r Record)
}

// Config describes one run.
type Config struct {
	Routine   Routine
	Command   foc.Rotating
	AngleStep float64
	Periods   int
	// Channel identifies the timer handed to PWMOutput.Commit.
	Channel int
	// KeepRecords retains every record in the Result.
	KeepRecords bool
}

// Result summarises a run.
type Result struct {
	Routine Routine
	Records []Record
	Metrics map[string]float64
	Periods int
	// Saturated counts periods where the command was clamped to the hexagon.
	Saturated int
}

// RunError wraps a collaborator failure with the period it happened in.
type RunError struct {
	Period  int
	Angle   float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("period %d (θ=%.4f): %v", e.Period, e.Angle, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
