package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/focpwm/internal/loop"
	"github.com/san-kum/focpwm/internal/metrics"
)

type entry struct {
	description string
	metrics     func() []loop.Metric
}

type Registry struct {
	routines map[loop.Routine]entry
}

func NewRegistry() *Registry {
	r := &Registry{
		routines: make(map[loop.Routine]entry),
	}

	r.routines[loop.ClarkePark] = entry{
		description: "synthesized three-phase sine -> clarke -> park",
		metrics: func() []loop.Metric {
			return []loop.Metric{metrics.NewDQRipple(), metrics.NewPhaseBalance()}
		},
	}
	r.routines[loop.InverseParkClarke] = entry{
		description: "d/q command -> inverse park -> inverse clarke",
		metrics: func() []loop.Metric {
			return []loop.Metric{metrics.NewPhaseBalance()}
		},
	}
	r.routines[loop.SVPWM] = entry{
		description: "d/q command -> inverse park -> sector, vector time, compare values",
		metrics: func() []loop.Metric {
			return []loop.Metric{
				metrics.NewSaturation(),
				metrics.NewSectorCoverage(),
				metrics.NewPeakCounter(),
			}
		},
	}

	return r
}

func (r *Registry) Describe(name string) (string, error) {
	e, ok := r.routines[loop.Routine(name)]
	if !ok {
		return "", fmt.Errorf("unknown routine: %s", name)
	}
	return e.description, nil
}

func (r *Registry) ListRoutines() []string {
	names := make([]string, 0, len(r.routines))
	for name := range r.routines {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for routine.
func (r *Registry) DefaultMetrics(routine loop.Routine) []loop.Metric {
	e, ok := r.routines[routine]
	if !ok {
		return nil
	}
	return e.metrics()
}
