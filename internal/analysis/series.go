package analysis

import (
	"fmt"

	"github.com/san-kum/focpwm/internal/loop"
)

var extractors = map[string]func(loop.Record) float64{
	"angle":  func(r loop.Record) float64 { return r.Angle },
	"u":      func(r loop.Record) float64 { return r.Phase.U },
	"v":      func(r loop.Record) float64 { return r.Phase.V },
	"w":      func(r loop.Record) float64 { return r.Phase.W },
	"alpha":  func(r loop.Record) float64 { return r.Stationary.Alpha },
	"beta":   func(r loop.Record) float64 { return r.Stationary.Beta },
	"id":     func(r loop.Record) float64 { return r.Rotating.D },
	"iq":     func(r loop.Record) float64 { return r.Rotating.Q },
	"sector": func(r loop.Record) float64 { return float64(r.Sector) },
	"t0":     func(r loop.Record) float64 { return r.Times.T0 },
	"t1":     func(r loop.Record) float64 { return r.Times.T1 },
	"t2":     func(r loop.Record) float64 { return r.Times.T2 },
	"cu":     func(r loop.Record) float64 { return r.Counter.U },
	"cv":     func(r loop.Record) float64 { return r.Counter.V },
	"cw":     func(r loop.Record) float64 { return r.Counter.W },
}

// SeriesNames lists the column names accepted by Series.
func SeriesNames() []string {
	return []string{"angle", "u", "v", "w", "alpha", "beta", "id", "iq", "sector", "t0", "t1", "t2", "cu", "cv", "cw"}
}

func Series(records []loop.Record, name string) ([]float64, error) {
	get, ok := extractors[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s", name)
	}
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = get(r)
	}
	return out, nil
}
