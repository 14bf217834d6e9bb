package storage

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/san-kum/focpwm/internal/loop"
)

type ExportRecord struct {
	Period    int        `json:"period"`
	Angle     float64    `json:"angle"`
	Phase     [3]float64 `json:"phase"`
	Alpha     float64    `json:"alpha"`
	Beta      float64    `json:"beta"`
	Id        float64    `json:"id"`
	Iq        float64    `json:"iq"`
	Sector    int        `json:"sector,omitempty"`
	Times     [3]float64 `json:"times"`
	Counter   [3]float64 `json:"counter"`
	Saturated bool       `json:"saturated,omitempty"`
}

type ExportData struct {
	Meta    RunMetadata    `json:"meta"`
	Records []ExportRecord `json:"records"`
}

func NewExportData(meta RunMetadata, records []loop.Record) ExportData {
	data := ExportData{
		Meta:    meta,
		Records: make([]ExportRecord, len(records)),
	}
	for i, r := range records {
		data.Records[i] = ExportRecord{
			Period:    r.Period,
			Angle:     r.Angle,
			Phase:     [3]float64{r.Phase.U, r.Phase.V, r.Phase.W},
			Alpha:     r.Stationary.Alpha,
			Beta:      r.Stationary.Beta,
			Id:        r.Rotating.D,
			Iq:        r.Rotating.Q,
			Sector:    int(r.Sector),
			Times:     [3]float64{r.Times.T0, r.Times.T1, r.Times.T2},
			Counter:   [3]float64{r.Counter.U, r.Counter.V, r.Counter.W},
			Saturated: r.Saturated,
		}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSON writes a stored run as one JSON document to path, or to stdout
// when path is empty.
func (s *Store) ExportJSON(runID, path string) (err error) {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	records, err := s.LoadRecords(runID)
	if err != nil {
		return err
	}

	data := NewExportData(*meta, records)
	if path == "" {
		return WriteJSON(os.Stdout, data)
	}

	file, err := create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))
	return WriteJSON(file, data)
}
