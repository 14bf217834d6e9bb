package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/foc"
	"github.com/san-kum/focpwm/internal/loop"
)

const (
	metadataFile = "metadata.json"
	recordsFile  = "records.csv"
)

var recordHeader = []string{
	"period", "angle",
	"u", "v", "w",
	"alpha", "beta",
	"id", "iq",
	"sector",
	"t0", "t1", "t2",
	"cu", "cv", "cw",
	"saturated",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Routine    string             `json:"routine"`
	Timestamp  time.Time          `json:"timestamp"`
	Ts         float64            `json:"ts"`
	Udc        float64            `json:"udc"`
	MaxCounter float64            `json:"max_counter"`
	TableSize  int                `json:"table_size"`
	Id         float64            `json:"id_cmd"`
	Iq         float64            `json:"iq_cmd"`
	AngleStep  float64            `json:"angle_step"`
	Periods    int                `json:"periods"`
	Saturated  int                `json:"saturated"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewRunID returns a directory-safe identifier for a run of routine.
func NewRunID(routine string) string {
	return fmt.Sprintf("%s_%s", routine, uuid.New().String()[:8])
}

func (s *Store) Save(cfg *config.Config, result *loop.Result) (string, error) {
	runID := NewRunID(string(result.Routine))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Routine:    string(result.Routine),
		Timestamp:  time.Now(),
		Ts:         cfg.Modulator.Ts,
		Udc:        cfg.Modulator.Udc,
		MaxCounter: cfg.Modulator.MaxCounter,
		TableSize:  cfg.TableSize,
		Id:         cfg.Command.Id,
		Iq:         cfg.Command.Iq,
		AngleStep:  cfg.Command.AngleStep,
		Periods:    result.Periods,
		Saturated:  result.Saturated,
		Metrics:    result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", errors.Wrap(err, "write metadata")
	}

	if err := writeRecords(filepath.Join(runDir, recordsFile), result.Records); err != nil {
		return "", errors.Wrap(err, "write records")
	}

	return runID, nil
}

// create opens run files for writing.
var create = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func writeJSON(path string, v any) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecords(path string, records []loop.Record) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	w := csv.NewWriter(f)
	if err := w.Write(recordHeader); err != nil {
		return err
	}

	row := make([]string, len(recordHeader))
	for _, r := range records {
		vals := []float64{
			r.Angle,
			r.Phase.U, r.Phase.V, r.Phase.W,
			r.Stationary.Alpha, r.Stationary.Beta,
			r.Rotating.D, r.Rotating.Q,
		}
		row[0] = strconv.Itoa(r.Period)
		for i, v := range vals {
			row[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		row[9] = strconv.Itoa(int(r.Sector))
		times := []float64{r.Times.T0, r.Times.T1, r.Times.T2, r.Counter.U, r.Counter.V, r.Counter.W}
		for i, v := range times {
			row[i+10] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		row[16] = strconv.FormatBool(r.Saturated)

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "parse metadata of %s", runID)
	}

	return &meta, nil
}

func (s *Store) LoadRecords(runID string) ([]loop.Record, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, recordsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read records of %s", runID)
	}
	if len(rows) < 2 {
		return []loop.Record{}, nil
	}

	records := make([]loop.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		r, err := parseRecord(row)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", recordsFile, i+2)
		}
		r.Routine = loop.Routine(meta.Routine)
		records = append(records, r)
	}
	return records, nil
}

func parseRecord(row []string) (loop.Record, error) {
	var r loop.Record
	if len(row) != len(recordHeader) {
		return r, fmt.Errorf("expected %d fields, got %d", len(recordHeader), len(row))
	}

	period, err := strconv.Atoi(row[0])
	if err != nil {
		return r, err
	}
	sector, err := strconv.Atoi(row[9])
	if err != nil {
		return r, err
	}
	saturated, err := strconv.ParseBool(row[16])
	if err != nil {
		return r, err
	}

	f := make([]float64, 0, 14)
	for _, idx := range []int{1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 12, 13, 14, 15} {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return r, err
		}
		f = append(f, v)
	}

	r.Period = period
	r.Angle = f[0]
	r.Phase = foc.ThreePhase{U: f[1], V: f[2], W: f[3]}
	r.Stationary = foc.Stationary{Alpha: f[4], Beta: f[5]}
	r.Rotating = foc.Rotating{D: f[6], Q: f[7]}
	r.Sector = foc.Sector(sector)
	r.Times = foc.VectorTime{T0: f[8], T1: f[9], T2: f[10]}
	r.Counter = foc.PWMCounter{U: f[11], V: f[12], W: f[13]}
	r.Saturated = saturated
	return r, nil
}
