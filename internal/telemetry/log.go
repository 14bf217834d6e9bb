package telemetry

import (
	"go.uber.org/zap"

	"github.com/san-kum/focpwm/internal/loop"
)

// Log writes records to a zap logger at debug level.
type Log struct {
	l *zap.SugaredLogger
}

func NewLog(l *zap.SugaredLogger) *Log {
	return &Log{l: l}
}

func (s *Log) Publish(r loop.Record) error {
	cols := r.Columns()
	names := loop.ColumnNames(r.Routine)
	kv := make([]interface{}, 0, 2*len(cols)+4)
	kv = append(kv, "routine", string(r.Routine), "period", r.Period)
	for i := range cols {
		kv = append(kv, names[i], cols[i])
	}
	s.l.Debugw("period", kv...)
	return nil
}
