package telemetry

import (
	"go.uber.org/multierr"

	"github.com/san-kum/focpwm/internal/loop"
)

// Multi publishes to every sink and joins their errors.
type Multi []loop.Telemetry

func (m Multi) Publish(r loop.Record) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Publish(r))
	}
	return err
}
