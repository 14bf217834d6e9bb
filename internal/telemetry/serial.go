package telemetry

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// Serial is a CSV sink bound to a UART.
type Serial struct {
	*CSV
	port *serial.Port
}

// OpenSerial opens device at baud and streams CSV lines to it.
func OpenSerial(device string, baud int) (*Serial, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %s", device)
	}

	return &Serial{
		CSV:  NewCSVUnbuffered(port),
		port: port,
	}, nil
}

func (s *Serial) Close() error {
	if err := s.Flush(); err != nil {
		s.port.Close()
		return err
	}
	return s.port.Close()
}
