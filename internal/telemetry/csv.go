package telemetry

import (
	"bufio"
	"io"
	"strconv"
	"sync"

	"github.com/san-kum/focpwm/internal/loop"
)

// CSV writes the eight debug columns of each record as a comma separated
// line terminated by CRLF, six decimals per value.
type CSV struct {
	mu  sync.Mutex
	w   *bufio.Writer
	buf []byte
	// flush after every record
	sync bool
}

func NewCSV(w io.Writer) *CSV {
	return &CSV{w: bufio.NewWriter(w), buf: make([]byte, 0, 128)}
}

// NewCSVUnbuffered flushes each line as soon as it is written, for links
// where a reader watches the stream live.
func NewCSVUnbuffered(w io.Writer) *CSV {
	c := NewCSV(w)
	c.sync = true
	return c
}

func (c *CSV) Publish(r loop.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf = AppendLine(c.buf[:0], r)
	if _, err := c.w.Write(c.buf); err != nil {
		return err
	}
	if c.sync {
		return c.w.Flush()
	}
	return nil
}

// WriteHeader writes the column names for routine.
func (c *CSV) WriteHeader(routine loop.Routine) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := loop.ColumnNames(routine)
	for i, n := range names {
		if i > 0 {
			c.w.WriteByte(',')
		}
		c.w.WriteString(n)
	}
	_, err := c.w.WriteString("\r\n")
	return err
}

func (c *CSV) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Flush()
}

// AppendLine appends the CSV line for r to dst.
func AppendLine(dst []byte, r loop.Record) []byte {
	cols := r.Columns()
	for i, v := range cols {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendFloat(dst, v, 'f', 6, 64)
	}
	return append(dst, '\r', '\n')
}
