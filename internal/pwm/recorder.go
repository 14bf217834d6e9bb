// Package pwm provides PWMOutput implementations for the loop driver.
package pwm

import (
	"sync"

	"github.com/san-kum/focpwm/internal/foc"
)

// Recorder keeps every committed compare set per channel. It stands in for
// the timer when running off-target.
type Recorder struct {
	mu      sync.Mutex
	history map[int][]foc.PWMCounter
	limit   int
}

// NewRecorder keeps at most limit entries per channel; 0 means unbounded.
func NewRecorder(limit int) *Recorder {
	return &Recorder{
		history: make(map[int][]foc.PWMCounter),
		limit:   limit,
	}
}

func (r *Recorder) Commit(channel int, c foc.PWMCounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := append(r.history[channel], c)
	if r.limit > 0 && len(h) > r.limit {
		h = h[len(h)-r.limit:]
	}
	r.history[channel] = h
	return nil
}

// Last returns the most recent compare set for channel.
func (r *Recorder) Last(channel int) (foc.PWMCounter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.history[channel]
	if len(h) == 0 {
		return foc.PWMCounter{}, false
	}
	return h[len(h)-1], true
}

// History returns a copy of everything recorded for channel.
func (r *Recorder) History(channel int) []foc.PWMCounter {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := make([]foc.PWMCounter, len(r.history[channel]))
	copy(h, r.history[channel])
	return h
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = make(map[int][]foc.PWMCounter)
}
