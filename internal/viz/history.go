package viz

import "github.com/san-kum/focpwm/internal/loop"

// History keeps the most recent records seen by a driver.
type History struct {
	records  []loop.Record
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = historyCapacity
	}
	return &History{
		records:  make([]loop.Record, 0, capacity),
		capacity: capacity,
	}
}

// OnRecord appends r, dropping the oldest record once full.
func (h *History) OnRecord(r loop.Record) {
	h.records = append(h.records, r)
	if len(h.records) > h.capacity {
		h.records = h.records[1:]
	}
}

// Records returns the retained records, oldest first.
func (h *History) Records() []loop.Record {
	return h.records
}

func (h *History) Len() int {
	return len(h.records)
}

func (h *History) Reset() {
	h.records = h.records[:0]
}
