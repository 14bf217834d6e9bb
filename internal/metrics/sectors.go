package metrics

import "github.com/san-kum/focpwm/internal/loop"

// SectorCoverage counts how many distinct sectors were visited.
type SectorCoverage struct {
	name string
	seen [7]int
}

func NewSectorCoverage() *SectorCoverage {
	return &SectorCoverage{
		name: "sector_coverage",
	}
}

func (s *SectorCoverage) Name() string {
	return s.name
}

func (s *SectorCoverage) Observe(r loop.Record) {
	if r.Sector.Valid() {
		s.seen[r.Sector]++
	}
}

func (s *SectorCoverage) Value() float64 {
	n := 0
	for _, c := range s.seen[1:] {
		if c > 0 {
			n++
		}
	}
	return float64(n)
}

// Histogram returns the visit count of sectors 1..6.
func (s *SectorCoverage) Histogram() [6]int {
	var h [6]int
	copy(h[:], s.seen[1:])
	return h
}

func (s *SectorCoverage) Reset() {
	s.seen = [7]int{}
}
