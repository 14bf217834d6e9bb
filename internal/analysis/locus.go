package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/focpwm/internal/loop"
)

type Point struct {
	X, Y float64
}

// Locus is the path of the stationary-frame vector over a run.
type Locus struct {
	Points []Point
}

func NewLocus(records []loop.Record) *Locus {
	l := &Locus{Points: make([]Point, len(records))}
	for i, r := range records {
		l.Points[i] = Point{X: r.Stationary.Alpha, Y: r.Stationary.Beta}
	}
	return l
}

// Radius returns the smallest and largest distance from the origin.
func (l *Locus) Radius() (lo, hi float64) {
	if len(l.Points) == 0 {
		return 0, 0
	}
	lo = math.Inf(1)
	for _, p := range l.Points {
		r := math.Hypot(p.X, p.Y)
		lo = math.Min(lo, r)
		hi = math.Max(hi, r)
	}
	return lo, hi
}

// ToASCII draws the locus on a width x height grid with the axes through
// the origin. The view is square so a circular locus stays round.
func (l *Locus) ToASCII(width, height int) string {
	if len(l.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	_, r := l.Radius()
	if r == 0 {
		r = 1
	}
	r *= 1.1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	toCell := func(x, y float64) (int, int) {
		col := int((x + r) / (2 * r) * float64(width-1))
		row := height - 1 - int((y+r)/(2*r)*float64(height-1))
		return row, col
	}

	row0, col0 := toCell(0, 0)
	for row := 0; row < height; row++ {
		canvas[row][col0] = '│'
	}
	for col := 0; col < width; col++ {
		canvas[row0][col] = '─'
	}
	canvas[row0][col0] = '┼'

	for _, p := range l.Points {
		row, col := toCell(p.X, p.Y)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
