package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/focpwm/internal/analysis"
)

// LocusToSVG draws the alpha/beta locus inside the voltage hexagon of a bus
// at udc. The dashed circle is the largest locus that never saturates.
func LocusToSVG(points []analysis.Point, udc float64, size int, strokeColor string) string {
	if len(points) < 2 || size <= 0 {
		return ""
	}

	vertex := 2 * udc / 3
	r := vertex
	for _, p := range points {
		r = math.Max(r, math.Hypot(p.X, p.Y))
	}
	r *= 1.1

	half := float64(size) / 2
	scale := half / r
	toSVG := func(x, y float64) (float64, float64) {
		return half + x*scale, half - y*scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333333"/>
<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="#333333"/>
`, half, size, half, half, half, size))

	sb.WriteString(`<polygon fill="none" stroke="#888888" stroke-width="1" points="`)
	for k := 0; k < 6; k++ {
		x, y := toSVG(vertex*math.Cos(float64(k)*math.Pi/3), vertex*math.Sin(float64(k)*math.Pi/3))
		if k > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}
	sb.WriteString("\"/>\n")

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#555555" stroke-dasharray="4 4"/>
`, half, half, udc/math.Sqrt(3)*scale))

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		x, y := toSVG(p.X, p.Y)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
