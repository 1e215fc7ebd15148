package kicad

import (
	"strconv"
	"strings"

	"github.com/dgallion1/edgezone/internal/outline"
)

// FormatPts renders a chain as a KiCad polygon point list.
//
// The output is byte-compatible with the (pts ...) block KiCad writes inside
// zone polygons: straight edges contribute (xy ...) vertices, arcs keep their
// three defining points, and the arc's start is the previously emitted point.
// An empty chain renders as "(pts )".
func FormatPts(c outline.Chain) string {
	var b strings.Builder
	b.WriteString("(pts ")
	if len(c) > 0 {
		prev := c[0].From()
		writeXY(&b, prev)
		for _, e := range c {
			end := e.To()
			if a, ok := e.Seg.(outline.Arc); ok {
				b.WriteString("(arc (start ")
				writeCoords(&b, prev)
				b.WriteString(") (mid ")
				writeCoords(&b, a.Mid)
				b.WriteString(") (end ")
				writeCoords(&b, end)
				b.WriteString(") ) ")
			} else {
				writeXY(&b, end)
			}
			prev = end
		}
	}
	b.WriteString(")")
	return b.String()
}

func writeXY(b *strings.Builder, p outline.Point) {
	b.WriteString("(xy ")
	writeCoords(b, p)
	b.WriteString(") ")
}

func writeCoords(b *strings.Builder, p outline.Point) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(' ')
	b.WriteString(formatCoord(p.Y))
}

// formatCoord renders a coordinate with the fewest digits that still
// round-trip through float64, the way KiCad itself writes numbers.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
