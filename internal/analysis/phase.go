package analysis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// gutter is the width of the y tick column left of the plot.
const gutter = 10

// PhasePortrait pairs two recorded columns of the same run.
type PhasePortrait struct {
	XLabel, YLabel string
	X, Y           []float64
}

// NewPhasePortrait pairs xs with ys, which must have equal length.
func NewPhasePortrait(xLabel string, xs []float64, yLabel string, ys []float64) (*PhasePortrait, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("phase portrait: %d %s samples vs %d %s samples", len(xs), xLabel, len(ys), yLabel)
	}
	return &PhasePortrait{XLabel: xLabel, YLabel: yLabel, X: xs, Y: ys}, nil
}

// padded returns the range of v widened by a tenth of its span on each
// side. Constant data gets a unit span.
func padded(v []float64) (lo, hi float64) {
	lo, hi = floats.Min(v), floats.Max(v)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span/10, hi + span/10
}

// cellOf maps v in [lo, hi] onto 0..n-1.
func cellOf(v, lo, hi float64, n int) int {
	return int((v - lo) / (hi - lo) * float64(n-1))
}

// Render plots Y against X on a width×height grid. The y caption and its
// range sit in a left gutter, the x range and caption below the plot.
// Axes are drawn where zero is in view and points are drawn over them.
func (p *PhasePortrait) Render(width, height int) string {
	if p == nil || len(p.X) == 0 || width < 2 || height < 2 {
		return ""
	}
	xlo, xhi := padded(p.X)
	ylo, yhi := padded(p.Y)

	plot := make([][]rune, height)
	for r := range plot {
		plot[r] = []rune(strings.Repeat(" ", width))
	}
	if xlo <= 0 && xhi >= 0 {
		c := cellOf(0, xlo, xhi, width)
		for r := range plot {
			plot[r][c] = '│'
		}
	}
	if ylo <= 0 && yhi >= 0 {
		r := height - 1 - cellOf(0, ylo, yhi, height)
		for c := range plot[r] {
			if plot[r][c] == '│' {
				plot[r][c] = '┼'
			} else {
				plot[r][c] = '─'
			}
		}
	}
	for i := range p.X {
		c := cellOf(p.X[i], xlo, xhi, width)
		r := height - 1 - cellOf(p.Y[i], ylo, yhi, height)
		plot[r][c] = '•'
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%*s%s\n", gutter, "", p.YLabel)
	for r, row := range plot {
		tick := ""
		switch r {
		case 0:
			tick = fmt.Sprintf("%.3g", yhi)
		case height - 1:
			tick = fmt.Sprintf("%.3g", ylo)
		}
		fmt.Fprintf(&sb, "%*s ┤%s\n", gutter-2, tick, string(row))
	}
	fmt.Fprintf(&sb, "%*s%-*s%*s\n", gutter, "", width/2, fmt.Sprintf("%.3g", xlo), width-width/2, fmt.Sprintf("%.3g", xhi))
	fmt.Fprintf(&sb, "%*s%s\n", gutter+(width-len(p.XLabel))/2, "", p.XLabel)
	return sb.String()
}
