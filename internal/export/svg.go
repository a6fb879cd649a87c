package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/render"
	"github.com/san-kum/chargesim/internal/sim"
)

// Options controls what SnapshotSVG draws.
type Options struct {
	// Block is the number of grid samples folded into one square cell.
	// Values below 1 are treated as 1.
	Block        int
	ShowField    bool
	ShowPartners bool
	// Trails are drawn as polylines under the charges, keyed by charge ID.
	Trails map[int][]r2.Vec
}

func DefaultOptions() Options {
	return Options{Block: 10, ShowField: true}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SnapshotSVG writes the current state of s as a standalone SVG document
// the size of its layout.
func SnapshotSVG(w io.Writer, s *sim.Simulator, opts Options) error {
	l := s.Layout()
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, l.Width, l.Height, l.Width, l.Height, hexColor(render.Background)))

	writePotential(&sb, s, opts.Block)
	if opts.ShowField {
		writeField(&sb, s)
	}
	writeTrails(&sb, opts.Trails)

	charges := s.Charges()
	for i := range charges {
		writeCharge(&sb, &charges[i], opts.ShowPartners)
	}
	if v := s.Voltmeter(); v.Active() {
		p := v.Position()
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="10" fill="none" stroke="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%.1f V</text>
`, p.X, p.Y, hexColor(render.ContourColor), p.X+14, p.Y-14, hexColor(render.ContourColor), v.Reading()))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// writePotential draws one rect per block of grid samples, colored by the
// block's top-left sample. A block touching a pinned level is drawn in the
// contour color.
func writePotential(sb *strings.Builder, s *sim.Simulator, block int) {
	g := s.Grid()
	if g == nil || g.Len() == 0 {
		return
	}
	if block < 1 {
		block = 1
	}
	size := float64(block) * g.Spacing

	sb.WriteString("<g shape-rendering=\"crispEdges\">\n")
	for row := 0; row < g.Rows; row += block {
		for col := 0; col < g.Cols; col += block {
			c := render.PotentialColor(g.At(col, row), render.MaxPotential)
			if blockOnLevel(g.OnLevel, g.Cols, g.Rows, col, row, block) {
				c = render.ContourColor
			}
			if c == (color.RGBA{A: 255}) {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(col)*g.Spacing, float64(row)*g.Spacing, size, size, hexColor(c)))
		}
	}
	sb.WriteString("</g>\n")
}

func blockOnLevel(on []bool, cols, rows, col, row, block int) bool {
	for r := row; r < min(row+block, rows); r++ {
		for c := col; c < min(col+block, cols); c++ {
			if on[r*cols+c] {
				return true
			}
		}
	}
	return false
}

func writeField(sb *strings.Builder, s *sim.Simulator) {
	probes := s.Probes()
	peak := s.ProbeMax()
	for i := range probes {
		a, ok := render.FieldArrow(&probes[i], peak)
		if !ok {
			continue
		}
		writeArrow(sb, a)
	}
}

func writeTrails(sb *strings.Builder, trails map[int][]r2.Vec) {
	for _, pts := range trails {
		if len(pts) < 2 {
			continue
		}
		sb.WriteString(`<path fill="none" stroke="#505050" stroke-width="1" d="M`)
		for i, p := range pts {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
			}
		}
		sb.WriteString("\"/>\n")
	}
}

func writeCharge(sb *strings.Builder, c *physics.Charge, partners bool) {
	stroke := "none"
	if c.Fixed {
		stroke = hexColor(render.Selection)
	}
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" data-id="%d"/>
<text x="%.1f" y="%.1f" fill="#ffffff" font-family="monospace" font-size="%.0f" text-anchor="middle" dominant-baseline="central">%s</text>
`, c.Pos.X, c.Pos.Y, c.Radius, hexColor(render.BodyColor(c.Sign)), stroke, c.ID,
		c.Pos.X, c.Pos.Y, c.Radius, c.Sign))

	if partners {
		for _, a := range render.PartnerArrows(c) {
			writeArrow(sb, a)
		}
	}
	writeArrow(sb, render.NetForceArrow(c))
}

func writeArrow(sb *strings.Builder, a render.Arrow) {
	col := hexColor(a.Color)
	if a.Dot() {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>
`, a.From.X, a.From.Y, render.BodyWidth, col))
		return
	}
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>
`, a.From.X, a.From.Y, a.Shaft.X, a.Shaft.Y, col, render.BodyWidth,
		a.To.X, a.To.Y, a.Left.X, a.Left.Y, a.Right.X, a.Right.Y, col))
}
