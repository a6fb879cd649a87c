package tui

import (
	"image/color"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/render"
	"github.com/san-kum/chargesim/internal/sim"
)

// viewport maps terminal cells onto the simulation plane.
type viewport struct {
	cols, rows int
	cellW      float64
	cellH      float64
}

func newViewport(cols, rows int, worldW, worldH float64) viewport {
	cols, rows = max(cols, 1), max(rows, 1)
	return viewport{
		cols:  cols,
		rows:  rows,
		cellW: worldW / float64(cols),
		cellH: worldH / float64(rows),
	}
}

// center is the world point at the middle of cell (col, row).
func (v viewport) center(col, row int) r2.Vec {
	return r2.Vec{X: (float64(col) + 0.5) * v.cellW, Y: (float64(row) + 0.5) * v.cellH}
}

// cellOf returns the cell holding pt, clamped to the viewport.
func (v viewport) cellOf(pt r2.Vec) (col, row int) {
	col = min(max(int(pt.X/v.cellW), 0), v.cols-1)
	row = min(max(int(pt.Y/v.cellH), 0), v.rows-1)
	return col, row
}

type glyph struct {
	r    rune
	fg   color.RGBA
	bg   color.RGBA
	bold bool
}

func signRune(s physics.Sign) rune {
	switch s {
	case physics.Positive:
		return '+'
	case physics.Negative:
		return '-'
	}
	return 'o'
}

// paint renders the potential heat map with charges, contour cells and
// the cursor layered on top.
func paint(s *sim.Simulator, v viewport, cursor r2.Vec, showCursor bool) string {
	cells := make([]glyph, v.cols*v.rows)
	g := s.Grid()
	charges := s.Charges()
	params := s.Params()

	for row := 0; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			pt := v.center(col, row)
			bg := render.Background
			if g != nil {
				if k, ok := g.Index(pt); ok {
					bg = render.PotentialColor(g.Potential[k], render.MaxPotential)
					if g.OnLevel[k] {
						bg = render.ContourColor
					}
				}
			} else {
				bg = render.PotentialColor(physics.Potential(pt, charges, params), render.MaxPotential)
			}
			cells[row*v.cols+col] = glyph{r: ' ', bg: bg}
		}
	}

	for i := range charges {
		c := &charges[i]
		body := render.BodyColor(c.Sign)
		c0, r0 := v.cellOf(r2.Sub(c.Pos, r2.Vec{X: c.Radius, Y: c.Radius}))
		c1, r1 := v.cellOf(r2.Add(c.Pos, r2.Vec{X: c.Radius, Y: c.Radius}))
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if c.Contains(v.center(col, row)) {
					cells[row*v.cols+col].bg = body
				}
			}
		}
		col, row := v.cellOf(c.Pos)
		fg := render.Selection
		if c.Fixed {
			fg = color.RGBA{255, 220, 0, 255}
		}
		cells[row*v.cols+col] = glyph{r: signRune(c.Sign), fg: fg, bg: body, bold: true}
	}

	if showCursor {
		col, row := v.cellOf(cursor)
		k := row*v.cols + col
		cells[k].r, cells[k].fg, cells[k].bold = '◎', render.Selection, true
	}

	var b strings.Builder
	for row := 0; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			c := cells[row*v.cols+col]
			b.WriteString(cell(c.r, c.fg, c.bg, c.bold))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
