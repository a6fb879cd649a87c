package field

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
)

// serialThreshold is the sample count at or below which the grid is
// evaluated on the calling goroutine.
const serialThreshold = 4096

// Grid is the dense potential lattice. Samples are stored row-major; the
// upper bounds are exclusive.
type Grid struct {
	Cols, Rows int
	Spacing    float64
	Potential  []float64
	OnLevel    []bool

	workers int
}

func NewGrid(l Layout) *Grid {
	cols := int(math.Ceil(l.Width / l.GridSpacing))
	rows := int(math.Ceil(l.Height / l.GridSpacing))
	return &Grid{
		Cols:      cols,
		Rows:      rows,
		Spacing:   l.GridSpacing,
		Potential: make([]float64, cols*rows),
		OnLevel:   make([]bool, cols*rows),
		workers:   l.Concurrency(),
	}
}

func (g *Grid) Len() int { return len(g.Potential) }

// Point returns the plane position of sample k.
func (g *Grid) Point(k int) r2.Vec {
	return r2.Vec{
		X: float64(k%g.Cols) * g.Spacing,
		Y: float64(k/g.Cols) * g.Spacing,
	}
}

// Index returns the sample nearest to pt and whether pt is on the grid.
func (g *Grid) Index(pt r2.Vec) (int, bool) {
	if !physics.Finite(pt) {
		return 0, false
	}
	col := int(pt.X / g.Spacing)
	row := int(pt.Y / g.Spacing)
	if pt.X < 0 || pt.Y < 0 || col >= g.Cols || row >= g.Rows {
		return 0, false
	}
	return row*g.Cols + col, true
}

// At returns the sampled potential at column col, row row.
func (g *Grid) At(col, row int) float64 {
	return g.Potential[row*g.Cols+col]
}

// Sample recomputes every grid potential from charges.
func (g *Grid) Sample(ctx context.Context, charges []physics.Charge, p physics.Params) error {
	workers := g.workers
	if g.Len() <= serialThreshold {
		workers = 1
	}
	return ParallelFor(ctx, g.Len(), serialThreshold, workers, func(start, end int) {
		for k := start; k < end; k++ {
			g.Potential[k] = physics.Potential(g.Point(k), charges, p)
		}
	})
}

// Classify sets OnLevel for every sample according to match. It returns
// the number of samples flagged.
func (g *Grid) Classify(match func(v float64) bool) int {
	n := 0
	for k, v := range g.Potential {
		on := match(v)
		g.OnLevel[k] = on
		if on {
			n++
		}
	}
	return n
}

// Range returns the smallest and largest sampled potential.
func (g *Grid) Range() (lo, hi float64) {
	if g.Len() == 0 {
		return 0, 0
	}
	lo, hi = g.Potential[0], g.Potential[0]
	for _, v := range g.Potential[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
