package physics

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Probe is a massless sample point on the field lattice. It feels force
// from every charge but exerts none.
type Probe struct {
	Pos    r2.Vec
	Net    r2.Vec
	Hidden bool
}

func NewProbe(pos r2.Vec) Probe {
	return Probe{Pos: pos}
}

// Sample recomputes the net force on the probe and returns its magnitude.
// A probe within ProbeClearance of any charge is hidden and reports zero.
func (pr *Probe) Sample(charges []Charge, p Params) float64 {
	pr.Net = r2.Vec{}
	pr.Hidden = false
	clear2 := p.ProbeClearance * p.ProbeClearance
	for i := range charges {
		c := &charges[i]
		if r2.Norm2(r2.Sub(pr.Pos, c.Pos)) < clear2 {
			pr.Hidden = true
			break
		}
		pr.Net = r2.Add(pr.Net, ForceBetween(pr.Pos, c.Pos, p.ProbeCharge, c.Q, p))
	}
	if pr.Hidden {
		pr.Net = r2.Vec{}
		return 0
	}
	return r2.Norm(pr.Net)
}
