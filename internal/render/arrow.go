package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
)

const (
	BodyWidth = 2.5
	HeadSize  = 7.5

	// forceArrowBase is the length of a force arrow before scaling.
	forceArrowBase = 46.0
	// fieldArrowMax caps probe arrow length.
	fieldArrowMax = 20.0
)

// Arrow is a line with a triangular head whose tip is To. A zero-length
// arrow is drawn as a dot at From.
type Arrow struct {
	From, To    r2.Vec
	Shaft       r2.Vec
	Left, Right r2.Vec
	Color       color.RGBA
}

func (a Arrow) Dot() bool { return a.From == a.To }

// NewArrow computes the head geometry for an arrow from..to.
func NewArrow(from, to r2.Vec, c color.RGBA) Arrow {
	a := Arrow{From: from, To: to, Shaft: to, Color: c}
	dir := physics.Unit(r2.Sub(to, from))
	if dir == (r2.Vec{}) {
		return a
	}
	perp := r2.Vec{X: -dir.Y, Y: dir.X}
	back := r2.Sub(to, r2.Scale(HeadSize, dir))
	a.Shaft = r2.Sub(to, r2.Scale(HeadSize/2, dir))
	a.Left = r2.Add(back, r2.Scale(HeadSize/2, perp))
	a.Right = r2.Sub(back, r2.Scale(HeadSize/2, perp))
	return a
}

// ForceLength scales a force magnitude into an arrow length relative to
// max, capped at twice the body radius.
func ForceLength(rho, max, radius float64) float64 {
	limit := 2 * radius
	if max <= 0 {
		return math.Min(forceArrowBase, limit)
	}
	return math.Min(forceArrowBase+rho*limit/max, limit)
}

// NetForceArrow draws a charge's net force. Neutral or unforced charges
// get a dot.
func NetForceArrow(c *physics.Charge) Arrow {
	if c.Sign == physics.Neutral || c.Net == (r2.Vec{}) {
		return NewArrow(c.Pos, c.Pos, NetForce)
	}
	pv := physics.ToPolar(c.Net)
	pv.Rho = ForceLength(pv.Rho, c.MaxForce, c.Radius)
	return NewArrow(c.Pos, r2.Add(c.Pos, pv.Vec()), NetForce)
}

// PartnerArrows draws each per-partner contribution.
func PartnerArrows(c *physics.Charge) []Arrow {
	out := make([]Arrow, 0, len(c.Forces))
	for _, f := range c.Forces {
		pv := physics.ToPolar(f)
		pv.Rho = ForceLength(pv.Rho, c.MaxForce, c.Radius)
		out = append(out, NewArrow(c.Pos, r2.Add(c.Pos, pv.Vec()), PartnerForce))
	}
	return out
}

// FieldShade is the gray level of a probe arrow.
func FieldShade(rho, max float64) uint8 {
	if max <= 0 {
		return 30
	}
	return uint8(math.Min(30+math.Round(rho*255/max), 255))
}

// FieldArrow draws a probe's force, shaded relative to the strongest
// visible probe. The second result is false for hidden probes.
func FieldArrow(p *physics.Probe, max float64) (Arrow, bool) {
	if p.Hidden {
		return Arrow{}, false
	}
	pv := physics.ToPolar(p.Net)
	shade := FieldShade(pv.Rho, max)
	c := color.RGBA{shade, shade, shade, 255}
	if pv.Rho <= 0 {
		return NewArrow(p.Pos, p.Pos, c), true
	}
	pv.Rho = math.Min(pv.Rho, fieldArrowMax)
	return NewArrow(p.Pos, r2.Add(p.Pos, pv.Vec()), c), true
}
