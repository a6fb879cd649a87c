package render

import (
	"image/color"
	"math"

	"github.com/san-kum/chargesim/internal/field"
	"github.com/san-kum/chargesim/internal/physics"
)

// MaxPotential is the potential mapped to full color intensity.
const MaxPotential = 100.0

var (
	Background   = color.RGBA{10, 10, 10, 255}
	ContourColor = color.RGBA{0, 228, 48, 255}
	NetForce     = color.RGBA{0, 228, 48, 255}
	PartnerForce = color.RGBA{200, 200, 200, 255}
	PositiveBody = color.RGBA{230, 41, 55, 255}
	NegativeBody = color.RGBA{0, 121, 241, 255}
	NeutralBody  = color.RGBA{130, 130, 130, 255}
	Selection    = color.RGBA{255, 255, 255, 255}
)

// Intensity maps |v| to a channel value. It saturates at half of max and
// above.
func Intensity(v, max float64) uint8 {
	a := math.Abs(v)
	switch {
	case a > max:
		return 255
	case max > 0.1:
		return uint8(math.Min(math.Round(2*a*255/max), 255))
	}
	return 0
}

// PotentialColor maps a potential to red when positive, blue when
// negative and gray within one unit of zero.
func PotentialColor(v, max float64) color.RGBA {
	i := Intensity(v, max)
	switch {
	case v > 1:
		return color.RGBA{i, 0, 0, 255}
	case v < -1:
		return color.RGBA{0, 0, i, 255}
	}
	return color.RGBA{i, i, i, 255}
}

// BodyColor is the fill color for a charge of sign s.
func BodyColor(s physics.Sign) color.RGBA {
	switch s {
	case physics.Positive:
		return PositiveBody
	case physics.Negative:
		return NegativeBody
	}
	return NeutralBody
}

// PotentialImage writes one pixel per grid sample into dst, which must
// have g.Len() entries. Samples on a pinned equipotential take
// ContourColor.
func PotentialImage(g *field.Grid, max float64, dst []color.RGBA) {
	for k, v := range g.Potential {
		if g.OnLevel[k] {
			dst[k] = ContourColor
			continue
		}
		dst[k] = PotentialColor(v, max)
	}
}
