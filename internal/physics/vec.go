package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polar is a vector in magnitude/angle form. Theta is in radians.
type Polar struct {
	Rho   float64
	Theta float64
}

// ToPolar converts v to polar form.
func ToPolar(v r2.Vec) Polar {
	return Polar{Rho: r2.Norm(v), Theta: math.Atan2(v.Y, v.X)}
}

// Vec converts p back to cartesian form.
func (p Polar) Vec() r2.Vec {
	return r2.Vec{X: p.Rho * math.Cos(p.Theta), Y: p.Rho * math.Sin(p.Theta)}
}

// unit returns the unit vector along v, or the zero vector when v has no
// length. r2.Unit would return NaN components there.
func unit(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Unit is the exported form of unit for callers outside the kernel.
func Unit(v r2.Vec) r2.Vec { return unit(v) }

// Finite reports whether both components of v are finite.
func Finite(v r2.Vec) bool {
	return finite(v.X) && finite(v.Y)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Distance returns |a-b|.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
