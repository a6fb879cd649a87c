package field

import (
	"context"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
)

const probeChunk = 256

// Lattice builds the probe lattice. Both bounds are inclusive, so an
// 800x500 plane at spacing 25 yields 33x21 probes.
func Lattice(l Layout) []physics.Probe {
	var probes []physics.Probe
	for x := 0.0; x <= l.Width; x += l.ProbeSpacing {
		for y := 0.0; y <= l.Height; y += l.ProbeSpacing {
			probes = append(probes, physics.NewProbe(r2.Vec{X: x, Y: y}))
		}
	}
	return probes
}

// SampleProbes recomputes every probe against charges and returns the
// largest net force magnitude among visible probes, or 0 if none are
// visible.
func SampleProbes(ctx context.Context, probes []physics.Probe, charges []physics.Charge, p physics.Params, workers int) (float64, error) {
	mags := make([]float64, len(probes))
	err := ParallelFor(ctx, len(probes), probeChunk, workers, func(start, end int) {
		for i := start; i < end; i++ {
			mags[i] = probes[i].Sample(charges, p)
		}
	})
	if err != nil {
		return 0, err
	}
	maxMag := 0.0
	for i, m := range mags {
		if !probes[i].Hidden && m > maxMag {
			maxMag = m
		}
	}
	return maxMag, nil
}
