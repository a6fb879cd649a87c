// Package analysis provides offline tools over recorded runs and
// scenario sweeps.
//
//   - [PowerSpectrum] / [DominantFrequency]: spectral content of a trace column
//   - [LyapunovExponent]: sensitivity of a scenario to a small displacement
//   - [Sweep]: a physics parameter swept across a batch of runs
//   - [PhasePortrait.Render]: one trace column plotted against another
//
// # Chaos Detection
//
// A positive exponent means nearby initial placements diverge:
//
//	lambda, err := analysis.LyapunovExponent(ctx, cfg, 0, 1e-3, log)
//	if lambda > 0 {
//	    // scenario is sensitive to placement
//	}
package analysis
