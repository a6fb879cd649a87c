// Package sim orchestrates the charge sandbox.
//
// A [Simulator] owns the live charges, the probe lattice, the potential
// grid and the voltmeter. Presentation layers feed it input events
// (placement, removal, drag, voltmeter moves) between ticks and call
// [Simulator.Tick] once per frame:
//
//	s, _ := sim.New(physics.DefaultParams(), field.DefaultLayout(), voltmeter.DefaultTolerance())
//	s.PlaceCharge(physics.Positive, r2.Vec{X: 300, Y: 250}, false)
//	s.PlaceCharge(physics.Negative, r2.Vec{X: 500, Y: 250}, false)
//	report, err := s.Tick(ctx, 1.0/60)
//
// # Tick phases
//
// A running tick clears accumulators, evaluates every unordered charge
// pair once (force, contact, merge), compacts merged charges, integrates
// velocities and positions, then samples the probes, the grid and the
// voltmeter against the post-integration positions. A paused tick runs
// only the sampling phase.
//
// # Thread Safety
//
// Simulator is NOT safe for concurrent use. Tick fans out field sampling
// internally but returns only after every worker has finished.
package sim
