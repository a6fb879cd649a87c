package sim

import (
	"context"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/san-kum/chargesim/internal/field"
	"github.com/san-kum/chargesim/internal/physics"
)

// Tick advances the simulation by dt. While paused only the field,
// voltmeter and equipotential classification are refreshed.
func (s *Simulator) Tick(ctx context.Context, dt float64) (*TickReport, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return nil, &TickError{
			Tick:    s.tick,
			Time:    s.elapsed,
			Wrapped: fmt.Errorf("%w: dt = %v", ErrInvalidTimestep, dt),
		}
	}

	report := &TickReport{Tick: s.tick, Paused: s.paused}
	if !s.paused {
		s.clearAccumulators()
		s.pairPass(report)
		s.compact()
		for i := range s.charges {
			s.charges[i].Integrate(dt, s.params)
		}
		s.elapsed += dt
	}

	if err := s.sample(ctx, report); err != nil {
		return nil, &TickError{Tick: s.tick, Time: s.elapsed, Wrapped: err}
	}

	s.tick++
	report.Time = s.elapsed
	report.Live = len(s.charges)
	s.notify(report)
	return report, nil
}

func (s *Simulator) clearAccumulators() {
	for i := range s.charges {
		s.charges[i].ClearForces()
	}
}

// pair returns both charges of an unordered pair. Pairing a charge with
// itself is a bug.
func (s *Simulator) pair(i, j int) (*physics.Charge, *physics.Charge) {
	if i == j {
		panic(fmt.Sprintf("sim: charge index %d paired with itself", i))
	}
	return &s.charges[i], &s.charges[j]
}

// pairPass evaluates every unordered pair once. Merges read both parents
// from the snapshot taken before the pass; the merged pair is flagged
// removed and skipped by every later pairing.
func (s *Simulator) pairPass(report *TickReport) {
	n := len(s.charges)
	s.before = append(s.before[:0], s.charges...)
	s.removed = slices.Grow(s.removed[:0], n)[:n]
	clear(s.removed)
	s.spawned = s.spawned[:0]

	for i := 0; i < n; i++ {
		if s.removed[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if s.removed[j] {
				continue
			}
			a, b := s.pair(i, j)
			physics.Interact(a, b, s.params)

			contact, ok := physics.Overlap(a, b)
			if !ok {
				continue
			}
			a.Colliding, b.Colliding = true, true
			report.Collisions++

			if physics.CanMerge(a, b) {
				product := physics.Merge(s.before[i], s.before[j], a.ID, s.params)
				s.removed[i], s.removed[j] = true, true
				s.spawned = append(s.spawned, product)
				report.Merges = append(report.Merges, MergeEvent{
					First:   a.ID,
					Second:  b.ID,
					Product: product.ID,
					At:      product.Pos,
				})
				s.log.Debug("charges merged",
					zap.Int("first", a.ID),
					zap.Int("second", b.ID),
					zap.Int("product", product.ID))
				break
			}

			if physics.Resolve(a, b, contact, s.params) > 0 {
				report.Impulses++
			}
		}
	}
}

// compact drops merged parents, keeping survivor order, and appends the
// merge products.
func (s *Simulator) compact() {
	if len(s.spawned) == 0 {
		return
	}
	live := s.charges[:0]
	for k := range s.charges {
		if !s.removed[k] {
			live = append(live, s.charges[k])
		}
	}
	s.charges = append(live, s.spawned...)
}

func (s *Simulator) sample(ctx context.Context, report *TickReport) error {
	if s.sampleField {
		maxMag, err := field.SampleProbes(ctx, s.probes, s.charges, s.params, s.layout.Concurrency())
		if err != nil {
			return err
		}
		s.probeMax = maxMag
		report.ProbeMax = maxMag
		if err := s.grid.Sample(ctx, s.charges, s.params); err != nil {
			return err
		}
	}

	report.Reading = s.volt.Refresh(s.charges, s.params)

	if s.sampleField {
		report.OnLevel = s.grid.Classify(s.volt.OnEquipotential)
	}
	return nil
}

// Snapshot returns the current read-only view.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Tick:    s.tick,
		Time:    s.elapsed,
		Paused:  s.paused,
		Charges: cloneCharges(s.charges),
		Reading: s.volt.Reading(),
	}
}

func (s *Simulator) notify(report *TickReport) {
	if len(s.metrics) == 0 && len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	snap.Tick = report.Tick
	snap.Merges = len(report.Merges)
	snap.Collisions = report.Collisions
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, o := range s.observers {
		o.OnTick(snap)
	}
}

// ResetMetrics resets every registered metric.
func (s *Simulator) ResetMetrics() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
