package experiment

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/metrics"
	"github.com/san-kum/chargesim/internal/sim"
)

// Registry maps metric names to constructors.
type Registry struct {
	metrics map[string]func(cfg *config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func(*config.Config) sim.Metric)}

	r.metrics["kinetic_energy"] = func(*config.Config) sim.Metric { return metrics.NewKineticEnergy() }
	r.metrics["peak_speed"] = func(*config.Config) sim.Metric { return metrics.NewPeakSpeed() }
	r.metrics["merges"] = func(*config.Config) sim.Metric { return metrics.NewMergeCount() }
	r.metrics["net_charge"] = func(*config.Config) sim.Metric { return metrics.NewNetCharge() }
	r.metrics["live_charges"] = func(*config.Config) sim.Metric { return metrics.NewLiveCharges() }
	r.metrics["escapes"] = func(cfg *config.Config) sim.Metric {
		return metrics.NewEscapes(cfg.Field.Width, cfg.Field.Height)
	}
	return r
}

func (r *Registry) GetMetric(name string, cfg *config.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

// Metrics builds the named metrics, or every metric when names is empty.
func (r *Registry) Metrics(names []string, cfg *config.Config) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, n := range names {
		m, err := r.GetMetric(n, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	return slices.Sorted(maps.Keys(r.metrics))
}
