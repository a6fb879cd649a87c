package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/experiment"
	"github.com/san-kum/chargesim/internal/physics"
)

var ErrUnknownParam = errors.New("analysis: unknown sweep parameter")

var setters = map[string]func(*physics.Params, float64){
	"friction":            func(p *physics.Params, v float64) { p.Friction = v },
	"restitution":         func(p *physics.Params, v float64) { p.Restitution = v },
	"force_scale":         func(p *physics.Params, v float64) { p.ForceScale = v },
	"coulomb_k":           func(p *physics.Params, v float64) { p.CoulombK = v },
	"min_distance":        func(p *physics.Params, v float64) { p.MinDistance = v },
	"correction_strength": func(p *physics.Params, v float64) { p.CorrectionStrength = v },
	"merged_mass_factor":  func(p *physics.Params, v float64) { p.MergedMassFactor = v },
	"rest_speed":          func(p *physics.Params, v float64) { p.RestSpeed = v },
}

// SweepParams lists the parameter names accepted by Sweep.
func SweepParams() []string {
	names := make([]string, 0, len(setters))
	for n := range setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SweepPoint is one parameter value and the metric it produced.
type SweepPoint struct {
	Param float64
	Value float64
}

// Sweep runs cfg once per evenly spaced value of param in [lo, hi] and
// records the named metric from each run. Runs execute concurrently.
func Sweep(ctx context.Context, cfg *config.Config, param string, lo, hi float64, steps int, metric string, workers int, log *zap.Logger) ([]SweepPoint, error) {
	set, ok := setters[param]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
	if steps <= 1 {
		steps = 2
	}
	step := (hi - lo) / float64(steps-1)

	cfgs := make([]*config.Config, steps)
	values := make([]float64, steps)
	for i := range cfgs {
		c := *cfg
		c.Charges = slices.Clone(cfg.Charges)
		c.Run.SampleField = false
		values[i] = lo + float64(i)*step
		set(&c.Physics, values[i])
		c.Name = fmt.Sprintf("%s/%s=%g", cfg.Name, param, values[i])
		cfgs[i] = &c
	}

	results, err := experiment.NewBatch(experiment.NewRegistry(), log, workers).Run(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	out := make([]SweepPoint, len(results))
	for i, res := range results {
		v, ok := res.Metrics[metric]
		if !ok {
			return nil, fmt.Errorf("sweep: metric %q not recorded", metric)
		}
		out[i] = SweepPoint{Param: values[i], Value: v}
	}
	return out, nil
}

// SweepToASCII plots the sweep as a line chart with a caption naming the
// axes.
func SweepToASCII(points []SweepPoint, param, metric string, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Value
	}
	var b strings.Builder
	b.WriteString(asciigraph.Plot(ys,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("%s vs %s [%g .. %g]", metric, param, points[0].Param, points[len(points)-1].Param))))
	b.WriteByte('\n')
	return b.String()
}
