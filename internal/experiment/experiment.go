// Package experiment runs scenarios headlessly at a fixed timestep and
// records a per-tick trace.
package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/metrics"
	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/sim"
	"github.com/san-kum/chargesim/internal/storage"
)

type Experiment struct {
	cfg       *config.Config
	log       *zap.Logger
	simulator *sim.Simulator
	recorder  *Recorder
}

// Result is the outcome of one run.
type Result struct {
	Scenario string
	Ticks    int
	Trace    []storage.TraceRow
	Merges   []sim.MergeEvent
	Final    []physics.Charge
	Levels   []float64
	Metrics  map[string]float64
}

func New(cfg *config.Config, log *zap.Logger) *Experiment {
	if log == nil {
		log = zap.NewNop()
	}
	return &Experiment{cfg: cfg, log: log}
}

// NewSimulator builds a simulator for cfg with its initial charges placed
// and the voltmeter probe positioned.
func NewSimulator(cfg *config.Config, log *zap.Logger) (*sim.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := []sim.Option{sim.WithLogger(log)}
	if !cfg.Run.SampleField {
		opts = append(opts, sim.WithoutFieldSampling())
	}
	s, err := sim.New(cfg.Physics, cfg.Field, cfg.Voltmeter, opts...)
	if err != nil {
		return nil, err
	}
	for i, ch := range cfg.Charges {
		sign, err := physics.ParseSign(ch.Sign)
		if err != nil {
			return nil, fmt.Errorf("charges[%d]: %w", i, err)
		}
		magnitude := ch.Magnitude
		if magnitude <= 0 {
			magnitude = cfg.Physics.DefaultCharge
		}
		pos := r2.Vec{X: ch.X, Y: ch.Y}
		if _, err := s.PlaceChargeWithMagnitude(sign, magnitude, pos, ch.Fixed); err != nil {
			return nil, fmt.Errorf("charges[%d]: %w", i, err)
		}
	}

	s.SetProbePosition(r2.Vec{X: cfg.Run.Probe.X, Y: cfg.Run.Probe.Y})
	if cfg.Run.Pin {
		s.PinEquipotential()
	}
	return s, nil
}

// Setup builds the simulator and registers the given metrics and the
// trace recorder.
func (e *Experiment) Setup(ms []sim.Metric) error {
	s, err := NewSimulator(e.cfg, e.log)
	if err != nil {
		return err
	}
	for _, m := range ms {
		s.AddMetric(m)
	}
	e.recorder = NewRecorder(e.cfg.Run.Ticks)
	s.AddObserver(e.recorder)
	e.simulator = s
	return nil
}

// Run ticks the scenario cfg.Run.Ticks times. On cancellation the partial
// result is returned with ctx.Err().
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	e.simulator.ResetMetrics()

	res := &Result{Scenario: e.cfg.Name}
	var runErr error
	for i := 0; i < e.cfg.Run.Ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}
		report, err := e.simulator.Tick(ctx, e.cfg.Run.Dt)
		if err != nil {
			runErr = err
			break
		}
		res.Merges = append(res.Merges, report.Merges...)
		res.Ticks++
	}

	res.Trace = e.recorder.Rows()
	res.Final = e.simulator.Charges()
	res.Levels = e.simulator.Voltmeter().Levels()
	res.Metrics = e.simulator.Metrics()
	e.log.Info("run finished",
		zap.String("scenario", res.Scenario),
		zap.Int("ticks", res.Ticks),
		zap.Int("merges", len(res.Merges)),
		zap.Int("live", len(res.Final)))
	return res, runErr
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// Metadata describes res for storage.
func (r *Result) Metadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Scenario: r.Scenario,
		Dt:       cfg.Run.Dt,
		Ticks:    r.Ticks,
		Charges:  len(cfg.Charges),
		Levels:   r.Levels,
		Metrics:  r.Metrics,
	}
}

// Recorder is an observer turning snapshots into trace rows.
type Recorder struct {
	rows    []storage.TraceRow
	scratch []float64
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{rows: make([]storage.TraceRow, 0, capacity)}
}

func (r *Recorder) OnTick(s sim.Snapshot) {
	r.rows = append(r.rows, storage.TraceRow{
		Tick:          s.Tick,
		Time:          s.Time,
		Charges:       len(s.Charges),
		KineticEnergy: metrics.TotalKinetic(s, &r.scratch),
		NetCharge:     metrics.SumCharge(s),
		Reading:       s.Reading,
		Merges:        s.Merges,
	})
}

func (r *Recorder) Rows() []storage.TraceRow { return r.rows }
