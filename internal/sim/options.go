package sim

import "go.uber.org/zap"

// Option configures a Simulator.
type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithWorkers overrides the layout's sampling concurrency.
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.layout.Workers = n }
}

// WithoutFieldSampling skips the probe lattice and potential grid on every
// tick. The voltmeter is still refreshed. Headless runs use this.
func WithoutFieldSampling() Option {
	return func(s *Simulator) { s.sampleField = false }
}
