package experiment

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/chargesim/internal/config"
)

// Batch runs several scenarios concurrently, each on its own simulator.
type Batch struct {
	registry *Registry
	log      *zap.Logger
	workers  int
}

func NewBatch(registry *Registry, log *zap.Logger, workers int) *Batch {
	if log == nil {
		log = zap.NewNop()
	}
	return &Batch{registry: registry, log: log, workers: workers}
}

// Run executes every config and returns results in input order. The first
// failure cancels the remaining runs.
func (b *Batch) Run(ctx context.Context, cfgs []*config.Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))

	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			ms, err := b.registry.Metrics(nil, cfg)
			if err != nil {
				return err
			}
			e := New(cfg, b.log.With(zap.String("scenario", cfg.Name)))
			if err := e.Setup(ms); err != nil {
				return err
			}
			res, err := e.Run(gctx)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
