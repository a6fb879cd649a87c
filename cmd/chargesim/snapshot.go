package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/chargesim/internal/config"
	"github.com/san-kum/chargesim/internal/experiment"
	"github.com/san-kum/chargesim/internal/export"
)

var (
	snapshotOut      string
	snapshotBlock    int
	snapshotPartners bool
	snapshotTrail    int
)

func snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "run a scenario and write its final frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	scenarioFlags(cmd)
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run before drawing")
	cmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&snapshotBlock, "block", export.DefaultOptions().Block, "grid samples per potential cell")
	cmd.Flags().BoolVar(&snapshotPartners, "partners", false, "draw per-partner force arrows")
	cmd.Flags().IntVar(&snapshotTrail, "trail", 200, "trail points kept per charge (0 = all)")
	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	cfg.Run.SampleField = true

	log := logger().With(zap.String("scenario", cfg.Name))
	s, err := experiment.NewSimulator(cfg, log)
	if err != nil {
		return err
	}
	tracer := export.NewTracer(snapshotTrail)
	s.AddObserver(tracer)

	for i := 0; i < cfg.Run.Ticks; i++ {
		if _, err := s.Tick(cmd.Context(), cfg.Run.Dt); err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if snapshotOut != "" {
		f, err := os.Create(snapshotOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	opts := export.DefaultOptions()
	opts.Block = snapshotBlock
	opts.ShowPartners = snapshotPartners
	opts.Trails = tracer.Trails()
	if err := export.SnapshotSVG(w, s, opts); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	if snapshotOut != "" {
		fmt.Printf("wrote %s (%d charges, t=%.2fs)\n", snapshotOut, s.Len(), s.Time())
	}
	log.Debug("snapshot written", zap.String("out", snapshotOut), zap.Int("ticks", s.TickCount()))
	return nil
}
